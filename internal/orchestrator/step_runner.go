package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is one transition of the release state machine.
type Step struct {
	Name  string
	State domain.ReleaseState
	// Skip, when set and true, records State as skipped without calling Run.
	Skip func() bool
	Run  func(ctx context.Context) (details map[string]any, err error)
}

// StepRunner executes steps in order and records every state reached in a run journal.
// Nothing is compensated on failure: the journal only shows where the run stopped.
type StepRunner struct {
	journalRepo repository.JournalRepository
	journal     *domain.RunJournal
	logger      *zap.Logger
}

// NewStepRunner creates a runner with a fresh session. journalRepo may be nil.
func NewStepRunner(journalRepo repository.JournalRepository, logger *zap.Logger) *StepRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := uuid.New().String()
	return &StepRunner{
		journalRepo: journalRepo,
		journal:     domain.NewRunJournal(sessionID),
		logger:      logger.With(zap.String("session_id", sessionID)),
	}
}

// Journal returns the journal of the current run.
func (r *StepRunner) Journal() *domain.RunJournal {
	return r.journal
}

// Execute runs steps until one fails.
func (r *StepRunner) Execute(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := r.run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *StepRunner) run(ctx context.Context, step Step) error {
	if step.Skip != nil && step.Skip() {
		r.logger.Debug("skipping step", zap.String("step", step.Name), zap.String("state", string(step.State)))
		r.journal.Skip(step.State)
		r.save(ctx)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return r.fail(ctx, step, err)
	}
	r.logger.Debug("running step", zap.String("step", step.Name))
	details, err := step.Run(ctx)
	if err != nil {
		return r.fail(ctx, step, err)
	}
	r.journal.Reach(step.State, details)
	r.logger.Debug("state reached", zap.String("state", string(step.State)))
	r.save(ctx)
	return nil
}

func (r *StepRunner) fail(ctx context.Context, step Step, err error) error {
	if errors.Is(err, domain.ErrUserDeclined) {
		r.journal.Abort(err)
		r.logger.Info("run aborted", zap.String("step", step.Name))
	} else {
		r.journal.Fail(step.Name, err)
		r.logger.Debug("step failed", zap.String("step", step.Name), zap.Error(err))
	}
	r.save(ctx)
	return fmt.Errorf("step '%s' failed: %w", step.Name, err)
}

// Complete marks the run as done.
func (r *StepRunner) Complete(ctx context.Context) {
	r.journal.Reach(domain.StateDone, nil)
	r.journal.Complete()
	r.save(ctx)
}

// save is best effort: a journal that cannot be written never fails the run.
func (r *StepRunner) save(ctx context.Context) {
	if r.journalRepo == nil {
		return
	}
	if err := r.journalRepo.Save(context.WithoutCancel(ctx), r.journal); err != nil {
		r.logger.Warn("failed to save run journal", zap.Error(err))
	}
}
