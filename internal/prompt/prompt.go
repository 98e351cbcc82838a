package prompt

import (
	"context"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
)

// Prompter asks the operator questions during a release run.
type Prompter interface {
	// Confirm asks a yes/no question; enter accepts defaultYes.
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	// Ask reads a free-form answer until validate accepts it. An empty answer
	// is returned as a UserDeclinedError.
	Ask(ctx context.Context, question string, validate func(string) error) (string, error)
	// Select returns one of choices.
	Select(ctx context.Context, question string, choices []string) (string, error)
}

type nonInteractivePrompter struct{}

// NewNonInteractivePrompter answers confirmations with their default and refuses open questions.
func NewNonInteractivePrompter() Prompter {
	return nonInteractivePrompter{}
}

func (nonInteractivePrompter) Confirm(_ context.Context, _ string, defaultYes bool) (bool, error) {
	return defaultYes, nil
}

func (nonInteractivePrompter) Ask(_ context.Context, question string, _ func(string) error) (string, error) {
	return "", fmt.Errorf("%w: %s", domain.ErrNonInteractive, question)
}

func (nonInteractivePrompter) Select(_ context.Context, question string, _ []string) (string, error) {
	return "", fmt.Errorf("%w: %s", domain.ErrNonInteractive, question)
}
