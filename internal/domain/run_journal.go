package domain

import (
	"time"
)

// RunStatus represents the overall status of a release preparation run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusAborted   RunStatus = "aborted"
)

// ReleaseState is a state of the release preparation state machine
type ReleaseState string

const (
	StateStart                  ReleaseState = "start"
	StateGuardsChecked          ReleaseState = "guards_checked"
	StateVersionResolved        ReleaseState = "version_resolved"
	StateConfirmed              ReleaseState = "confirmed"
	StateValidated              ReleaseState = "validated"
	StatePersisted              ReleaseState = "persisted"
	StateChangelogGenerated     ReleaseState = "changelog_generated"
	StateWorkflowSelected       ReleaseState = "workflow_selected"
	StateSameBranchCommitted    ReleaseState = "same_branch_committed"
	StateReleaseBranchCommitted ReleaseState = "release_branch_committed"
	StatePushed                 ReleaseState = "pushed"
	StateDone                   ReleaseState = "done"
)

// StateRecord is one entry of the journal
type StateRecord struct {
	State      ReleaseState   `json:"state"`
	ReachedAt  time.Time      `json:"reached_at"`
	Skipped    bool           `json:"skipped,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	TreeDirty  bool           `json:"tree_dirty"`
	StepFailed string         `json:"step_failed,omitempty"`
}

// RunJournal records how far a run got. It is informational only: nothing is rolled back.
type RunJournal struct {
	SessionID      string        `json:"session_id"`
	StartedAt      time.Time     `json:"started_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Directive      string        `json:"directive,omitempty"`
	CurrentVersion string        `json:"current_version,omitempty"`
	TargetVersion  string        `json:"target_version,omitempty"`
	BaseBranch     string        `json:"base_branch,omitempty"`
	ReleaseBranch  string        `json:"release_branch,omitempty"`
	States         []StateRecord `json:"states"`
	Status         RunStatus     `json:"status"`
	Error          string        `json:"error,omitempty"`
}

// NewRunJournal creates a journal positioned at StateStart
func NewRunJournal(sessionID string) *RunJournal {
	now := time.Now()
	return &RunJournal{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		States:    []StateRecord{{State: StateStart, ReachedAt: now}},
		Status:    RunStatusRunning,
	}
}

// Reach appends a state. Once StatePersisted has been reached every later record is
// flagged as operating on a dirty tree.
func (j *RunJournal) Reach(state ReleaseState, details map[string]any) {
	now := time.Now()
	j.States = append(j.States, StateRecord{
		State:     state,
		ReachedAt: now,
		Details:   details,
		TreeDirty: state == StatePersisted || j.HasReached(StatePersisted),
	})
	j.UpdatedAt = now
}

// Skip records a state that was passed over, e.g. the changelog for a prerelease.
func (j *RunJournal) Skip(state ReleaseState) {
	j.Reach(state, nil)
	j.States[len(j.States)-1].Skipped = true
}

// Current returns the last state reached
func (j *RunJournal) Current() ReleaseState {
	if len(j.States) == 0 {
		return StateStart
	}
	return j.States[len(j.States)-1].State
}

// HasReached reports whether the state appears in the journal
func (j *RunJournal) HasReached(state ReleaseState) bool {
	for _, rec := range j.States {
		if rec.State == state {
			return true
		}
	}
	return false
}

// Fail marks the run as failed while attempting the named step
func (j *RunJournal) Fail(step string, err error) {
	j.Status = RunStatusFailed
	j.Error = err.Error()
	if len(j.States) > 0 {
		j.States[len(j.States)-1].StepFailed = step
	}
	j.UpdatedAt = time.Now()
}

// Abort marks the run as declined by the user
func (j *RunJournal) Abort(err error) {
	j.Status = RunStatusAborted
	j.Error = err.Error()
	j.UpdatedAt = time.Now()
}

// Complete marks the run as finished
func (j *RunJournal) Complete() {
	j.Status = RunStatusCompleted
	j.UpdatedAt = time.Now()
}
