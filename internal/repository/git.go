package repository

import "context"

// GitRepository defines the interface for the version control operations of a release run.

type GitRepository interface {
	// ChangedFiles lists tracked files with staged or unstaged changes. Untracked files are ignored.
	ChangedFiles(ctx context.Context) ([]string, error)
	// IsClean reports whether ChangedFiles is empty.
	IsClean(ctx context.Context) (bool, error)
	// CurrentBranch returns the short branch name, or an empty string on a detached HEAD.
	CurrentBranch(ctx context.Context) (string, error)
	Tags(ctx context.Context) ([]string, error)
	// CreateBranch creates the branch at HEAD and switches to it, keeping local changes.
	CreateBranch(ctx context.Context, name string) error
	AddFiles(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	// PushHead pushes the current branch to the configured remote.
	PushHead(ctx context.Context) error
}
