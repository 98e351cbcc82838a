package repository

import "context"

// GithubRepository defines the interface for GitHub API operations.

type GithubRepository interface {
	// CreatePullRequest opens, or refreshes the open, pull request from head into base
	// and returns its number and URL.
	CreatePullRequest(ctx context.Context, title, body, head, base string) (int, string, error)
}
