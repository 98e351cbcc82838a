package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrGithubTokenRequired = errors.New("github token is required for GitHub operations")

type githubNoopRepository struct {
	owner string
	repo  string
}

// NewGithubNoopRepository is used when no token is configured.
func NewGithubNoopRepository(owner, repo string) GithubRepository {
	return &githubNoopRepository{owner: owner, repo: repo}
}

func (r *githubNoopRepository) CreatePullRequest(_ context.Context, _, _, _, _ string) (int, string, error) {
	return 0, "", fmt.Errorf("%w: unable to create pull request for %s/%s", ErrGithubTokenRequired, r.owner, r.repo)
}
