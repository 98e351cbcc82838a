package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/releaseprep/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubRepository creates a new GithubRepository with validation.
func NewGithubRepository(token, owner, repo string) (GithubRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return newGithubRepository(github.NewClient(tc), owner, repo), nil
}

func newGithubRepository(client *github.Client, owner, repo string) *githubRepository {
	return &githubRepository{client: client, owner: owner, repo: repo}
}

// CreatePullRequest opens a pull request from head into base. An open pull request for the
// same branches is updated with the new title and body instead, so re-running a release is safe.
func (r *githubRepository) CreatePullRequest(ctx context.Context, title, body, head, base string) (int, string, error) {
	prs, _, err := r.client.PullRequests.List(ctx, r.owner, r.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", r.owner, head),
		Base:  base,
		State: "open",
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to list pull requests: %w", err)
	}
	if len(prs) > 0 {
		pr, _, err := r.client.PullRequests.Edit(ctx, r.owner, r.repo, prs[0].GetNumber(), &github.PullRequest{
			Title: github.Ptr(title),
			Body:  github.Ptr(body),
		})
		if err != nil {
			return 0, "", fmt.Errorf("failed to update pull request #%d: %w", prs[0].GetNumber(), err)
		}
		return pr.GetNumber(), pr.GetHTMLURL(), nil
	}
	pr, _, err := r.client.PullRequests.Create(ctx, r.owner, r.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to create pull request: %w", err)
	}
	return pr.GetNumber(), pr.GetHTMLURL(), nil
}
