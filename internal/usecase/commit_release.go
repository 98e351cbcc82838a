package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/repository"
)

// CommitReleaseUseCase stages the release files and commits them on the current branch.
type CommitReleaseUseCase struct {
	GitRepo repository.GitRepository
}

// CommitMessage is the message of the release commit.
func CommitMessage(version domain.Version) string {
	return fmt.Sprintf("prepared release of version %s", version)
}

// Execute runs the use case.
func (uc *CommitReleaseUseCase) Execute(ctx context.Context, version domain.Version, files []string) error {
	if len(files) > 0 {
		if err := uc.GitRepo.AddFiles(ctx, files...); err != nil {
			return fmt.Errorf("failed to stage release files: %w", err)
		}
	}
	if err := uc.GitRepo.Commit(ctx, CommitMessage(version)); err != nil {
		return fmt.Errorf("failed to commit release: %w", err)
	}
	return nil
}
