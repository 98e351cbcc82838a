package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/repository"
)

// CreateReleaseBranchUseCase creates and checks out the branch a release is prepared on.

type CreateReleaseBranchUseCase struct {
	GitRepo repository.GitRepository
}

// BranchName returns prefix followed by the version string.
func (uc *CreateReleaseBranchUseCase) BranchName(prefix string, version domain.Version) string {
	return prefix + version.String()
}

// Execute runs the use case.
func (uc *CreateReleaseBranchUseCase) Execute(ctx context.Context, branchName string) error {
	if err := uc.GitRepo.CreateBranch(ctx, branchName); err != nil {
		return fmt.Errorf("failed to create release branch: %w", err)
	}
	return nil
}
