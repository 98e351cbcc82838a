package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/service"
)

// GenerateChangelogUseCase folds pending changes into the changelog for final releases.

type GenerateChangelogUseCase struct {
	ChangelogSvc service.ChangelogService
}

// Execute runs the use case. Prereleases get no changelog section and report false.
func (uc *GenerateChangelogUseCase) Execute(ctx context.Context, version domain.Version) (bool, string, error) {
	if version.IsPrerelease() {
		return false, "", nil
	}
	out, err := uc.ChangelogSvc.Generate(ctx, version)
	if err != nil {
		return false, "", fmt.Errorf("failed to generate changelog: %w", err)
	}
	return true, out, nil
}
