package service

import (
	"context"

	"github.com/compozy/releaseprep/internal/domain"
)

// ChangelogService defines the interface for the changelog tool that folds pending
// news fragments into the changelog file.

type ChangelogService interface {
	// Generate writes the changelog section for version and returns the rendered section.
	Generate(ctx context.Context, version domain.Version) (string, error)
}
