package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/prompt"
	"github.com/compozy/releaseprep/internal/repository"
)

// ReleaseGuard holds the preconditions of a release run.
type ReleaseGuard struct {
	GitRepo  repository.GitRepository
	Prompter prompt.Prompter
}

// EnsureCleanWorkingTree fails with a DirtyTreeError listing the changed files when
// tracked files have changes.
func (g *ReleaseGuard) EnsureCleanWorkingTree(ctx context.Context) error {
	clean, err := g.GitRepo.IsClean(ctx)
	if err != nil {
		return fmt.Errorf("failed to check working tree: %w", err)
	}
	if clean {
		return nil
	}
	files, err := g.GitRepo.ChangedFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}
	return &domain.DirtyTreeError{Files: files}
}

// EnsureDependencyCompatible requires the paired dependency to be on the target's major.minor line.
func (g *ReleaseGuard) EnsureDependencyCompatible(name string, target, dependency domain.Version) error {
	if dependency.Major() != target.Major() || dependency.Minor() != target.Minor() {
		return &domain.DependencyMismatchError{
			Dependency:        name,
			DependencyVersion: dependency,
			Target:            target,
		}
	}
	return nil
}

// ConfirmTarget asks to overwrite an existing tag (default no) or to proceed (default yes).
func (g *ReleaseGuard) ConfirmTarget(
	ctx context.Context,
	current, target domain.Version,
	existingTags []string,
) (bool, error) {
	for _, tag := range existingTags {
		if tag == target.String() {
			return g.Prompter.Confirm(ctx,
				fmt.Sprintf("Tag with version '%s' already exists, overwrite?", target), false)
		}
	}
	return g.Prompter.Confirm(ctx,
		fmt.Sprintf("Current version is '%s'. Is the next version '%s' correct ?", current, target), true)
}
