package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/compozy/releaseprep/internal/config"
)

// Settings are the immutable values a release run works with.
type Settings struct {
	MainBranch           string
	ReleaseBranchPattern *regexp.Regexp
	BranchPrefix         string
	RepoURL              string
	PairedDependency     string
	ChangelogFile        string
}

// NewSettings converts the loaded configuration.
func NewSettings(cfg *config.Config) (Settings, error) {
	pattern, err := regexp.Compile(cfg.ReleaseBranchPattern)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid release branch pattern: %w", err)
	}
	return Settings{
		MainBranch:           cfg.MainBranch,
		ReleaseBranchPattern: pattern,
		BranchPrefix:         cfg.ReleaseBranchPrefix,
		RepoURL:              strings.TrimSuffix(cfg.RepoURL, "/"),
		PairedDependency:     cfg.PairedDependency,
		ChangelogFile:        cfg.ChangelogFile,
	}, nil
}

// IsFeatureBranch reports whether branch is neither the main branch nor a maintenance line.
func (s Settings) IsFeatureBranch(branch string) bool {
	if branch == s.MainBranch {
		return false
	}
	if s.ReleaseBranchPattern != nil && s.ReleaseBranchPattern.MatchString(branch) {
		return false
	}
	return true
}

// CompareURL links the diff between base and branch. Empty when no repository URL is known.
func (s Settings) CompareURL(base, branch string) string {
	if s.RepoURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/compare/%s...%s?expand=1", s.RepoURL, base, branch)
}
