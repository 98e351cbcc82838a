package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/compozy/releaseprep/internal/config"
	"github.com/compozy/releaseprep/internal/console"
	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	manifestFile = "pyproject.toml"
	versionFile  = "rasa/version.py"
)

type fixture struct {
	git       *mockGitRepository
	metadata  *mockMetadataRepository
	changelog *mockChangelogService
	prompter  *mockPrompter
	github    *mockGithubRepository
	journal   *memoryJournalRepository
	out       *bytes.Buffer
	deps      Dependencies
	settings  Settings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.PairedDependency = "rasa-sdk"
	cfg.RepoURL = "https://github.com/RasaHQ/rasa"
	settings, err := NewSettings(cfg)
	require.NoError(t, err)
	f := &fixture{
		git:       new(mockGitRepository),
		metadata:  new(mockMetadataRepository),
		changelog: new(mockChangelogService),
		prompter:  new(mockPrompter),
		github:    new(mockGithubRepository),
		journal:   &memoryJournalRepository{},
		out:       &bytes.Buffer{},
		settings:  settings,
	}
	f.deps = Dependencies{
		GitRepo:      f.git,
		MetadataRepo: f.metadata,
		ChangelogSvc: f.changelog,
		Prompter:     f.prompter,
		GithubRepo:   f.github,
		JournalRepo:  f.journal,
		Printer:      console.NewPrinter(f.out),
	}
	return f
}

func (f *fixture) orchestrator() *ReleaseOrchestrator {
	return NewReleaseOrchestrator(f.deps, f.settings)
}

// expectUntilPersisted sets up a run that reaches the write of target.
func (f *fixture) expectUntilPersisted(current, target, dependency string) {
	f.git.On("IsClean", mock.Anything).Return(true, nil)
	f.metadata.On("ReadVersion", mock.Anything).Return(current, nil)
	f.git.On("Tags", mock.Anything).Return([]string{"2.3.0", current}, nil)
	f.prompter.On("Confirm", mock.Anything,
		"Current version is '"+current+"'. Is the next version '"+target+"' correct ?", true).Return(true, nil)
	f.metadata.On("ReadDependencyVersion", mock.Anything, "rasa-sdk").Return(dependency, nil)
	f.metadata.On("WriteVersion", mock.Anything, target).Return([]string{manifestFile, versionFile}, nil)
}

func findRecord(journal *domain.RunJournal, state domain.ReleaseState) (domain.StateRecord, bool) {
	for _, rec := range journal.States {
		if rec.State == state {
			return rec, true
		}
	}
	return domain.StateRecord{}, false
}

func TestReleaseOrchestrator_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Should prepare a patch release on a new release branch", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.4.1", "2.4.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.4.1").Return(nil)
		f.git.On("AddFiles", mock.Anything, []string{manifestFile, versionFile, "CHANGELOG.mdx"}).Return(nil)
		f.git.On("Commit", mock.Anything, "prepared release of version 2.4.1").Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.NoError(t, err)
		assert.Equal(t, "2.4.1", release.Version.String())
		assert.Equal(t, "prepare-release-2.4.1", release.BranchName)
		assert.Equal(t, "master", release.BaseBranch)
		assert.Equal(t,
			"https://github.com/RasaHQ/rasa/compare/master...prepare-release-2.4.1?expand=1", release.CompareURL)
		assert.Contains(t, f.out.String(), "All done - changes for version 2.4.1 are ready!")
		assert.Contains(t, f.out.String(), "Please open a PR on GitHub: "+release.CompareURL)
		f.git.AssertExpectations(t)
		f.metadata.AssertExpectations(t)
		f.changelog.AssertExpectations(t)
		f.github.AssertNotCalled(t, "CreatePullRequest")

		require.NotNil(t, f.journal.last)
		assert.Equal(t, domain.RunStatusCompleted, f.journal.last.Status)
		assert.Equal(t, "2.4.0", f.journal.last.CurrentVersion)
		assert.Equal(t, "2.4.1", f.journal.last.TargetVersion)
		assert.Equal(t, "prepare-release-2.4.1", f.journal.last.ReleaseBranch)
		assert.True(t, f.journal.last.HasReached(domain.StateReleaseBranchCommitted))
		assert.False(t, f.journal.last.HasReached(domain.StateSameBranchCommitted))
		assert.Equal(t, domain.StateDone, f.journal.last.Current())
	})

	t.Run("Should commit an alpha on the feature branch without changelog", func(t *testing.T) {
		f := newFixture(t)
		f.prompter.On("Select", mock.Anything, "Which alpha do you want to release?",
			[]string{"2.5.0a1", "2.4.1a1", "3.0.0a1"}).Return("2.4.1a1", nil)
		f.expectUntilPersisted("2.4.0", "2.4.1a1", "2.4.3")
		f.git.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		f.git.On("AddFiles", mock.Anything, []string{manifestFile, versionFile}).Return(nil)
		f.git.On("Commit", mock.Anything, "prepared release of version 2.4.1a1").Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "alpha"})

		require.NoError(t, err)
		assert.Equal(t, "2.4.1a1", release.Version.String())
		assert.Equal(t, "feature/x", release.BranchName)
		assert.Empty(t, release.CompareURL)
		assert.Contains(t, f.out.String(), "All done - changes for version 2.4.1a1 were committed on this branch")
		f.git.AssertNotCalled(t, "CreateBranch", mock.Anything, mock.Anything)
		f.changelog.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		rec, ok := findRecord(f.journal.last, domain.StateChangelogGenerated)
		require.True(t, ok)
		assert.True(t, rec.Skipped)
		assert.True(t, f.journal.last.HasReached(domain.StateSameBranchCommitted))
	})

	t.Run("Should continue the prerelease counter when switching to rc", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.1a2", "2.4.1rc3", "2.4.0")
		f.git.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.4.1rc3").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, "prepared release of version 2.4.1rc3").Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "rc"})

		require.NoError(t, err)
		assert.Equal(t, "2.4.1rc3", release.Version.String())
		assert.Equal(t, "prepare-release-2.4.1rc3", release.BranchName)
		assert.Equal(t, "feature/x", release.BaseBranch)
		f.changelog.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("Should use the release branch path for an alpha on a maintenance branch", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.1a1", "2.4.1a2", "2.4.0")
		f.git.On("CurrentBranch", mock.Anything).Return("2.4.x", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.4.1a2").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "alpha"})

		require.NoError(t, err)
		assert.Equal(t, "prepare-release-2.4.1a2", release.BranchName)
		assert.Equal(t,
			"https://github.com/RasaHQ/rasa/compare/2.4.x...prepare-release-2.4.1a2?expand=1", release.CompareURL)
	})

	t.Run("Should fall back to the main branch on a detached head", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.5.0", "2.5.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.5.0").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "minor"})

		require.NoError(t, err)
		assert.Equal(t, "master", release.BaseBranch)
	})

	t.Run("Should ask for the version when no directive is given", func(t *testing.T) {
		f := newFixture(t)
		f.prompter.On("Ask", mock.Anything,
			"What is the version number you want to release ('major', 'minor', 'patch', 'alpha', 'rc' "+
				"or valid version number e.g. '2.4.1' or '2.4.1a1')?",
			mock.Anything).Return("minor", nil)
		f.expectUntilPersisted("2.4.0", "2.5.0", "2.5.1")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.5.0").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		release, err := f.orchestrator().Execute(ctx, PrepareConfig{})

		require.NoError(t, err)
		assert.Equal(t, "2.5.0", release.Version.String())
		f.prompter.AssertExpectations(t)
	})

	t.Run("Should fail on a dirty tree before reading the version", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(false, nil)
		f.git.On("ChangedFiles", mock.Anything).Return([]string{versionFile}, nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.ErrorIs(t, err, domain.ErrDirtyTree)
		f.metadata.AssertNotCalled(t, "ReadVersion", mock.Anything)
		assert.Equal(t, domain.RunStatusFailed, f.journal.last.Status)
		assert.Equal(t, domain.StateStart, f.journal.last.Current())
	})

	t.Run("Should fail with FormatError on a malformed explicit version", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "2.4.1.rc1"})

		require.ErrorIs(t, err, domain.ErrFormat)
		var formatErr *domain.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "2.4.1.rc1", formatErr.Input)
		f.metadata.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything)
		f.prompter.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should fail with InvalidVersionError on an unsupported prerelease", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "2.4.1b1"})

		require.ErrorIs(t, err, domain.ErrInvalidVersion)
		f.metadata.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything)
	})

	t.Run("Should fail on a paired dependency mismatch before writing", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.git.On("Tags", mock.Anything).Return([]string{}, nil)
		f.prompter.On("Confirm", mock.Anything, mock.Anything, true).Return(true, nil)
		f.metadata.On("ReadDependencyVersion", mock.Anything, "rasa-sdk").Return("2.3.5", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.ErrorIs(t, err, domain.ErrDependencyMismatch)
		var mismatch *domain.DependencyMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "2.3.5", mismatch.DependencyVersion.String())
		assert.Equal(t, "2.4.1", mismatch.Target.String())
		f.metadata.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything)
		assert.Equal(t, domain.StateConfirmed, f.journal.last.Current())
	})

	t.Run("Should skip the dependency check when no paired dependency is configured", func(t *testing.T) {
		f := newFixture(t)
		f.settings.PairedDependency = ""
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.git.On("Tags", mock.Anything).Return([]string{}, nil)
		f.prompter.On("Confirm", mock.Anything, mock.Anything, true).Return(true, nil)
		f.metadata.On("WriteVersion", mock.Anything, "3.0.0").Return([]string{versionFile}, nil)
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-3.0.0").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "major"})

		require.NoError(t, err)
		f.metadata.AssertNotCalled(t, "ReadDependencyVersion", mock.Anything, mock.Anything)
	})

	t.Run("Should abort without side effects when the user declines", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.git.On("Tags", mock.Anything).Return([]string{}, nil)
		f.prompter.On("Confirm", mock.Anything, mock.Anything, true).Return(false, nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.ErrorIs(t, err, domain.ErrUserDeclined)
		f.metadata.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything)
		assert.Equal(t, domain.RunStatusAborted, f.journal.last.Status)
	})

	t.Run("Should ask to overwrite an existing tag with a default of no", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.git.On("Tags", mock.Anything).Return([]string{"2.4.1"}, nil)
		f.prompter.On("Confirm", mock.Anything,
			"Tag with version '2.4.1' already exists, overwrite?", false).Return(false, nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.ErrorIs(t, err, domain.ErrUserDeclined)
		f.prompter.AssertExpectations(t)
	})

	t.Run("Should surface the candidates when prompting is disabled", func(t *testing.T) {
		f := newFixture(t)
		f.deps.Prompter = prompt.NewNonInteractivePrompter()
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "rc"})

		require.ErrorIs(t, err, domain.ErrAmbiguousBump)
		var ambiguous *domain.AmbiguousBumpError
		require.ErrorAs(t, err, &ambiguous)
		require.Len(t, ambiguous.Candidates, 3)
		assert.Equal(t, "2.5.0rc1", ambiguous.Candidates[0].String())
		assert.Equal(t, "2.4.1rc1", ambiguous.Candidates[1].String())
		assert.Equal(t, "3.0.0rc1", ambiguous.Candidates[2].String())
	})

	t.Run("Should fail when prompting is disabled and no directive is given", func(t *testing.T) {
		f := newFixture(t)
		f.deps.Prompter = prompt.NewNonInteractivePrompter()
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{})

		require.ErrorIs(t, err, domain.ErrNonInteractive)
	})

	t.Run("Should fail when the current version is not canonical", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0.dev1", nil)

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.ErrorIs(t, err, domain.ErrFormat)
		assert.ErrorContains(t, err, "failed to parse current version")
	})

	t.Run("Should record the failed step when push fails", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.4.1", "2.4.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.4.1").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(errors.New("remote rejected"))

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to push")
		assert.Equal(t, domain.RunStatusFailed, f.journal.last.Status)
		assert.Equal(t, domain.StateReleaseBranchCommitted, f.journal.last.Current())
		rec, _ := findRecord(f.journal.last, domain.StateReleaseBranchCommitted)
		assert.True(t, rec.TreeDirty)
		assert.Equal(t, "push", rec.StepFailed)
	})

	t.Run("Should stop when the changelog generator fails", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.4.1", "2.4.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("towncrier exited 1"))

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate changelog")
		f.git.AssertNotCalled(t, "CurrentBranch", mock.Anything)
		f.git.AssertNotCalled(t, "PushHead", mock.Anything)
	})

	t.Run("Should create a pull request when requested", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.4.1", "2.4.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("- fixed things", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, "prepare-release-2.4.1").Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)
		f.github.On("CreatePullRequest", mock.Anything, "Prepare release 2.4.1", mock.Anything,
			"prepare-release-2.4.1", "master").Return(0, "", errors.New("502 bad gateway")).Once()
		f.github.On("CreatePullRequest", mock.Anything, "Prepare release 2.4.1", mock.Anything,
			"prepare-release-2.4.1", "master").Return(42, "https://github.com/RasaHQ/rasa/pull/42", nil).Once()

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch", OpenPR: true})

		require.NoError(t, err)
		assert.Contains(t, f.out.String(), "Pull request created: https://github.com/RasaHQ/rasa/pull/42")
		assert.NotContains(t, f.out.String(), "Please open a PR on GitHub")
		f.github.AssertNumberOfCalls(t, "CreatePullRequest", 2)
	})

	t.Run("Should fall back to the compare link when the pull request fails", func(t *testing.T) {
		f := newFixture(t)
		f.expectUntilPersisted("2.4.0", "2.4.1", "2.4.0")
		f.changelog.On("Generate", mock.Anything, mock.Anything).Return("", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)
		f.git.On("CreateBranch", mock.Anything, mock.Anything).Return(nil)
		f.git.On("AddFiles", mock.Anything, mock.Anything).Return(nil)
		f.git.On("Commit", mock.Anything, mock.Anything).Return(nil)
		f.git.On("PushHead", mock.Anything).Return(nil)
		f.github.On("CreatePullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(0, "", errors.New("forbidden"))

		_, err := f.orchestrator().Execute(ctx, PrepareConfig{Directive: "patch", OpenPR: true})

		require.NoError(t, err)
		assert.Contains(t, f.out.String(), "Could not create pull request")
		assert.Contains(t, f.out.String(), "Please open a PR on GitHub")
	})
}

func TestReleaseOrchestrator_Plan(t *testing.T) {
	ctx := context.Background()

	t.Run("Should resolve the next alpha without writing anything", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.1a1", nil)
		f.metadata.On("ReadDependencyVersion", mock.Anything, "rasa-sdk").Return("2.4.0", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("feature/x", nil)

		decision, err := f.orchestrator().Plan(ctx, "alpha")

		require.NoError(t, err)
		assert.Equal(t, "2.4.1a2", decision.Target.String())
		assert.True(t, decision.IsAlphaOnFeatureBranch)
		assert.False(t, decision.GenerateChangelog)
		assert.Empty(t, decision.ReleaseBranch)
		f.metadata.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything)
		f.git.AssertNotCalled(t, "CreateBranch", mock.Anything, mock.Anything)
		assert.Nil(t, f.journal.last)
	})

	t.Run("Should plan a release branch for a final version", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.metadata.On("ReadDependencyVersion", mock.Anything, "rasa-sdk").Return("2.4.2", nil)
		f.git.On("CurrentBranch", mock.Anything).Return("master", nil)

		decision, err := f.orchestrator().Plan(ctx, "2.4.1")

		require.NoError(t, err)
		assert.Equal(t, "2.4.0", decision.Current.String())
		assert.Equal(t, "prepare-release-2.4.1", decision.ReleaseBranch)
		assert.True(t, decision.GenerateChangelog)
	})

	t.Run("Should reject a dependency mismatch", func(t *testing.T) {
		f := newFixture(t)
		f.git.On("IsClean", mock.Anything).Return(true, nil)
		f.metadata.On("ReadVersion", mock.Anything).Return("2.4.0", nil)
		f.metadata.On("ReadDependencyVersion", mock.Anything, "rasa-sdk").Return("2.3.5", nil)

		_, err := f.orchestrator().Plan(ctx, "patch")

		assert.ErrorIs(t, err, domain.ErrDependencyMismatch)
	})
}
