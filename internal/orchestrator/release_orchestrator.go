package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/compozy/releaseprep/internal/console"
	"github.com/compozy/releaseprep/internal/domain"
	"github.com/compozy/releaseprep/internal/prompt"
	"github.com/compozy/releaseprep/internal/repository"
	"github.com/compozy/releaseprep/internal/service"
	"github.com/compozy/releaseprep/internal/usecase"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const introMessage = "The release script will increase the version number, " +
	"create a changelog and create a release branch. Let's go!"

// PrepareConfig contains the options of one prepare run.
type PrepareConfig struct {
	// Directive is major, minor, patch, alpha, rc or an explicit version. Empty asks for it.
	Directive string
	// OpenPR creates a pull request when a release branch was pushed.
	OpenPR bool
}

// Dependencies are the collaborators of the orchestrator. GithubRepo and JournalRepo are optional.
type Dependencies struct {
	GitRepo      repository.GitRepository
	MetadataRepo repository.MetadataRepository
	GithubRepo   repository.GithubRepository
	JournalRepo  repository.JournalRepository
	ChangelogSvc service.ChangelogService
	Prompter     prompt.Prompter
	Printer      *console.Printer
	Logger       *zap.Logger
}

// ReleaseOrchestrator prepares a release: it bumps the version, writes the changelog
// and commits the result either on the current branch or on a new release branch.
type ReleaseOrchestrator struct {
	deps     Dependencies
	settings Settings
	resolver *usecase.VersionResolver
	guard    *usecase.ReleaseGuard
}

// NewReleaseOrchestrator creates a new release orchestrator.
func NewReleaseOrchestrator(deps Dependencies, settings Settings) *ReleaseOrchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ReleaseOrchestrator{
		deps:     deps,
		settings: settings,
		resolver: &usecase.VersionResolver{},
		guard:    &usecase.ReleaseGuard{GitRepo: deps.GitRepo, Prompter: deps.Prompter},
	}
}

// Execute runs the complete release preparation.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, cfg PrepareConfig) (*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	runner := NewStepRunner(o.deps.JournalRepo, o.deps.Logger)
	journal := runner.Journal()
	journal.Directive = cfg.Directive
	o.deps.Printer.Plain(introMessage)

	var (
		decision domain.ReleaseDecision
		files    []string
		release  = &domain.Release{}
	)
	err := runner.Execute(ctx,
		Step{
			Name:  "check working tree",
			State: domain.StateGuardsChecked,
			Run: func(ctx context.Context) (map[string]any, error) {
				return nil, o.guard.EnsureCleanWorkingTree(ctx)
			},
		},
		Step{
			Name:  "resolve version",
			State: domain.StateVersionResolved,
			Run: func(ctx context.Context) (map[string]any, error) {
				current, err := o.readCurrentVersion(ctx)
				if err != nil {
					return nil, err
				}
				journal.CurrentVersion = current.String()
				target, err := o.resolveTarget(ctx, current, cfg.Directive)
				if err != nil {
					return nil, err
				}
				journal.TargetVersion = target.String()
				decision.Current, decision.Target = current, target
				return map[string]any{"current": current.String(), "target": target.String()}, nil
			},
		},
		Step{
			Name:  "confirm version",
			State: domain.StateConfirmed,
			Run: func(ctx context.Context) (map[string]any, error) {
				return nil, o.confirm(ctx, decision.Current, decision.Target)
			},
		},
		Step{
			Name:  "check paired dependency",
			State: domain.StateValidated,
			Run: func(ctx context.Context) (map[string]any, error) {
				return o.checkDependency(ctx, decision.Target)
			},
		},
		Step{
			Name:  "write version",
			State: domain.StatePersisted,
			Run: func(ctx context.Context) (map[string]any, error) {
				written, err := o.deps.MetadataRepo.WriteVersion(ctx, decision.Target.String())
				if err != nil {
					return nil, fmt.Errorf("failed to write version: %w", err)
				}
				files = append(files, written...)
				return map[string]any{"files": written}, nil
			},
		},
		Step{
			Name:  "generate changelog",
			State: domain.StateChangelogGenerated,
			Skip:  func() bool { return decision.Target.IsPrerelease() },
			Run: func(ctx context.Context) (map[string]any, error) {
				uc := &usecase.GenerateChangelogUseCase{ChangelogSvc: o.deps.ChangelogSvc}
				generated, out, err := uc.Execute(ctx, decision.Target)
				if err != nil {
					return nil, err
				}
				release.Changelog = out
				if generated && o.settings.ChangelogFile != "" {
					files = append(files, o.settings.ChangelogFile)
				}
				return map[string]any{"file": o.settings.ChangelogFile}, nil
			},
		},
		Step{
			Name:  "select workflow",
			State: domain.StateWorkflowSelected,
			Run: func(ctx context.Context) (map[string]any, error) {
				d, err := o.decide(ctx, decision.Current, decision.Target)
				if err != nil {
					return nil, err
				}
				decision = d
				journal.BaseBranch, journal.ReleaseBranch = d.BaseBranch, d.ReleaseBranch
				return map[string]any{"same_branch": d.IsAlphaOnFeatureBranch, "base": d.BaseBranch}, nil
			},
		},
	)
	if err != nil {
		return nil, err
	}

	if err := runner.Execute(ctx, o.commitStep(decision, files), Step{
		Name:  "push",
		State: domain.StatePushed,
		Run: func(ctx context.Context) (map[string]any, error) {
			if err := o.deps.GitRepo.PushHead(ctx); err != nil {
				return nil, fmt.Errorf("failed to push: %w", err)
			}
			return nil, nil
		},
	}); err != nil {
		return nil, err
	}

	release.Version = decision.Target
	release.BaseBranch = decision.BaseBranch
	release.BranchName = decision.BaseBranch
	if !decision.IsAlphaOnFeatureBranch {
		release.BranchName = decision.ReleaseBranch
		release.CompareURL = o.settings.CompareURL(decision.BaseBranch, decision.ReleaseBranch)
	}
	runner.Complete(ctx)
	o.printDone(ctx, release, decision, cfg.OpenPR)
	return release, nil
}

// Plan resolves the version and the workflow path without writing anything.
func (o *ReleaseOrchestrator) Plan(ctx context.Context, directive string) (domain.ReleaseDecision, error) {
	if err := o.guard.EnsureCleanWorkingTree(ctx); err != nil {
		return domain.ReleaseDecision{}, err
	}
	current, err := o.readCurrentVersion(ctx)
	if err != nil {
		return domain.ReleaseDecision{}, err
	}
	target, err := o.resolveTarget(ctx, current, directive)
	if err != nil {
		return domain.ReleaseDecision{}, err
	}
	if _, err := o.checkDependency(ctx, target); err != nil {
		return domain.ReleaseDecision{}, err
	}
	return o.decide(ctx, current, target)
}

func (o *ReleaseOrchestrator) commitStep(decision domain.ReleaseDecision, files []string) Step {
	commit := &usecase.CommitReleaseUseCase{GitRepo: o.deps.GitRepo}
	if decision.IsAlphaOnFeatureBranch {
		return Step{
			Name:  "commit on current branch",
			State: domain.StateSameBranchCommitted,
			Run: func(ctx context.Context) (map[string]any, error) {
				return map[string]any{"branch": decision.BaseBranch}, commit.Execute(ctx, decision.Target, files)
			},
		}
	}
	return Step{
		Name:  "commit on release branch",
		State: domain.StateReleaseBranchCommitted,
		Run: func(ctx context.Context) (map[string]any, error) {
			branch := &usecase.CreateReleaseBranchUseCase{GitRepo: o.deps.GitRepo}
			if err := branch.Execute(ctx, decision.ReleaseBranch); err != nil {
				return nil, err
			}
			return map[string]any{"branch": decision.ReleaseBranch}, commit.Execute(ctx, decision.Target, files)
		},
	}
}

func (o *ReleaseOrchestrator) readCurrentVersion(ctx context.Context) (domain.Version, error) {
	text, err := o.deps.MetadataRepo.ReadVersion(ctx)
	if err != nil {
		return domain.Version{}, fmt.Errorf("failed to read current version: %w", err)
	}
	current, err := domain.ParseVersion(text)
	if err != nil {
		return domain.Version{}, fmt.Errorf("failed to parse current version: %w", err)
	}
	return current, nil
}

// resolveTarget asks for a directive when none was given and lets the operator pick a
// base when a prerelease bump is ambiguous.
func (o *ReleaseOrchestrator) resolveTarget(
	ctx context.Context,
	current domain.Version,
	text string,
) (domain.Version, error) {
	if strings.TrimSpace(text) == "" {
		answer, err := o.deps.Prompter.Ask(ctx, versionQuestion(current), usecase.ValidateDirective)
		if err != nil {
			return domain.Version{}, err
		}
		text = answer
	}
	target, err := o.resolver.Resolve(current, domain.ParseBumpDirective(text))
	var ambiguous *domain.AmbiguousBumpError
	if !errors.As(err, &ambiguous) {
		return target, err
	}
	return o.selectCandidate(ctx, ambiguous)
}

func (o *ReleaseOrchestrator) selectCandidate(
	ctx context.Context,
	ambiguous *domain.AmbiguousBumpError,
) (domain.Version, error) {
	choices := make([]string, len(ambiguous.Candidates))
	for i, c := range ambiguous.Candidates {
		choices[i] = c.String()
	}
	choice, err := o.deps.Prompter.Select(ctx,
		fmt.Sprintf("Which %s do you want to release?", ambiguous.Flavor), choices)
	if errors.Is(err, domain.ErrNonInteractive) {
		return domain.Version{}, ambiguous
	}
	if err != nil {
		return domain.Version{}, err
	}
	return domain.ParseVersion(choice)
}

func (o *ReleaseOrchestrator) confirm(ctx context.Context, current, target domain.Version) error {
	tags, err := o.deps.GitRepo.Tags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	ok, err := o.guard.ConfirmTarget(ctx, current, target, tags)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.UserDeclinedError{Question: fmt.Sprintf("release of version %s", target)}
	}
	return nil
}

func (o *ReleaseOrchestrator) checkDependency(ctx context.Context, target domain.Version) (map[string]any, error) {
	name := o.settings.PairedDependency
	if name == "" {
		o.deps.Logger.Info("paired dependency check disabled")
		return map[string]any{"checked": false}, nil
	}
	declared, err := o.deps.MetadataRepo.ReadDependencyVersion(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s version: %w", name, err)
	}
	dependency, err := domain.ParseDependencyVersion(declared)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s version: %w", name, err)
	}
	if err := o.guard.EnsureDependencyCompatible(name, target, dependency); err != nil {
		return nil, err
	}
	o.deps.Logger.Info("paired dependency is compatible",
		zap.String("dependency", name), zap.String("version", dependency.String()))
	return map[string]any{"checked": true, "dependency_version": dependency.String()}, nil
}

// decide picks the same-branch path for an alpha cut from a feature branch and
// the release-branch path for everything else.
func (o *ReleaseOrchestrator) decide(
	ctx context.Context,
	current, target domain.Version,
) (domain.ReleaseDecision, error) {
	branch, err := o.deps.GitRepo.CurrentBranch(ctx)
	if err != nil {
		return domain.ReleaseDecision{}, fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch == "" {
		branch = o.settings.MainBranch
	}
	decision := domain.ReleaseDecision{
		Current:                current,
		Target:                 target,
		BaseBranch:             branch,
		IsAlphaOnFeatureBranch: target.IsAlpha() && o.settings.IsFeatureBranch(branch),
		GenerateChangelog:      !target.IsPrerelease(),
	}
	if !decision.IsAlphaOnFeatureBranch {
		uc := &usecase.CreateReleaseBranchUseCase{GitRepo: o.deps.GitRepo}
		decision.ReleaseBranch = uc.BranchName(o.settings.BranchPrefix, target)
		if err := ValidateBranchName(decision.ReleaseBranch); err != nil {
			return domain.ReleaseDecision{}, fmt.Errorf("invalid branch name: %w", err)
		}
	}
	return decision, nil
}

func (o *ReleaseOrchestrator) printDone(
	ctx context.Context,
	release *domain.Release,
	decision domain.ReleaseDecision,
	openPR bool,
) {
	p := o.deps.Printer
	if decision.IsAlphaOnFeatureBranch {
		p.Success("All done - changes for version %s were committed on this branch", p.Highlight(release.Version.String()))
		return
	}
	p.Success("All done - changes for version %s are ready!", p.Highlight(release.Version.String()))
	if openPR {
		if url, ok := o.openPullRequest(ctx, release); ok {
			p.Info("Pull request created: %s", url)
			return
		}
	}
	if release.CompareURL != "" {
		p.Plain("Please open a PR on GitHub: %s", release.CompareURL)
	} else {
		p.Plain("Please open a PR from %s into %s", release.BranchName, release.BaseBranch)
	}
}

// openPullRequest is best effort: the branch is already pushed, so a failure only warns.
func (o *ReleaseOrchestrator) openPullRequest(ctx context.Context, release *domain.Release) (string, bool) {
	if o.deps.GithubRepo == nil {
		o.deps.Printer.Warn("Skipping pull request: no GitHub token configured")
		return "", false
	}
	bodyUC := &usecase.PreparePRBodyUseCase{}
	body, err := bodyUC.Execute(ctx, release)
	if err != nil {
		o.deps.Printer.Warn("Could not render pull request body: %v", err)
		return "", false
	}
	var url string
	strategy := retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay))
	err = retry.Do(ctx, strategy, func(ctx context.Context) error {
		number, prURL, err := o.deps.GithubRepo.CreatePullRequest(ctx,
			bodyUC.Title(release.Version), body, release.BranchName, release.BaseBranch)
		if err != nil {
			if errors.Is(err, repository.ErrGithubTokenRequired) {
				return err
			}
			return retry.RetryableError(err)
		}
		o.deps.Logger.Debug("pull request created", zap.Int("number", number))
		url = prURL
		return nil
	})
	if err != nil {
		o.deps.Printer.Warn("Could not create pull request: %v", err)
		return "", false
	}
	return url, true
}

func versionQuestion(current domain.Version) string {
	nextPatch := current.NextPatch()
	return fmt.Sprintf("What is the version number you want to release "+
		"('major', 'minor', 'patch', 'alpha', 'rc' or valid version number e.g. '%s' or '%s')?",
		nextPatch, nextPatch.NextPrerelease(domain.FlavorAlpha))
}
