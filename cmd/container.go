package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/compozy/releaseprep/internal/config"
	"github.com/compozy/releaseprep/internal/console"
	"github.com/compozy/releaseprep/internal/orchestrator"
	"github.com/compozy/releaseprep/internal/prompt"
	"github.com/compozy/releaseprep/internal/repository"
	"github.com/compozy/releaseprep/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg    *config.Config
	logger *zap.Logger

	printer      *console.Printer
	prompter     prompt.Prompter
	fsRepo       repository.FileSystemRepository
	gitRepo      repository.GitRepository
	metadataRepo repository.MetadataRepository
	githubRepo   repository.GithubRepository
	journalRepo  repository.JournalRepository
	changelogSvc service.ChangelogService
}

// newContainer wires the dependencies for the repository in the working directory.
func newContainer(out io.Writer, nonInteractive bool) (*container, error) {
	logger := zap.NewNop()
	if flags.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	// Metadata paths, the journal and the changelog tool are all relative to the worktree root
	root, err := repository.WorktreeRoot(dir)
	if err != nil {
		return nil, err
	}
	fsRepo := repository.FileSystemRepository(afero.NewBasePathFs(afero.NewOsFs(), root))
	gitRepo, err := repository.NewGitRepository(root, repository.GitOptions{
		Remote: cfg.Remote,
		Token:  cfg.GithubToken,
	})
	if err != nil {
		return nil, err
	}

	// GitHub repository is optional - fall back to a no-op when no token is provided
	var githubRepo repository.GithubRepository
	if ghErr := cfg.ValidateForGitHubOperations(); cfg.GithubToken != "" && ghErr == nil {
		githubRepo, err = repository.NewGithubRepository(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug("github operations disabled", zap.Error(ghErr))
		githubRepo = repository.NewGithubNoopRepository(cfg.GithubOwner, cfg.GithubRepo)
	}

	changelogSvc, err := service.NewTowncrierService(cfg.ChangelogCommand, root)
	if err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	if nonInteractive || !isTerminal(os.Stdin) {
		logger.Debug("prompting disabled")
		prompter = prompt.NewNonInteractivePrompter()
	} else {
		prompter = prompt.NewTerminalPrompter(os.Stdin, out)
	}

	return &container{
		cfg:          cfg,
		logger:       logger,
		printer:      console.NewPrinter(out),
		prompter:     prompter,
		fsRepo:       fsRepo,
		gitRepo:      gitRepo,
		metadataRepo: repository.NewMetadataRepository(fsRepo, cfg.VersionFile, cfg.PyprojectFile),
		githubRepo:   githubRepo,
		journalRepo:  repository.NewJSONJournalRepository(afero.NewOsFs(), stateDir(root, cfg.StateDir)),
		changelogSvc: changelogSvc,
	}, nil
}

// orchestrator builds the release orchestrator from the container.
func (c *container) orchestrator() (*orchestrator.ReleaseOrchestrator, error) {
	settings, err := orchestrator.NewSettings(c.cfg)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewReleaseOrchestrator(orchestrator.Dependencies{
		GitRepo:      c.gitRepo,
		MetadataRepo: c.metadataRepo,
		GithubRepo:   c.githubRepo,
		JournalRepo:  c.journalRepo,
		ChangelogSvc: c.changelogSvc,
		Prompter:     c.prompter,
		Printer:      c.printer,
		Logger:       c.logger,
	}, settings), nil
}

func (c *container) close() {
	_ = c.logger.Sync()
}

// stateDir anchors a relative state directory at the worktree root. The journal lock
// files live on the real filesystem, so the journal gets an absolute path.
func stateDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	rootCmd.AddCommand(
		newPrepareCmd(),
		newPlanCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return nil
}
