package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/viper"
)

type Config struct {
	VersionFile          string `mapstructure:"version_file"`
	PyprojectFile        string `mapstructure:"pyproject_file"`
	PairedDependency     string `mapstructure:"paired_dependency"`
	MainBranch           string `mapstructure:"main_branch"`
	ReleaseBranchPattern string `mapstructure:"release_branch_pattern"`
	ReleaseBranchPrefix  string `mapstructure:"release_branch_prefix"`
	ChangelogCommand     string `mapstructure:"changelog_command"`
	ChangelogFile        string `mapstructure:"changelog_file"`
	Remote               string `mapstructure:"remote"`
	RepoURL              string `mapstructure:"repo_url"`
	StateDir             string `mapstructure:"state_dir"`
	GithubToken          string `mapstructure:"github_token"`
	GithubOwner          string `mapstructure:"github_owner"`
	GithubRepo           string `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		VersionFile:          "version.py",
		PyprojectFile:        "pyproject.toml",
		MainBranch:           "master",
		ReleaseBranchPattern: `^\d+\.\d+\.x$`,
		ReleaseBranchPrefix:  "prepare-release-",
		ChangelogCommand:     "towncrier",
		ChangelogFile:        "CHANGELOG.mdx",
		Remote:               "origin",
		StateDir:             filepath.Join(".git", "release-prep"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// GitHub settings are only checked by ValidateForGitHubOperations
	if c.VersionFile == "" && c.PyprojectFile == "" {
		return fmt.Errorf("at least one of version_file and pyproject_file must be set")
	}
	for key, path := range map[string]string{
		"version_file":   c.VersionFile,
		"pyproject_file": c.PyprojectFile,
		"changelog_file": c.ChangelogFile,
		"state_dir":      c.StateDir,
	} {
		// Check for path traversal
		if strings.Contains(path, "..") {
			return fmt.Errorf("%s contains invalid path traversal", key)
		}
	}
	for key, value := range map[string]string{
		"main_branch":           c.MainBranch,
		"release_branch_prefix": c.ReleaseBranchPrefix,
		"remote":                c.Remote,
		"state_dir":             c.StateDir,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
	}
	if _, err := regexp.Compile(c.ReleaseBranchPattern); err != nil {
		return fmt.Errorf("invalid release_branch_pattern: %w", err)
	}
	return nil
}

// ValidateForGitHubOperations validates that GitHub token is present for operations that require it
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	if c.GithubOwner == "" || c.GithubRepo == "" {
		return fmt.Errorf("github_owner and github_repo are required for GitHub operations")
	}
	if err := ValidateGitHubToken(c.GithubToken); err != nil {
		return fmt.Errorf("invalid github_token: %w", err)
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	return c.Validate()
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	prefixedPAT := regexp.MustCompile(`^ghp_[a-zA-Z0-9]{36}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!prefixedPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads .release-prep.yaml from the working directory, or configFile when set,
// and overlays RELEASE_PREP_* environment variables.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".release-prep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	// Configure environment variables
	v.SetEnvPrefix("RELEASE_PREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	bindings := map[string][]string{
		"github_token": {"RELEASE_PREP_GITHUB_TOKEN", "GITHUB_TOKEN"},
		"github_owner": {"RELEASE_PREP_GITHUB_OWNER", "GITHUB_OWNER"},
		"github_repo":  {"RELEASE_PREP_GITHUB_REPO", "GITHUB_REPO"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("version_file", defaults.VersionFile)
	v.SetDefault("pyproject_file", defaults.PyprojectFile)
	v.SetDefault("paired_dependency", defaults.PairedDependency)
	v.SetDefault("main_branch", defaults.MainBranch)
	v.SetDefault("release_branch_pattern", defaults.ReleaseBranchPattern)
	v.SetDefault("release_branch_prefix", defaults.ReleaseBranchPrefix)
	v.SetDefault("changelog_command", defaults.ChangelogCommand)
	v.SetDefault("changelog_file", defaults.ChangelogFile)
	v.SetDefault("remote", defaults.Remote)
	v.SetDefault("repo_url", defaults.RepoURL)
	v.SetDefault("state_dir", defaults.StateDir)
	v.SetDefault("github_owner", "")
	v.SetDefault("github_repo", "")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := populateRepositoryDefaults(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// populateRepositoryDefaults fills owner and repo from GITHUB_REPOSITORY, then from the
// remote URL of the repository in the working directory, and derives repo_url from them.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.GithubOwner == "" || cfg.GithubRepo == "" {
		owner, repo := repositoryFromEnv()
		if owner == "" || repo == "" {
			owner, repo = repositoryFromRemote(cfg.Remote)
		}
		if cfg.GithubOwner == "" {
			cfg.GithubOwner = owner
		}
		if cfg.GithubRepo == "" {
			cfg.GithubRepo = repo
		}
	}
	if cfg.RepoURL == "" && cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		cfg.RepoURL = fmt.Sprintf("https://github.com/%s/%s", cfg.GithubOwner, cfg.GithubRepo)
	}
	cfg.RepoURL = strings.TrimSuffix(cfg.RepoURL, "/")
	return nil
}

func repositoryFromEnv() (string, string) {
	if slug := strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY")); slug != "" {
		if owner, repo, ok := strings.Cut(slug, "/"); ok {
			return owner, repo
		}
	}
	return os.Getenv("GITHUB_REPOSITORY_OWNER"), os.Getenv("GITHUB_REPOSITORY_NAME")
}

func repositoryFromRemote(name string) (string, string) {
	if name == "" {
		name = "origin"
	}
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ""
	}
	remote, err := repo.Remote(name)
	if err != nil || len(remote.Config().URLs) == 0 {
		return "", ""
	}
	owner, project, err := parseGitRemoteURL(remote.Config().URLs[0])
	if err != nil {
		return "", ""
	}
	return owner, project
}

var scpLikeURL = regexp.MustCompile(`^[^@/]+@[^:/]+:(.+)$`)

// parseGitRemoteURL extracts owner and repository from https, ssh and local path remotes.
func parseGitRemoteURL(remoteURL string) (string, string, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	path := remoteURL
	switch {
	case strings.Contains(remoteURL, "://"):
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", "", fmt.Errorf("failed to parse remote url %s: %w", remoteURL, err)
		}
		path = u.Path
	case scpLikeURL.MatchString(remoteURL):
		path = scpLikeURL.FindStringSubmatch(remoteURL)[1]
	}
	path = strings.TrimSuffix(strings.Trim(filepath.ToSlash(path), "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot determine owner and repository from %s", remoteURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
