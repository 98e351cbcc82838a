package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const versionFileHeader = "# this file will automatically be changed,\n" +
	"# do not add anything but the version number here!\n"

var (
	versionAssignRegex = regexp.MustCompile(`__version__\s*=\s*["']([^"']+)["']`)
	tableHeaderRegex   = regexp.MustCompile(`^\s*\[\[?([^\[\]]+)\]\]?\s*(#.*)?$`)
	versionKeyRegex    = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])[^"']*(["'])(.*)$`)
	pep508Regex        = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*(.*)$`)
)

// manifestTables are the pyproject tables whose version key follows the project version.
var manifestTables = []string{"tool.poetry", "project"}

type pyproject struct {
	Tool struct {
		Poetry struct {
			Version      string         `toml:"version"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

type fileMetadataRepository struct {
	fs           FileSystemRepository
	versionFile  string
	manifestFile string
}

// NewMetadataRepository creates a MetadataRepository over the version file and the
// pyproject manifest. Either path may be empty to disable that location.
func NewMetadataRepository(fs FileSystemRepository, versionFile, manifestFile string) MetadataRepository {
	return &fileMetadataRepository{fs: fs, versionFile: versionFile, manifestFile: manifestFile}
}

// ReadVersion returns the version stored in the version file, falling back to the manifest.
func (r *fileMetadataRepository) ReadVersion(_ context.Context) (string, error) {
	if r.versionFile != "" {
		data, err := afero.ReadFile(r.fs, r.versionFile)
		switch {
		case err == nil:
			if m := versionAssignRegex.FindSubmatch(data); m != nil {
				return string(m[1]), nil
			}
			return "", fmt.Errorf("no __version__ assignment in %s: %w", r.versionFile, domain.ErrNotFound)
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("failed to read %s: %w", r.versionFile, err)
		}
	}
	doc, err := r.readManifest()
	if err != nil {
		return "", err
	}
	if doc != nil {
		if doc.Tool.Poetry.Version != "" {
			return doc.Tool.Poetry.Version, nil
		}
		if doc.Project.Version != "" {
			return doc.Project.Version, nil
		}
	}
	return "", fmt.Errorf("project version: %w", domain.ErrNotFound)
}

// WriteVersion rewrites the version file and every version key of the manifest.
func (r *fileMetadataRepository) WriteVersion(_ context.Context, version string) ([]string, error) {
	var written []string
	if r.manifestFile != "" {
		ok, err := r.writeManifestVersion(version)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, r.manifestFile)
		}
	}
	if r.versionFile != "" {
		content := versionFileHeader + fmt.Sprintf("__version__ = \"%s\"\n", version)
		if err := afero.WriteFile(r.fs, r.versionFile, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", r.versionFile, err)
		}
		written = append(written, r.versionFile)
	}
	return written, nil
}

// ReadDependencyVersion looks the dependency up in tool.poetry.dependencies, then in project.dependencies.
func (r *fileMetadataRepository) ReadDependencyVersion(_ context.Context, name string) (string, error) {
	doc, err := r.readManifest()
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("%s: %w", r.manifestFile, domain.ErrNotFound)
	}
	if raw, ok := doc.Tool.Poetry.Dependencies[name]; ok {
		switch dep := raw.(type) {
		case string:
			return stripConstraint(lowerBound(dep)), nil
		case map[string]any:
			if v, ok := dep["version"].(string); ok {
				return stripConstraint(lowerBound(v)), nil
			}
		}
		return "", fmt.Errorf("dependency %s has no version: %w", name, domain.ErrNotFound)
	}
	for _, spec := range doc.Project.Dependencies {
		m := pep508Regex.FindStringSubmatch(spec)
		if m == nil || !strings.EqualFold(normalizeName(m[1]), normalizeName(name)) {
			continue
		}
		constraint := lowerBound(strings.SplitN(m[2], ";", 2)[0])
		if constraint == "" {
			break
		}
		return stripConstraint(constraint), nil
	}
	return "", fmt.Errorf("dependency %s: %w", name, domain.ErrNotFound)
}

// readManifest returns nil when no manifest is configured or the file does not exist.
func (r *fileMetadataRepository) readManifest() (*pyproject, error) {
	if r.manifestFile == "" {
		return nil, nil
	}
	data, err := afero.ReadFile(r.fs, r.manifestFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.manifestFile, err)
	}
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.manifestFile, err)
	}
	return &doc, nil
}

// writeManifestVersion edits the version lines in place so comments and ordering survive,
// then re-parses the result to make sure the document is still valid.
func (r *fileMetadataRepository) writeManifestVersion(version string) (bool, error) {
	doc, err := r.readManifest()
	if err != nil || doc == nil {
		return false, err
	}
	if doc.Tool.Poetry.Version == "" && doc.Project.Version == "" {
		return false, nil
	}
	data, err := afero.ReadFile(r.fs, r.manifestFile)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", r.manifestFile, err)
	}
	lines := strings.Split(string(data), "\n")
	table := ""
	for i, line := range lines {
		if m := tableHeaderRegex.FindStringSubmatch(line); m != nil {
			table = strings.TrimSpace(m[1])
			continue
		}
		if !isManifestTable(table) {
			continue
		}
		if m := versionKeyRegex.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + m[2] + version + m[3] + m[4]
		}
	}
	out := strings.Join(lines, "\n")
	var check pyproject
	if err := toml.Unmarshal([]byte(out), &check); err != nil {
		return false, fmt.Errorf("failed to update %s: %w", r.manifestFile, err)
	}
	if doc.Tool.Poetry.Version != "" && check.Tool.Poetry.Version != version ||
		doc.Project.Version != "" && check.Project.Version != version {
		return false, fmt.Errorf("failed to update version in %s", r.manifestFile)
	}
	if err := afero.WriteFile(r.fs, r.manifestFile, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", r.manifestFile, err)
	}
	return true, nil
}

func isManifestTable(table string) bool {
	for _, t := range manifestTables {
		if table == t {
			return true
		}
	}
	return false
}

// lowerBound keeps the first clause of a comma separated constraint.
func lowerBound(constraint string) string {
	return strings.TrimSpace(strings.SplitN(constraint, ",", 2)[0])
}

// stripConstraint drops a leading operator such as ^, ~, >=, == or ~=.
func stripConstraint(v string) string {
	return strings.TrimLeft(strings.TrimSpace(v), "^~<>=!= ")
}

func normalizeName(name string) string {
	return strings.NewReplacer("_", "-", ".", "-").Replace(name)
}
