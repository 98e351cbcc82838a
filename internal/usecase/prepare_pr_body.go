package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/compozy/releaseprep/internal/domain"
)

// PreparePRBodyUseCase renders the description of the pull request opened for a release branch.
type PreparePRBodyUseCase struct {
}

// Title returns the pull request title for version.
func (uc *PreparePRBodyUseCase) Title(version domain.Version) string {
	return fmt.Sprintf("Prepare release %s", version)
}

// markdownUnescaper restores characters html.EscapeString encodes but markdown needs.
// Angle brackets stay escaped.
var markdownUnescaper = strings.NewReplacer("&#34;", `"`, "&#39;", "'", "&amp;", "&")

// sanitizeChangelog escapes HTML in the changelog while keeping it readable as markdown.
func (uc *PreparePRBodyUseCase) sanitizeChangelog(changelog string) string {
	lines := strings.Split(html.EscapeString(changelog), "\n")
	for i, line := range lines {
		line = markdownUnescaper.Replace(line)
		if rest, ok := strings.CutPrefix(line, "&gt; "); ok {
			line = "> " + rest
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// sanitizeText escapes a single-line value for template rendering.
func (uc *PreparePRBodyUseCase) sanitizeText(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}

// Execute runs the use case.
func (uc *PreparePRBodyUseCase) Execute(_ context.Context, release *domain.Release) (string, error) {
	if release == nil {
		return "", fmt.Errorf("release cannot be nil")
	}
	if release.BranchName == "" || release.BaseBranch == "" {
		return "", fmt.Errorf("release branch and base branch are required")
	}

	data := struct {
		Version    string
		Branch     string
		Base       string
		Prerelease bool
		Changelog  string
	}{
		Version:    uc.sanitizeText(release.Version.String()),
		Branch:     uc.sanitizeText(release.BranchName),
		Base:       uc.sanitizeText(release.BaseBranch),
		Prerelease: release.Version.IsPrerelease(),
		Changelog:  uc.sanitizeChangelog(strings.TrimSpace(release.Changelog)),
	}

	var buf bytes.Buffer
	if err := prBodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render PR body: %w", err)
	}
	output := buf.String()
	lower := strings.ToLower(output)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		return "", fmt.Errorf("potential injection detected in PR body output")
	}
	return output, nil
}

var prBodyTemplate = template.Must(template.New("pr-body").Option("missingkey=error").Parse(`## Release {{.Version}}

This PR prepares the release of version {{.Version}} from ` + "`{{.Branch}}`" + ` into ` + "`{{.Base}}`" + `.

### Changelog

{{if .Prerelease}}_No changelog section is generated for prereleases._
{{else if .Changelog}}{{.Changelog}}
{{else}}See the changelog file in this branch.
{{end}}
### Checklist

- [ ] version metadata updated
- [ ] changelog reviewed
`))
