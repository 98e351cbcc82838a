package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/compozy/releaseprep/internal/domain"
)

// pep440Prerelease matches strings shaped like a release with a prerelease this tool does
// not produce (beta, dev, post, zero or zero-padded counters, several segments).
var pep440Prerelease = regexp.MustCompile(`^\d+\.\d+\.\d+((?:a|b|c|rc|dev|post)\d+)+$`)

// VersionResolver computes the next version from the current one and a bump directive.
type VersionResolver struct{}

// Resolve returns the next version. Prerelease bumps that cannot be derived from
// current alone fail with an AmbiguousBumpError carrying the candidates to choose from.
func (r *VersionResolver) Resolve(current domain.Version, directive domain.BumpDirective) (domain.Version, error) {
	switch directive.Kind {
	case domain.BumpMajor:
		return current.NextMajor(), nil
	case domain.BumpMinor:
		return current.NextMinor(), nil
	case domain.BumpPatch:
		return current.NextPatch(), nil
	case domain.BumpAlpha, domain.BumpRC:
		flavor, _ := directive.Flavor()
		return r.nextPrerelease(current, flavor)
	case domain.BumpExplicit:
		return ParseExplicitVersion(directive.Explicit)
	default:
		return domain.Version{}, fmt.Errorf("unknown bump directive %q", directive.Kind)
	}
}

// CandidatesForPrereleaseBump returns next-minor, next-patch and next-major, each moved into flavor.
func (r *VersionResolver) CandidatesForPrereleaseBump(current domain.Version, flavor domain.Flavor) []domain.Version {
	return []domain.Version{
		current.NextMinor().NextPrerelease(flavor),
		current.NextPatch().NextPrerelease(flavor),
		current.NextMajor().NextPrerelease(flavor),
	}
}

// nextPrerelease continues an existing prerelease. A final version has no obvious next
// prerelease, and moving from rc back to alpha would sort below current.
func (r *VersionResolver) nextPrerelease(current domain.Version, flavor domain.Flavor) (domain.Version, error) {
	pre, ok := current.Prerelease()
	if !ok || (pre.Flavor == domain.FlavorRC && flavor == domain.FlavorAlpha) {
		return domain.Version{}, &domain.AmbiguousBumpError{
			Current:    current,
			Flavor:     flavor,
			Candidates: r.CandidatesForPrereleaseBump(current, flavor),
		}
	}
	return current.NextPrerelease(flavor), nil
}

// ParseExplicitVersion validates a user supplied version. Strings that look like a
// prerelease of an unsupported shape are an InvalidVersionError, anything else that
// does not parse is a FormatError.
func ParseExplicitVersion(text string) (domain.Version, error) {
	v, err := domain.ParseVersion(text)
	if err == nil {
		return v, nil
	}
	if pep440Prerelease.MatchString(text) {
		return domain.Version{}, &domain.InvalidVersionError{
			Input:  text,
			Reason: "prerelease must be a single aN or rcN segment with N >= 1",
		}
	}
	return domain.Version{}, err
}

// ValidateDirective accepts a bump keyword or an explicit version.
func ValidateDirective(text string) error {
	if domain.IsBumpKeyword(text) {
		return nil
	}
	if _, err := ParseExplicitVersion(strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("version must be one of major, minor, patch, alpha, rc or a valid version: %w", err)
	}
	return nil
}
