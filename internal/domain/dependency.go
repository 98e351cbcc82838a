package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseDependencyVersion reads a declared dependency version. Canonical strings parse
// exactly; looser forms such as "2.4", "v2.4.1" or "2.4.0-rc.1" are coerced to
// major.minor.patch since only the release line matters for the compatibility check.
func ParseDependencyVersion(text string) (Version, error) {
	text = strings.TrimSpace(text)
	if v, err := ParseVersion(text); err == nil {
		return v, nil
	}
	sv, err := semver.NewVersion(text)
	if err != nil {
		return Version{}, &FormatError{Input: text}
	}
	return NewVersion(int(sv.Major()), int(sv.Minor()), int(sv.Patch())), nil
}
