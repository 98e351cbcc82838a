package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Flavor is the kind of a prerelease, ordered alpha < rc.
type Flavor string

const (
	FlavorAlpha Flavor = "alpha"
	FlavorRC    Flavor = "rc"
)

var flavorCodes = map[Flavor]string{
	FlavorAlpha: "a",
	FlavorRC:    "rc",
}

// versionRegex accepts X.Y.Z with an optional aN / rcN suffix, no leading zeros.
var versionRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:(a|rc)([1-9]\d*))?$`)

// Code returns the short tag used in the canonical version string.
func (f Flavor) Code() string {
	return flavorCodes[f]
}

// Valid reports whether f is a supported flavor.
func (f Flavor) Valid() bool {
	_, ok := flavorCodes[f]
	return ok
}

func (f Flavor) rank() int {
	if f == FlavorRC {
		return 1
	}
	return 0
}

func flavorFromCode(code string) Flavor {
	for flavor, c := range flavorCodes {
		if c == code {
			return flavor
		}
	}
	return ""
}

// Prerelease is the optional alpha/rc part of a version. Counter is always >= 1.
type Prerelease struct {
	Flavor  Flavor
	Counter int
}

// Version is an immutable release version: major.minor.patch plus an optional prerelease.
type Version struct {
	major  int
	minor  int
	patch  int
	pre    Prerelease
	hasPre bool
}

// NewVersion creates a final release version.
func NewVersion(major, minor, patch int) Version {
	return Version{major: major, minor: minor, patch: patch}
}

// NewPrereleaseVersion creates a prerelease version, rejecting unknown flavors and counters below 1.
func NewPrereleaseVersion(major, minor, patch int, flavor Flavor, counter int) (Version, error) {
	if !flavor.Valid() {
		return Version{}, &InvalidVersionError{Reason: fmt.Sprintf("unknown prerelease flavor %q", flavor)}
	}
	if counter < 1 {
		return Version{}, &InvalidVersionError{Reason: fmt.Sprintf("prerelease counter must be >= 1, got %d", counter)}
	}
	v := NewVersion(major, minor, patch)
	v.pre = Prerelease{Flavor: flavor, Counter: counter}
	v.hasPre = true
	return v, nil
}

// ParseVersion parses the canonical form X.Y.Z, X.Y.ZaN or X.Y.ZrcN.
func ParseVersion(text string) (Version, error) {
	m := versionRegex.FindStringSubmatch(text)
	if m == nil {
		return Version{}, &FormatError{Input: text}
	}
	nums := make([]int, 3)
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &FormatError{Input: text}
		}
		nums[i] = n
	}
	if m[4] == "" {
		return NewVersion(nums[0], nums[1], nums[2]), nil
	}
	counter, err := strconv.Atoi(m[5])
	if err != nil {
		return Version{}, &FormatError{Input: text}
	}
	return NewPrereleaseVersion(nums[0], nums[1], nums[2], flavorFromCode(m[4]), counter)
}

// IsValidVersion reports whether text is a canonical version string.
func IsValidVersion(text string) bool {
	return versionRegex.MatchString(text)
}

func (v Version) Major() int { return v.major }
func (v Version) Minor() int { return v.minor }
func (v Version) Patch() int { return v.patch }

// Prerelease returns the prerelease part and whether one is present.
func (v Version) Prerelease() (Prerelease, bool) {
	return v.pre, v.hasPre
}

// IsPrerelease reports whether v carries an alpha or rc tag.
func (v Version) IsPrerelease() bool {
	return v.hasPre
}

// IsAlpha reports whether v is an alpha prerelease.
func (v Version) IsAlpha() bool {
	return v.hasPre && v.pre.Flavor == FlavorAlpha
}

// String returns the canonical form, e.g. 2.4.1 or 2.4.1rc3.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if !v.hasPre {
		return base
	}
	return base + v.pre.Flavor.Code() + strconv.Itoa(v.pre.Counter)
}

// Compare returns -1, 0 or 1. A final release sorts after every prerelease of the
// same major.minor.patch; within prereleases alpha < rc, then by counter.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.major, other.major); c != 0 {
		return c
	}
	if c := compareInt(v.minor, other.minor); c != 0 {
		return c
	}
	if c := compareInt(v.patch, other.patch); c != 0 {
		return c
	}
	switch {
	case !v.hasPre && !other.hasPre:
		return 0
	case !v.hasPre:
		return 1
	case !other.hasPre:
		return -1
	}
	if c := compareInt(v.pre.Flavor.rank(), other.pre.Flavor.rank()); c != 0 {
		return c
	}
	return compareInt(v.pre.Counter, other.pre.Counter)
}

// Equal reports whether both versions are identical.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// NextMajor increments the major version.
func (v Version) NextMajor() Version {
	return NewVersion(v.major+1, 0, 0)
}

// NextMinor increments the minor version.
func (v Version) NextMinor() Version {
	return NewVersion(v.major, v.minor+1, 0)
}

// NextPatch increments the patch version.
func (v Version) NextPatch() Version {
	return NewVersion(v.major, v.minor, v.patch+1)
}

// NextPrerelease moves v to the given flavor. The counter starts at 1 on a final
// version and otherwise continues from the existing counter, even across flavors.
func (v Version) NextPrerelease(flavor Flavor) Version {
	counter := 1
	if v.hasPre {
		counter = v.pre.Counter + 1
	}
	next := NewVersion(v.major, v.minor, v.patch)
	next.pre = Prerelease{Flavor: flavor, Counter: counter}
	next.hasPre = true
	return next
}

// Base returns v without its prerelease part.
func (v Version) Base() Version {
	return NewVersion(v.major, v.minor, v.patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
