package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat             = errors.New("invalid version format")
	ErrInvalidVersion     = errors.New("invalid version")
	ErrDirtyTree          = errors.New("working tree is not clean")
	ErrDependencyMismatch = errors.New("paired dependency version mismatch")
	ErrUserDeclined       = errors.New("aborted by user")
	ErrAmbiguousBump      = errors.New("ambiguous prerelease bump")
	ErrNotFound           = errors.New("not found")
	ErrNonInteractive     = errors.New("input required but prompting is disabled")
)

// FormatError is returned when a version string does not parse.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version number '%s': expected X.Y.Z, X.Y.ZaN or X.Y.ZrcN", e.Input)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// InvalidVersionError is returned when a version parses but its prerelease shape is not allowed.
type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	if e.Input == "" {
		return "invalid version: " + e.Reason
	}
	return fmt.Sprintf("invalid version '%s': %s", e.Input, e.Reason)
}

func (e *InvalidVersionError) Is(target error) bool { return target == ErrInvalidVersion }

// DirtyTreeError is returned when the working tree has uncommitted changes.
type DirtyTreeError struct {
	Files []string
}

func (e *DirtyTreeError) Error() string {
	msg := "your git is not clean: the release can only be prepared from a clean working tree"
	if len(e.Files) > 0 {
		msg += " (changed: " + strings.Join(e.Files, ", ") + ")"
	}
	return msg
}

func (e *DirtyTreeError) Is(target error) bool { return target == ErrDirtyTree }

// DependencyMismatchError is returned when the paired dependency tracks another release line.
type DependencyMismatchError struct {
	Dependency        string
	DependencyVersion Version
	Target            Version
}

func (e *DependencyMismatchError) Error() string {
	return fmt.Sprintf(
		"there is a mismatch between the %s version (%s) and the version you want to release (%s); "+
			"release %s %d.%d first and update the dependency",
		e.Dependency, e.DependencyVersion, e.Target, e.Dependency, e.Target.Major(), e.Target.Minor(),
	)
}

func (e *DependencyMismatchError) Is(target error) bool { return target == ErrDependencyMismatch }

// UserDeclinedError is returned when a confirmation is declined or a prompt is left empty.
type UserDeclinedError struct {
	Question string
}

func (e *UserDeclinedError) Error() string {
	if e.Question == "" {
		return ErrUserDeclined.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUserDeclined, e.Question)
}

func (e *UserDeclinedError) Is(target error) bool { return target == ErrUserDeclined }

// AmbiguousBumpError is returned when a prerelease bump needs an explicit base version.
// Candidates are ordered next-minor, next-patch, next-major.
type AmbiguousBumpError struct {
	Current    Version
	Flavor     Flavor
	Candidates []Version
}

func (e *AmbiguousBumpError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	return fmt.Sprintf("cannot pick the next %s for %s automatically; pass one of %s explicitly",
		e.Flavor, e.Current, strings.Join(names, ", "))
}

func (e *AmbiguousBumpError) Is(target error) bool { return target == ErrAmbiguousBump }
