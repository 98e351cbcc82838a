package domain

import "strings"

// BumpKind identifies how the next version is derived.
type BumpKind string

const (
	BumpMajor    BumpKind = "major"
	BumpMinor    BumpKind = "minor"
	BumpPatch    BumpKind = "patch"
	BumpAlpha    BumpKind = "alpha"
	BumpRC       BumpKind = "rc"
	BumpExplicit BumpKind = "explicit"
)

// BumpKeywords are the directive names accepted besides an explicit version.
var BumpKeywords = []BumpKind{BumpMajor, BumpMinor, BumpPatch, BumpAlpha, BumpRC}

// BumpDirective is the user's request for the next version.
type BumpDirective struct {
	Kind     BumpKind
	Explicit string // set only when Kind is BumpExplicit
}

// ParseBumpDirective maps free text onto a directive. Anything that is not a
// keyword is treated as an explicit version and validated later.
func ParseBumpDirective(text string) BumpDirective {
	text = strings.TrimSpace(text)
	for _, kw := range BumpKeywords {
		if text == string(kw) {
			return BumpDirective{Kind: kw}
		}
	}
	return BumpDirective{Kind: BumpExplicit, Explicit: text}
}

// IsBumpKeyword reports whether text names a keyword directive.
func IsBumpKeyword(text string) bool {
	return ParseBumpDirective(text).Kind != BumpExplicit
}

// Flavor returns the prerelease flavor requested by an alpha/rc directive.
func (d BumpDirective) Flavor() (Flavor, bool) {
	switch d.Kind {
	case BumpAlpha:
		return FlavorAlpha, true
	case BumpRC:
		return FlavorRC, true
	default:
		return "", false
	}
}

func (d BumpDirective) String() string {
	if d.Kind == BumpExplicit {
		return d.Explicit
	}
	return string(d.Kind)
}
