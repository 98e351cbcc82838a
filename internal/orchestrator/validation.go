package orchestrator

import (
	"fmt"
	"strings"
)

// ValidateBranchName applies the rules of git check-ref-format to a branch name.
func ValidateBranchName(branch string) error {
	switch {
	case branch == "":
		return fmt.Errorf("branch name cannot be empty")
	case len(branch) > 255:
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	case branch == "@":
		return fmt.Errorf("branch name cannot be @")
	case strings.HasPrefix(branch, "-"):
		return fmt.Errorf("branch name cannot start with a dash: %s", branch)
	case strings.HasSuffix(branch, "."):
		return fmt.Errorf("branch name cannot end with a dot: %s", branch)
	case strings.Contains(branch, ".."), strings.Contains(branch, "@{"):
		return fmt.Errorf("branch name contains a forbidden sequence: %s", branch)
	case strings.ContainsAny(branch, " ~^:?*[\\"):
		return fmt.Errorf("branch name contains a forbidden character: %s", branch)
	}
	for _, r := range branch {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("branch name contains a control character: %q", branch)
		}
	}
	for _, part := range strings.Split(branch, "/") {
		if part == "" {
			return fmt.Errorf("branch name has an empty path component: %s", branch)
		}
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") {
			return fmt.Errorf("invalid path component %q in branch name %s", part, branch)
		}
	}
	return nil
}
