package hooks

import (
	"os/exec"
	"strings"
)

// CheckCleanTree runs git status --porcelain in cwd.
// Returns a warning string if there are uncommitted changes, empty string
// otherwise. Integration proceeds either way; the warning is advisory.
func CheckCleanTree(cwd string) string {
	if cwd == "" {
		return ""
	}
	out, err := exec.Command("git", "-C", cwd, "status", "--porcelain").Output()
	if err != nil {
		return ""
	}
	if len(strings.TrimSpace(string(out))) > 0 {
		return "working tree has uncommitted changes"
	}
	return ""
}
