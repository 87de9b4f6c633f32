package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// ValidationResult is the outcome of running every detected validation
// command in a repo.
type ValidationResult struct {
	Passed bool     `json:"passed"`
	Errors []string `json:"errors,omitempty"`
	Ran    []string `json:"ran,omitempty"`
}

// Validator detects and runs a project's validation commands.
type Validator struct {
	timeout time.Duration
}

// NewValidator creates a validator. A zero timeout uses DefaultTimeout per
// command.
func NewValidator(timeout time.Duration) *Validator {
	return &Validator{timeout: timeout}
}

// Run executes every validation command detected at repoRoot. A repo with no
// detected commands passes: absence of a runnable check is a deliberate
// no-op, not a failure. Any detected command that exits non-zero contributes
// one error string.
func (v *Validator) Run(ctx context.Context, repoRoot string) ValidationResult {
	commands := DetectCommands(repoRoot)
	result := ValidationResult{Passed: true}

	for _, command := range commands {
		result.Ran = append(result.Ran, command)
		r := Execute(ctx, command, v.timeout, repoRoot, nil)
		if r.Err != nil {
			result.Passed = false
			msg := fmt.Sprintf("%s failed: %v", command, r.Err)
			if r.Output != "" {
				msg = fmt.Sprintf("%s failed: %s", command, lastLines(r.Output, 5))
			}
			result.Errors = append(result.Errors, msg)
		}
	}
	return result
}

var makeTargetPattern = regexp.MustCompile(`(?m)^(test|check):`)

// DetectCommands inspects repoRoot for known project kinds and returns the
// validation commands to run, in detection order. At most one command per
// project kind.
func DetectCommands(repoRoot string) []string {
	var commands []string

	if data, err := os.ReadFile(filepath.Join(repoRoot, "Makefile")); err == nil {
		if m := makeTargetPattern.FindSubmatch(data); m != nil {
			commands = append(commands, "make "+string(m[1]))
		}
	}
	if hasFile(repoRoot, "go.mod") {
		commands = append(commands, "go test ./...")
	}
	if hasFile(repoRoot, "Cargo.toml") {
		commands = append(commands, "cargo test")
	}
	if script := npmTestScript(repoRoot); script {
		commands = append(commands, "npm test --silent")
	}
	return commands
}

func hasFile(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && !info.IsDir()
}

// npmTestScript reports whether package.json declares a test script. npm's
// default placeholder script exits non-zero, so only an explicit script
// counts.
func npmTestScript(root string) bool {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return false
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	script, ok := pkg.Scripts["test"]
	if !ok {
		return false
	}
	return script != "" && script != `echo "Error: no test specified" && exit 1`
}

// lastLines returns the last n lines of s.
func lastLines(s string, n int) string {
	lines := splitLines(s)
	if len(lines) <= n {
		return s
	}
	out := ""
	for _, line := range lines[len(lines)-n:] {
		if out != "" {
			out += "\n"
		}
		out += line
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
