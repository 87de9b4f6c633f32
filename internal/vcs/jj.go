package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// JJ runs jj (and gh for pull requests) against a jj workspace. Branches map
// to bookmarks; worktrees map to workspaces.
type JJ struct {
	root string
}

// NewJJ creates a jj runner for the workspace at root.
func NewJJ(root string) *JJ {
	return &JJ{root: root}
}

func (j *JJ) jj(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "jj", args...)
	cmd.Dir = j.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("jj %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

func (j *JJ) gh(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = j.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gh %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// BranchExists reports whether a bookmark with the name exists.
func (j *JJ) BranchExists(ctx context.Context, name string) (bool, error) {
	out, err := j.jj(ctx, "bookmark", "list", "--all-remotes", "-T", `name ++ "\n"`)
	if err != nil {
		return false, err
	}
	return bookmarkListed(out, name), nil
}

// bookmarkListed reports whether name appears in bookmark-per-line output.
// Blank lines (the trailing newline included) never match.
func bookmarkListed(out, name string) bool {
	if name == "" {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

// CreateBranch creates a bookmark at base. Already-exists is success.
func (j *JJ) CreateBranch(ctx context.Context, name, base string) error {
	exists, err := j.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = j.jj(ctx, "bookmark", "create", name, "-r", base)
	return err
}

// DeleteBranch removes a bookmark. Missing is success.
func (j *JJ) DeleteBranch(ctx context.Context, name string) (bool, error) {
	exists, err := j.BranchExists(ctx, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if _, err := j.jj(ctx, "bookmark", "delete", name); err != nil {
		return false, err
	}
	return true, nil
}

// IsAncestor reports whether the bookmark's commit is reachable from base.
// The revset "branch & ::base" is non-empty exactly when it is.
func (j *JJ) IsAncestor(ctx context.Context, branch, base string) (bool, error) {
	out, err := j.jj(ctx, "log", "--no-graph", "-r", fmt.Sprintf("%s & ::%s", branch, base), "-T", "commit_id")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Checkout starts a new working-copy commit on top of the bookmark.
func (j *JJ) Checkout(ctx context.Context, branch string) error {
	_, err := j.jj(ctx, "new", branch)
	return err
}

// Push publishes the bookmark to the git remote.
func (j *JJ) Push(ctx context.Context, branch string) error {
	_, err := j.jj(ctx, "git", "push", "--bookmark", branch, "--allow-new")
	return err
}

// Pull fetches from the git remote; jj updates tracked bookmarks on fetch.
func (j *JJ) Pull(ctx context.Context, branch string) error {
	_, err := j.jj(ctx, "git", "fetch")
	return err
}

// RemoveWorktree forgets the workspace named after the bookmark, if present.
func (j *JJ) RemoveWorktree(ctx context.Context, branch string) (bool, error) {
	name := workspaceNameFor(branch)
	out, err := j.jj(ctx, "workspace", "list")
	if err != nil {
		return false, err
	}
	if !strings.Contains(out, name+":") {
		return false, nil
	}
	if _, err := j.jj(ctx, "workspace", "forget", name); err != nil {
		return false, err
	}
	return true, nil
}

// workspaceNameFor maps a bookmark name to the workspace naming convention
// (slashes are not valid in workspace names).
func workspaceNameFor(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// CreatePullRequest opens a PR via gh from the pushed bookmark.
func (j *JJ) CreatePullRequest(ctx context.Context, title, body, head, base string) (string, error) {
	return j.gh(ctx, "pr", "create", "--title", title, "--body", body, "--head", head, "--base", base)
}

// MergePullRequest squash-merges a PR by number via gh.
func (j *JJ) MergePullRequest(ctx context.Context, number int) error {
	_, err := j.gh(ctx, "pr", "merge", strconv.Itoa(number), "--squash")
	return err
}

// DefaultBranch resolves the bookmark on trunk(), falling back to main/master.
func (j *JJ) DefaultBranch(ctx context.Context) (string, error) {
	if out, err := j.jj(ctx, "log", "--no-graph", "-r", "trunk()", "-T", `bookmarks.join(" ")`); err == nil {
		if name := firstBookmark(out); name != "" {
			return name, nil
		}
	}
	for _, name := range []string{"main", "master"} {
		exists, err := j.BranchExists(ctx, name)
		if err != nil {
			return "", err
		}
		if exists {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot resolve default branch: no trunk bookmark and no main or master")
}

// firstBookmark picks the first bookmark from a space-joined list, dropping
// any remote or conflict suffix ("main@origin", "main*").
func firstBookmark(out string) string {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	name = strings.TrimSuffix(name, "*")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name
}
