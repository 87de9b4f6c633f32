package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Git runs git (and gh for pull requests) against a local clone.
type Git struct {
	root string
}

// NewGit creates a git runner for the repo at root.
func NewGit(root string) *Git {
	return &Git{root: root}
}

func (g *Git) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Git) gh(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gh %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// BranchExists checks refs/heads for the branch.
func (g *Git) BranchExists(ctx context.Context, name string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	cmd.Dir = g.root
	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return false, nil
		}
		return false, fmt.Errorf("git show-ref: %w", err)
	}
	return true, nil
}

// CreateBranch creates name at base. Already-exists is success.
func (g *Git) CreateBranch(ctx context.Context, name, base string) error {
	exists, err := g.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = g.git(ctx, "branch", name, base)
	return err
}

// DeleteBranch force-deletes name. Missing is success.
func (g *Git) DeleteBranch(ctx context.Context, name string) (bool, error) {
	exists, err := g.BranchExists(ctx, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if _, err := g.git(ctx, "branch", "-D", name); err != nil {
		return false, err
	}
	return true, nil
}

// IsAncestor reports whether branch is merged into base.
func (g *Git) IsAncestor(ctx context.Context, branch, base string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "merge-base", "--is-ancestor", branch, base)
	cmd.Dir = g.root
	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return false, nil
		}
		return false, fmt.Errorf("git merge-base: %w", err)
	}
	return true, nil
}

// Checkout switches the working tree to branch.
func (g *Git) Checkout(ctx context.Context, branch string) error {
	_, err := g.git(ctx, "checkout", branch)
	return err
}

// Push publishes branch to origin.
func (g *Git) Push(ctx context.Context, branch string) error {
	_, err := g.git(ctx, "push", "-u", "origin", branch)
	return err
}

// Pull fast-forwards branch from origin.
func (g *Git) Pull(ctx context.Context, branch string) error {
	_, err := g.git(ctx, "pull", "--ff-only", "origin", branch)
	return err
}

// RemoveWorktree prunes the worktree registered for branch, if any.
func (g *Git) RemoveWorktree(ctx context.Context, branch string) (bool, error) {
	out, err := g.git(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return false, err
	}
	path := worktreePathFor(out, branch)
	if path == "" {
		return false, nil
	}
	if _, err := g.git(ctx, "worktree", "remove", "--force", path); err != nil {
		return false, err
	}
	return true, nil
}

// worktreePathFor finds the worktree path checked out on branch in
// `git worktree list --porcelain` output.
func worktreePathFor(porcelain, branch string) string {
	var path string
	for _, line := range strings.Split(porcelain, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			path = strings.TrimPrefix(line, "worktree ")
		case line == "branch refs/heads/"+branch:
			return path
		}
	}
	return ""
}

// CreatePullRequest opens a PR via gh and returns its URL.
func (g *Git) CreatePullRequest(ctx context.Context, title, body, head, base string) (string, error) {
	return g.gh(ctx, "pr", "create", "--title", title, "--body", body, "--head", head, "--base", base)
}

// MergePullRequest squash-merges a PR by number via gh.
func (g *Git) MergePullRequest(ctx context.Context, number int) error {
	_, err := g.gh(ctx, "pr", "merge", strconv.Itoa(number), "--squash")
	return err
}

// DefaultBranch resolves origin's HEAD symbol, falling back to main/master.
func (g *Git) DefaultBranch(ctx context.Context) (string, error) {
	if out, err := g.git(ctx, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		if name := parseHeadSymbol(out); name != "" {
			return name, nil
		}
	}
	for _, name := range []string{"main", "master"} {
		exists, err := g.BranchExists(ctx, name)
		if err != nil {
			return "", err
		}
		if exists {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot resolve default branch: origin/HEAD unset and no main or master branch")
}

// parseHeadSymbol extracts the branch name from a symbolic-ref line like
// "refs/remotes/origin/main".
func parseHeadSymbol(ref string) string {
	const prefix = "refs/remotes/origin/"
	if !strings.HasPrefix(ref, prefix) {
		return ""
	}
	return strings.TrimPrefix(ref, prefix)
}
