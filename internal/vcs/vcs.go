// Package vcs wraps the version-control command surface the integrator
// consumes. Two backends exist: git (branch model) and jj (bookmark model).
// The core is agnostic to which is active.
package vcs

import (
	"context"
	"os"
	"path/filepath"
)

// Backend names a version-control implementation.
type Backend string

const (
	BackendGit Backend = "git"
	BackendJJ  Backend = "jj"
)

// Runner is the command surface the integrator and config loader consume.
// Implementations shell out; all parameters are passed as argv entries, never
// interpolated into a command string.
type Runner interface {
	// BranchExists reports whether the branch/bookmark exists locally.
	BranchExists(ctx context.Context, name string) (bool, error)

	// CreateBranch creates the branch/bookmark at base. Creation is
	// idempotent: an already-existing branch is success, because two
	// processes may race to create the same strategy-derived name.
	CreateBranch(ctx context.Context, name, base string) error

	// DeleteBranch removes the branch/bookmark and reports whether anything
	// was deleted. Best-effort: a missing branch counts as success.
	DeleteBranch(ctx context.Context, name string) (bool, error)

	// IsAncestor reports whether branch is an ancestor of base, i.e. its
	// work is already merged.
	IsAncestor(ctx context.Context, branch, base string) (bool, error)

	// Checkout makes branch the working-copy target.
	Checkout(ctx context.Context, branch string) error

	// Push publishes branch to the remote.
	Push(ctx context.Context, branch string) error

	// Pull brings branch up to date from the remote.
	Pull(ctx context.Context, branch string) error

	// RemoveWorktree removes the worktree associated with a branch, if one
	// exists, and reports whether anything was removed. Best-effort: no
	// worktree counts as success.
	RemoveWorktree(ctx context.Context, branch string) (bool, error)

	// CreatePullRequest opens a PR from head into base and returns its URL.
	CreatePullRequest(ctx context.Context, title, body, head, base string) (string, error)

	// MergePullRequest merges an existing PR by number.
	MergePullRequest(ctx context.Context, number int) error

	// DefaultBranch resolves the remote's HEAD symbol to a concrete branch
	// name, falling back to main/master when the symbol is unset.
	DefaultBranch(ctx context.Context) (string, error)
}

// Detect picks the backend for a repo root: a .jj directory wins over .git.
func Detect(root string) Backend {
	if info, err := os.Stat(filepath.Join(root, ".jj")); err == nil && info.IsDir() {
		return BackendJJ
	}
	return BackendGit
}

// New returns a Runner for the backend operating on the repo at root.
func New(backend Backend, root string) Runner {
	if backend == BackendJJ {
		return NewJJ(root)
	}
	return NewGit(root)
}
