// Package integrate executes the strategy-specific completion protocol for
// an intent once every unit is done: merge verification, validation hooks,
// cleanup, pull-request creation, and completion marking.
package integrate

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/dlc/internal/dag"
	"github.com/alfredjeanlab/dlc/internal/hooks"
	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/store"
	"github.com/alfredjeanlab/dlc/internal/strategy"
	"github.com/alfredjeanlab/dlc/internal/vcs"
)

// Validator is the validation-hook collaborator. A repo with no detected
// commands passes.
type Validator interface {
	Run(ctx context.Context, repoRoot string) hooks.ValidationResult
}

// Integrator drives one intent through its completion protocol. Every run is
// synchronous; idempotent retries, not locks, handle concurrent invocations.
type Integrator struct {
	store     store.Store
	runner    vcs.Runner
	validator Validator
	repoRoot  string
	now       func() time.Time
}

// New creates an integrator over the given collaborators.
func New(s store.Store, r vcs.Runner, v Validator, repoRoot string) *Integrator {
	return &Integrator{
		store:     s,
		runner:    r,
		validator: v,
		repoRoot:  repoRoot,
		now:       time.Now,
	}
}

func blocked(strat model.Strategy, errs ...string) *model.IntegrationResult {
	return &model.IntegrationResult{
		Status:   model.IntegrationBlocked,
		Strategy: strat,
		Errors:   errs,
	}
}

// Run executes the strategy protocol for an intent. Policy outcomes
// (blocked preconditions, failed verification, failed hooks, failed external
// operations) come back inside the result; only storage faults surface as
// errors.
func (ig *Integrator) Run(ctx context.Context, intentID string, cfg model.VcsConfig) (*model.IntegrationResult, error) {
	strat := cfg.ChangeStrategy

	intent, err := ig.store.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("load intent %q: %w", intentID, err)
	}
	// Re-running after completion is a no-op success.
	if intent.Status == model.IntentCompleted {
		return &model.IntegrationResult{
			Status:   model.IntegrationCompleted,
			Strategy: strat,
			Message:  "intent already completed",
		}, nil
	}

	units, err := ig.store.LoadUnits(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("load units for %q: %w", intentID, err)
	}
	// isComplete is vacuously true for zero units, but an undecomposed
	// intent is not integrable.
	if len(units) == 0 {
		return blocked(strat, "intent has no units"), nil
	}
	if !dag.IsComplete(units) {
		return blocked(strat, "DAG is not complete"), nil
	}

	policy, ok := strategy.For(strat)
	if !ok {
		return blocked(strat, fmt.Sprintf("unknown strategy %q", strat)), nil
	}

	switch strat {
	case model.StrategyTrunk:
		return ig.integrateTrunk(ctx, intent, units, cfg, policy)
	case model.StrategyUnit, model.StrategyBolt:
		return ig.integrateMergedUnits(ctx, intent, units, cfg, policy)
	case model.StrategyIntent:
		return ig.integrateIntent(ctx, intent, units, cfg, policy)
	default:
		return blocked(strat, fmt.Sprintf("unknown strategy %q", strat)), nil
	}
}

// integrateTrunk verifies every unit branch is merged, runs validation hooks
// on the integrated base, then cleans up and marks the intent complete.
// Every failure path leaves all records untouched so a retry is safe.
func (ig *Integrator) integrateTrunk(ctx context.Context, intent *model.Intent, units []*model.Unit, cfg model.VcsConfig, policy strategy.Policy) (*model.IntegrationResult, error) {
	branches := unitBranches(intent.Slug, units, cfg, policy)

	unmerged, verr := ig.verifyMerged(ctx, branches, cfg.DefaultBranch)
	if verr != nil {
		return blocked(cfg.ChangeStrategy, verr.Error()), nil
	}
	if len(unmerged) > 0 {
		return blocked(cfg.ChangeStrategy, notMergedErrors(unmerged)...), nil
	}

	if v := ig.validator.Run(ctx, ig.repoRoot); !v.Passed {
		return blocked(cfg.ChangeStrategy, v.Errors...), nil
	}

	return ig.finish(ctx, intent.Slug, cfg.ChangeStrategy, branches)
}

// integrateMergedUnits covers the unit and bolt strategies: each unit's PR
// was merged during its own lifecycle, so this path only re-verifies the
// merges, then cleans up and marks complete. Validation hooks are skipped;
// each unit validated independently at merge time.
func (ig *Integrator) integrateMergedUnits(ctx context.Context, intent *model.Intent, units []*model.Unit, cfg model.VcsConfig, policy strategy.Policy) (*model.IntegrationResult, error) {
	branches := unitBranches(intent.Slug, units, cfg, policy)

	unmerged, verr := ig.verifyMerged(ctx, branches, cfg.DefaultBranch)
	if verr != nil {
		return blocked(cfg.ChangeStrategy, verr.Error()), nil
	}
	if len(unmerged) > 0 {
		return blocked(cfg.ChangeStrategy, notMergedErrors(unmerged)...), nil
	}

	return ig.finish(ctx, intent.Slug, cfg.ChangeStrategy, branches)
}

// integrateIntent checks out and pushes the intent-wide branch, then opens a
// pull request. The intent is not marked complete here; that happens in
// CompleteAfterApproval once the PR lands.
func (ig *Integrator) integrateIntent(ctx context.Context, intent *model.Intent, units []*model.Unit, cfg model.VcsConfig, policy strategy.Policy) (*model.IntegrationResult, error) {
	branch := policy.BranchName(strategy.Context{
		BranchRoot: cfg.BranchRoot,
		Intent:     intent.Slug,
	})

	if err := ig.runner.Checkout(ctx, branch); err != nil {
		return blocked(cfg.ChangeStrategy, fmt.Sprintf("checkout %s: %v", branch, err)), nil
	}
	if err := ig.runner.Push(ctx, branch); err != nil {
		return blocked(cfg.ChangeStrategy, fmt.Sprintf("push %s: %v", branch, err)), nil
	}

	title := fmt.Sprintf("%s (%s)", intent.Title, intent.Slug)
	url, err := ig.runner.CreatePullRequest(ctx, title, prBody(intent, units), branch, cfg.DefaultBranch)
	if err != nil {
		return blocked(cfg.ChangeStrategy, fmt.Sprintf("create pull request for %s: %v", branch, err)), nil
	}

	return &model.IntegrationResult{
		Status:   model.IntegrationPrCreated,
		Strategy: cfg.ChangeStrategy,
		Message:  fmt.Sprintf("pull request created for %s; complete after approval", branch),
		PrURL:    url,
	}, nil
}

// CompleteAfterApproval finishes an intent-strategy integration once its PR
// is approved: optionally merges the PR by number, then runs the same
// validation, cleanup, and completion sequence as trunk.
func (ig *Integrator) CompleteAfterApproval(ctx context.Context, intentID string, cfg model.VcsConfig, prNumber int) (*model.IntegrationResult, error) {
	strat := cfg.ChangeStrategy

	intent, err := ig.store.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("load intent %q: %w", intentID, err)
	}
	if intent.Status == model.IntentCompleted {
		return &model.IntegrationResult{
			Status:   model.IntegrationCompleted,
			Strategy: strat,
			Message:  "intent already completed",
		}, nil
	}

	units, err := ig.store.LoadUnits(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("load units for %q: %w", intentID, err)
	}

	if prNumber > 0 {
		if err := ig.runner.MergePullRequest(ctx, prNumber); err != nil {
			return blocked(strat, fmt.Sprintf("merge pull request #%d: %v", prNumber, err)), nil
		}
	}

	if v := ig.validator.Run(ctx, ig.repoRoot); !v.Passed {
		return blocked(strat, v.Errors...), nil
	}

	// Clean the intent-wide branch plus any branches materialized on units.
	branches := []string{fmt.Sprintf("%s/%s", cfg.BranchRoot, intent.Slug)}
	for _, u := range units {
		if u.Branch != "" {
			branches = append(branches, u.Branch)
		}
	}
	return ig.finish(ctx, intent.Slug, strat, branches)
}

// finish is the shared success tail: best-effort cleanup, then the
// idempotent completion mark.
func (ig *Integrator) finish(ctx context.Context, intentID string, strat model.Strategy, branches []string) (*model.IntegrationResult, error) {
	result := &model.IntegrationResult{
		Status:   model.IntegrationCompleted,
		Strategy: strat,
	}

	// Cleanup is best-effort and idempotent: already-missing branches and
	// worktrees count as success, and failures are reported without
	// blocking completion.
	var cleanupErrs []string
	for _, branch := range branches {
		removed, err := ig.runner.RemoveWorktree(ctx, branch)
		if err != nil {
			cleanupErrs = append(cleanupErrs, fmt.Sprintf("remove worktree for %s: %v", branch, err))
		} else if removed {
			result.WorktreesRemoved++
		}
		deleted, err := ig.runner.DeleteBranch(ctx, branch)
		if err != nil {
			cleanupErrs = append(cleanupErrs, fmt.Sprintf("delete branch %s: %v", branch, err))
		} else if deleted {
			result.BranchesDeleted++
		}
	}

	if err := ig.store.MarkIntentCompleted(ctx, intentID, ig.now().UTC()); err != nil {
		return nil, fmt.Errorf("mark intent %q completed: %w", intentID, err)
	}

	result.Message = "intent completed"
	if len(cleanupErrs) > 0 {
		result.Message = "intent completed; cleanup left work behind"
		result.Errors = cleanupErrs
	}
	return result, nil
}

// verifyMerged returns the subset of branches not yet merged into base.
func (ig *Integrator) verifyMerged(ctx context.Context, branches []string, base string) ([]string, error) {
	var unmerged []string
	for _, branch := range branches {
		merged, err := ig.runner.IsAncestor(ctx, branch, base)
		if err != nil {
			return nil, fmt.Errorf("verify merge of %s: %w", branch, err)
		}
		if !merged {
			unmerged = append(unmerged, branch)
		}
	}
	return unmerged, nil
}

// unitBranches resolves the branch name for each unit: the materialized name
// recorded on the unit wins, else the strategy-derived name.
func unitBranches(intentID string, units []*model.Unit, cfg model.VcsConfig, policy strategy.Policy) []string {
	branches := make([]string, 0, len(units))
	for _, u := range units {
		if u.Branch != "" {
			branches = append(branches, u.Branch)
			continue
		}
		branches = append(branches, policy.BranchName(strategy.Context{
			BranchRoot: cfg.BranchRoot,
			Intent:     intentID,
			Unit:       u.ID,
		}))
	}
	return branches
}

func notMergedErrors(unmerged []string) []string {
	errs := make([]string, len(unmerged))
	for i, branch := range unmerged {
		errs[i] = "Branch not merged: " + branch
	}
	return errs
}
