// Package strategy defines the fixed policy table for the four change
// strategies: branch naming, PR timing, and auto-merge eligibility.
package strategy

import (
	"fmt"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// Context carries the inputs the policy functions evaluate. All fields are
// supplied by the caller; nothing here reads storage or version control.
type Context struct {
	BranchRoot string
	Intent     string
	Unit       string
	Bolt       string

	UnitComplete     bool
	BoltComplete     bool
	IntentComplete   bool
	ValidationPassed bool
}

// Policy is one strategy's behavior. The three functions are pure.
type Policy struct {
	Name model.Strategy

	branchName      func(Context) string
	shouldCreatePR  func(Context) bool
	shouldAutoMerge func(Context) bool
}

// BranchName returns the branch (or bookmark) name the strategy derives for
// the context.
func (p Policy) BranchName(c Context) string {
	return p.branchName(c)
}

// ShouldCreatePR reports whether the strategy creates a pull request in the
// given context.
func (p Policy) ShouldCreatePR(c Context) bool {
	return p.shouldCreatePR(c)
}

// ShouldAutoMerge reports the strategy's default auto-merge decision,
// ignoring any explicit config override. Use AutoMerge for the resolved
// decision.
func (p Policy) ShouldAutoMerge(c Context) bool {
	return p.shouldAutoMerge(c)
}

func unitBranch(c Context) string {
	return fmt.Sprintf("%s/%s/%s", c.BranchRoot, c.Intent, c.Unit)
}

var table = map[model.Strategy]Policy{
	model.StrategyTrunk: {
		Name:           model.StrategyTrunk,
		branchName:     unitBranch,
		shouldCreatePR: func(Context) bool { return false },
		shouldAutoMerge: func(c Context) bool {
			return c.ValidationPassed && c.UnitComplete
		},
	},
	model.StrategyBolt: {
		Name: model.StrategyBolt,
		branchName: func(c Context) string {
			if c.Bolt == "" {
				return unitBranch(c)
			}
			return fmt.Sprintf("%s/%s/%s/%s", c.BranchRoot, c.Intent, c.Unit, c.Bolt)
		},
		shouldCreatePR:  func(c Context) bool { return c.BoltComplete },
		shouldAutoMerge: func(Context) bool { return false },
	},
	model.StrategyUnit: {
		Name:            model.StrategyUnit,
		branchName:      unitBranch,
		shouldCreatePR:  func(c Context) bool { return c.UnitComplete },
		shouldAutoMerge: func(Context) bool { return false },
	},
	model.StrategyIntent: {
		Name: model.StrategyIntent,
		branchName: func(c Context) string {
			return fmt.Sprintf("%s/%s", c.BranchRoot, c.Intent)
		},
		shouldCreatePR:  func(c Context) bool { return c.IntentComplete },
		shouldAutoMerge: func(Context) bool { return false },
	},
}

// For looks up the policy for a strategy. Unknown strategies report false;
// callers must treat that as an error, never fall back to a default.
func For(s model.Strategy) (Policy, bool) {
	p, ok := table[s]
	return p, ok
}

// AutoMerge resolves the auto-merge decision for a context. An explicit
// override in the config always wins over the strategy default: true
// auto-merges iff validation passed, false never auto-merges.
func AutoMerge(p Policy, cfg model.VcsConfig, c Context) bool {
	if cfg.AutoMerge != nil {
		return *cfg.AutoMerge && c.ValidationPassed
	}
	return p.shouldAutoMerge(c)
}
