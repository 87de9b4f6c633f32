// Package config loads repo settings and resolves the per-intent VCS policy.
// Resolution merges three tiers with intent frontmatter taking precedence
// over repo settings, which take precedence over built-in defaults. Nothing
// here reads process environment; all inputs arrive as explicit values.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/vcs"
)

// SettingsFile is the repo settings path relative to the repo root.
const SettingsFile = ".dlc/settings.toml"

// Built-in defaults, the lowest precedence tier.
const (
	DefaultStrategy   = model.StrategyUnit
	DefaultBranchAuto = "auto"
	DefaultBranchRoot = "dlc"
	DefaultWorkflow   = "standard"
)

// DefaultHats is the built-in phase list for the standard workflow.
var DefaultHats = []string{"elaborator", "planner", "builder", "reviewer"}

// Settings mirrors .dlc/settings.toml.
type Settings struct {
	Vcs       VcsSettings         `toml:"vcs"`
	Events    EventsSettings      `toml:"events"`
	Sync      SyncSettings        `toml:"sync"`
	Workflows map[string][]string `toml:"workflows"`
}

// VcsSettings is the repo-level tier of the VCS policy. Pointer fields
// distinguish "unset" from an explicit value.
type VcsSettings struct {
	ChangeStrategy    string `toml:"change_strategy"`
	DefaultBranch     string `toml:"default_branch"`
	BranchRoot        string `toml:"branch_root"`
	Backend           string `toml:"backend"`
	AutoMerge         *bool  `toml:"auto_merge"`
	AutoSquash        *bool  `toml:"auto_squash"`
	ElaborationReview *bool  `toml:"elaboration_review"`
}

// EventsSettings configures the optional event bus.
type EventsSettings struct {
	NATSURL string `toml:"nats_url"`
}

// SyncSettings configures record export destinations.
type SyncSettings struct {
	GitRepo    string `toml:"git_repo"`
	GitFile    string `toml:"git_file"`
	GitBranch  string `toml:"git_branch"`
	S3Bucket   string `toml:"s3_bucket"`
	S3Key      string `toml:"s3_key"`
	S3Region   string `toml:"s3_region"`
	S3Endpoint string `toml:"s3_endpoint"`
	Interval   string `toml:"interval"`
}

// SyncInterval parses the sync interval, defaulting to 3 minutes.
func (s SyncSettings) SyncInterval() (time.Duration, error) {
	if s.Interval == "" {
		return 3 * time.Minute, nil
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("sync interval: %w", err)
	}
	return d, nil
}

// LoadSettings reads the repo settings file. A missing file yields zero
// Settings: every value then comes from the defaults tier.
func LoadSettings(repoRoot string) (Settings, error) {
	var s Settings
	path := filepath.Join(repoRoot, filepath.FromSlash(SettingsFile))
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// Hats returns the phase list for a workflow name, falling back to the
// built-in standard workflow.
func (s Settings) Hats(workflow string) []string {
	if workflow == "" {
		workflow = DefaultWorkflow
	}
	if hats, ok := s.Workflows[workflow]; ok && len(hats) > 0 {
		return hats
	}
	return DefaultHats
}

// IntentOverrides is the highest precedence tier: values parsed from the
// intent's frontmatter by the parsing boundary. Zero/nil fields are unset.
type IntentOverrides struct {
	ChangeStrategy    string
	DefaultBranch     string
	BranchRoot        string
	AutoMerge         *bool
	AutoSquash        *bool
	ElaborationReview *bool
}

// OverridesFromIntent lifts the overrides stored on an intent record into
// the resolver's input form. A nil intent or nil override block is fully
// unset.
func OverridesFromIntent(intent *model.Intent) IntentOverrides {
	if intent == nil || intent.Vcs == nil {
		return IntentOverrides{}
	}
	v := intent.Vcs
	return IntentOverrides{
		ChangeStrategy:    v.ChangeStrategy,
		DefaultBranch:     v.DefaultBranch,
		BranchRoot:        v.BranchRoot,
		AutoMerge:         v.AutoMerge,
		AutoSquash:        v.AutoSquash,
		ElaborationReview: v.ElaborationReview,
	}
}

// Resolver produces resolved per-intent VCS policies.
type Resolver struct {
	settings Settings
	runner   vcs.Runner
}

// NewResolver creates a resolver over the given settings. The runner is used
// only to resolve the "auto" default branch.
func NewResolver(settings Settings, runner vcs.Runner) *Resolver {
	return &Resolver{settings: settings, runner: runner}
}

// Resolve merges the three tiers into a concrete VcsConfig. The literal
// "auto" never survives: it is resolved against the remote's HEAD symbol
// (falling back to main/master inside the runner) before the config is
// returned.
func (r *Resolver) Resolve(ctx context.Context, overrides IntentOverrides) (model.VcsConfig, error) {
	cfg := model.VcsConfig{
		ChangeStrategy: DefaultStrategy,
		DefaultBranch:  DefaultBranchAuto,
		BranchRoot:     DefaultBranchRoot,
	}

	applyTier := func(strategy, branch, root string, autoMerge, autoSquash, review *bool) {
		if strategy != "" {
			cfg.ChangeStrategy = model.Strategy(strategy)
		}
		if branch != "" {
			cfg.DefaultBranch = branch
		}
		if root != "" {
			cfg.BranchRoot = root
		}
		if autoMerge != nil {
			cfg.AutoMerge = autoMerge
		}
		if autoSquash != nil {
			cfg.AutoSquash = autoSquash
		}
		if review != nil {
			cfg.ElaborationReview = *review
		}
	}

	s := r.settings.Vcs
	applyTier(s.ChangeStrategy, s.DefaultBranch, s.BranchRoot, s.AutoMerge, s.AutoSquash, s.ElaborationReview)
	o := overrides
	applyTier(o.ChangeStrategy, o.DefaultBranch, o.BranchRoot, o.AutoMerge, o.AutoSquash, o.ElaborationReview)

	if !cfg.ChangeStrategy.IsValid() {
		return model.VcsConfig{}, fmt.Errorf("unknown change strategy %q", cfg.ChangeStrategy)
	}

	if cfg.DefaultBranch == DefaultBranchAuto {
		name, err := r.runner.DefaultBranch(ctx)
		if err != nil {
			return model.VcsConfig{}, fmt.Errorf("resolve default branch: %w", err)
		}
		cfg.DefaultBranch = name
	}
	return cfg, nil
}
