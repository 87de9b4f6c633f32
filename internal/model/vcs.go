package model

// Strategy names a change-integration policy.
type Strategy string

const (
	StrategyTrunk  Strategy = "trunk"
	StrategyBolt   Strategy = "bolt"
	StrategyUnit   Strategy = "unit"
	StrategyIntent Strategy = "intent"
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// IsValid checks whether the strategy is a known value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyTrunk, StrategyBolt, StrategyUnit, StrategyIntent:
		return true
	}
	return false
}

// VcsConfig is the resolved version-control policy for one intent. It is
// produced by the config loader with intent frontmatter taking precedence
// over repo settings, which take precedence over built-in defaults. The
// literal "auto" never survives resolution: DefaultBranch always holds a
// concrete branch name.
type VcsConfig struct {
	ChangeStrategy    Strategy `json:"change_strategy" toml:"change_strategy"`
	ElaborationReview bool     `json:"elaboration_review" toml:"elaboration_review"`
	DefaultBranch     string   `json:"default_branch" toml:"default_branch"`
	BranchRoot        string   `json:"branch_root" toml:"branch_root"`

	// Explicit overrides; nil means "use the strategy default".
	AutoMerge  *bool `json:"auto_merge,omitempty" toml:"auto_merge"`
	AutoSquash *bool `json:"auto_squash,omitempty" toml:"auto_squash"`
}

// VcsOverrides are the per-intent policy overrides stored on the intent
// record. Zero/nil fields are unset and fall through to repo settings.
type VcsOverrides struct {
	ChangeStrategy    string `json:"change_strategy,omitempty"`
	DefaultBranch     string `json:"default_branch,omitempty"`
	BranchRoot        string `json:"branch_root,omitempty"`
	AutoMerge         *bool  `json:"auto_merge,omitempty"`
	AutoSquash        *bool  `json:"auto_squash,omitempty"`
	ElaborationReview *bool  `json:"elaboration_review,omitempty"`
}
