package model

// DagSummary holds per-classification unit counts for one intent at a point
// in time. It is derived on every query and never cached; the unit store is
// the source of truth and may change between calls.
type DagSummary struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
	Ready      int `json:"ready"`
}

// IntegrationStatus is the outcome class of one integrator run.
type IntegrationStatus string

const (
	IntegrationCompleted IntegrationStatus = "completed"
	IntegrationPrCreated IntegrationStatus = "pr_created"
	IntegrationBlocked   IntegrationStatus = "blocked"
	IntegrationSkipped   IntegrationStatus = "skipped"
)

// String returns the string representation of the status.
func (s IntegrationStatus) String() string {
	return string(s)
}

// IntegrationResult is the ephemeral output of one integrator run. It is
// returned to the caller, never persisted.
type IntegrationResult struct {
	Status   IntegrationStatus `json:"status"`
	Strategy Strategy          `json:"strategy"`
	Message  string            `json:"message,omitempty"`
	PrURL    string            `json:"pr_url,omitempty"`
	Errors   []string          `json:"errors,omitempty"`

	BranchesDeleted  int `json:"branches_deleted,omitempty"`
	WorktreesRemoved int `json:"worktrees_removed,omitempty"`
}

// Ok reports whether the run ended in a non-blocked state.
func (r *IntegrationResult) Ok() bool {
	return r.Status != IntegrationBlocked
}
