package model

import "time"

// IntentStatus represents the lifecycle state of an intent.
type IntentStatus string

const (
	IntentActive    IntentStatus = "active"
	IntentCompleted IntentStatus = "completed"
)

// String returns the string representation of the status.
func (s IntentStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s IntentStatus) IsValid() bool {
	switch s {
	case IntentActive, IntentCompleted:
		return true
	}
	return false
}

// Intent is a decomposed feature request tracked as a single lifecycle
// entity. Units are stored alongside the intent record, not embedded in it.
type Intent struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Problem     string       `json:"problem,omitempty"`
	Solution    string       `json:"solution,omitempty"`
	Criteria    []string     `json:"criteria,omitempty"`
	Workflow    string       `json:"workflow,omitempty"`
	Status      IntentStatus `json:"status"`
	Created     time.Time    `json:"created"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`

	// Vcs carries this intent's policy overrides, if any.
	Vcs *VcsOverrides `json:"vcs,omitempty"`
}
