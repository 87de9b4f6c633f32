package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnitStatus represents the current state of a unit.
type UnitStatus string

const (
	UnitPending    UnitStatus = "pending"
	UnitInProgress UnitStatus = "in_progress"
	UnitCompleted  UnitStatus = "completed"
	UnitBlocked    UnitStatus = "blocked"
)

// String returns the string representation of the status.
func (s UnitStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitPending, UnitInProgress, UnitCompleted, UnitBlocked:
		return true
	}
	return false
}

// unitIDPattern constrains unit ids to path-safe slugs.
var unitIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// IsValidUnitID reports whether id is a well-formed unit slug.
func IsValidUnitID(id string) bool {
	return unitIDPattern.MatchString(id)
}

// Unit is a single work item within an intent.
type Unit struct {
	ID          string     `json:"id"`
	Status      UnitStatus `json:"status"`
	DependsOn   []string   `json:"depends_on,omitempty"`
	Branch      string     `json:"branch,omitempty"`
	Discipline  string     `json:"discipline,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Ordinal extracts the numeric ordinal from ids of the form
// "unit-03-session". It returns -1 when the id carries no ordinal, so
// un-numbered units sort after numbered ones.
func (u *Unit) Ordinal() int {
	parts := strings.Split(u.ID, "-")
	for _, p := range parts[1:] {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	return -1
}
