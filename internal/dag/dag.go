// Package dag computes readiness, completion, and structural diagnostics for
// one intent's units. Every operation is a pure function of a []*model.Unit
// snapshot; nothing here reads storage or touches version control.
package dag

import (
	"fmt"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// BlockedUnit pairs a unit with the dependency ids holding it back.
type BlockedUnit struct {
	Unit     *model.Unit `json:"unit"`
	Blocking []string    `json:"blocking"`
}

// Classification buckets every unit of a snapshot by workable state.
type Classification struct {
	Ready      []*model.Unit `json:"ready"`
	Blocked    []BlockedUnit `json:"blocked"`
	InProgress []*model.Unit `json:"in_progress"`
	Completed  []*model.Unit `json:"completed"`
}

// Issue is a structural problem found by Validate. Issues are reported,
// never fatal; the caller decides whether to proceed.
type Issue struct {
	UnitID  string `json:"unit_id"`
	Message string `json:"message"`
}

// Classify buckets units by status and dependency state. A pending unit is
// ready iff every id in its depends_on set resolves to a completed unit;
// otherwise it is blocked, and the blocking set is exactly the subset of its
// dependencies not yet completed. Units whose status is already blocked land
// in the blocked bucket regardless of their dependencies. No ordering is
// imposed within a bucket; ordering policy belongs to the caller.
func Classify(units []*model.Unit) Classification {
	byID := index(units)

	var c Classification
	for _, u := range units {
		switch u.Status {
		case model.UnitCompleted:
			c.Completed = append(c.Completed, u)
		case model.UnitInProgress:
			c.InProgress = append(c.InProgress, u)
		case model.UnitBlocked:
			c.Blocked = append(c.Blocked, BlockedUnit{Unit: u, Blocking: incomplete(u, byID)})
		default:
			blocking := incomplete(u, byID)
			if len(blocking) == 0 {
				c.Ready = append(c.Ready, u)
			} else {
				c.Blocked = append(c.Blocked, BlockedUnit{Unit: u, Blocking: blocking})
			}
		}
	}
	return c
}

// Summary counts units per classification bucket. Pending counts units whose
// status is pending, so a blocked pending unit contributes to both the
// pending and blocked counts.
func Summary(units []*model.Unit) model.DagSummary {
	c := Classify(units)
	var s model.DagSummary
	for _, u := range units {
		if u.Status == model.UnitPending {
			s.Pending++
		}
	}
	s.Ready = len(c.Ready)
	s.Blocked = len(c.Blocked)
	s.InProgress = len(c.InProgress)
	s.Completed = len(c.Completed)
	return s
}

// IsComplete reports whether every unit's status is completed. It is
// vacuously true for an empty snapshot; the integrator, not this package,
// refuses zero-unit intents.
func IsComplete(units []*model.Unit) bool {
	for _, u := range units {
		if u.Status != model.UnitCompleted {
			return false
		}
	}
	return true
}

// Validate reports dependency ids that do not resolve to any unit in the
// snapshot, and self-dependencies. It does not walk the graph, so cycles of
// length two or more pass undetected; callers detect that deadlock via a
// summary with ready == 0 and blocked > 0 instead.
func Validate(units []*model.Unit) []Issue {
	byID := index(units)

	var issues []Issue
	for _, u := range units {
		for _, dep := range u.DependsOn {
			if dep == u.ID {
				issues = append(issues, Issue{
					UnitID:  u.ID,
					Message: "depends on itself",
				})
				continue
			}
			if _, ok := byID[dep]; !ok {
				issues = append(issues, Issue{
					UnitID:  u.ID,
					Message: fmt.Sprintf("depends on unknown unit %q", dep),
				})
			}
		}
	}
	return issues
}

func index(units []*model.Unit) map[string]*model.Unit {
	byID := make(map[string]*model.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return byID
}

// incomplete returns the dependency ids of u that do not resolve to a
// completed unit. Unresolvable ids count as incomplete: a unit can never
// become ready through a dangling reference.
func incomplete(u *model.Unit, byID map[string]*model.Unit) []string {
	var blocking []string
	for _, dep := range u.DependsOn {
		d, ok := byID[dep]
		if !ok || d.Status != model.UnitCompleted {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}
