// Package store persists intent and unit records as one JSON file per
// record. Writers stage a full temp file and atomically rename it over the
// existing record, so concurrent readers always observe either the old or
// the fully-new record; concurrent writers to different records touch
// disjoint files.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// Sentinel errors returned by store operations.
var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrExists is returned when creating a record that already exists.
	ErrExists = errors.New("record already exists")

	// ErrInvalidStatus is returned when a status update names a value
	// outside the enum.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrPathViolation is returned when a crafted id would resolve a record
	// path outside the intent's namespace.
	ErrPathViolation = errors.New("id escapes storage namespace")
)

// Store defines the persistence interface for intents and units.
type Store interface {
	// Intent records
	CreateIntent(ctx context.Context, intent *model.Intent) error
	GetIntent(ctx context.Context, slug string) (*model.Intent, error)
	ListIntents(ctx context.Context) ([]*model.Intent, error)
	// MarkIntentCompleted rewrites only the intent's status and completed_at
	// fields, never unit records. It is idempotent: completing an
	// already-completed intent is a no-op success that keeps the original
	// timestamp.
	MarkIntentCompleted(ctx context.Context, slug string, at time.Time) error
	// DeleteIntent removes the intent and all of its unit records.
	DeleteIntent(ctx context.Context, slug string) error

	// Unit records
	CreateUnit(ctx context.Context, intentID string, unit *model.Unit) error
	LoadUnit(ctx context.Context, intentID, unitID string) (*model.Unit, error)
	LoadUnits(ctx context.Context, intentID string) ([]*model.Unit, error)
	// UpdateStatus transitions one unit's status and returns the updated
	// record. It fails with ErrInvalidStatus for values outside the enum and
	// ErrNotFound when the record does not exist. It never touches version
	// control.
	UpdateStatus(ctx context.Context, intentID, unitID string, status model.UnitStatus) (*model.Unit, error)
	// SetUnitBranch materializes the branch name on a unit record once work
	// starts.
	SetUnitBranch(ctx context.Context, intentID, unitID, branch string) (*model.Unit, error)
}
