package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alfredjeanlab/dlc/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return s
}

func seedIntent(t *testing.T, s *FileStore, slug string) {
	t.Helper()
	err := s.CreateIntent(context.Background(), &model.Intent{
		Slug:    slug,
		Title:   "Test intent",
		Status:  model.IntentActive,
		Created: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateIntent(%q) error: %v", slug, err)
	}
}

func seedUnit(t *testing.T, s *FileStore, intentID, unitID string, deps ...string) {
	t.Helper()
	err := s.CreateUnit(context.Background(), intentID, &model.Unit{
		ID:        unitID,
		Status:    model.UnitPending,
		DependsOn: deps,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUnit(%q) error: %v", unitID, err)
	}
}

func TestFileStore_IntentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")

	got, err := s.GetIntent(ctx, "checkout-flow")
	if err != nil {
		t.Fatalf("GetIntent() error: %v", err)
	}
	if got.Slug != "checkout-flow" || got.Status != model.IntentActive {
		t.Errorf("GetIntent() = %+v", got)
	}

	if err := s.CreateIntent(ctx, &model.Intent{Slug: "checkout-flow", Title: "dup", Status: model.IntentActive}); !errors.Is(err, ErrExists) {
		t.Errorf("CreateIntent(dup) error = %v, want ErrExists", err)
	}
}

func TestFileStore_GetIntent_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetIntent(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetIntent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_ListIntents(t *testing.T) {
	s := newTestStore(t)
	seedIntent(t, s, "zeta")
	seedIntent(t, s, "alpha")

	intents, err := s.ListIntents(context.Background())
	if err != nil {
		t.Fatalf("ListIntents() error: %v", err)
	}
	if len(intents) != 2 || intents[0].Slug != "alpha" || intents[1].Slug != "zeta" {
		t.Errorf("ListIntents() = %v, want [alpha zeta]", intents)
	}
}

func TestFileStore_UnitRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")
	seedUnit(t, s, "checkout-flow", "unit-02-cart", "unit-01-schema")

	units, err := s.LoadUnits(ctx, "checkout-flow")
	if err != nil {
		t.Fatalf("LoadUnits() error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("LoadUnits() = %d units, want 2", len(units))
	}

	u, err := s.LoadUnit(ctx, "checkout-flow", "unit-02-cart")
	if err != nil {
		t.Fatalf("LoadUnit() error: %v", err)
	}
	if len(u.DependsOn) != 1 || u.DependsOn[0] != "unit-01-schema" {
		t.Errorf("DependsOn = %v, want [unit-01-schema]", u.DependsOn)
	}
}

func TestFileStore_UpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")

	u, err := s.UpdateStatus(ctx, "checkout-flow", "unit-01-schema", model.UnitInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if u.Status != model.UnitInProgress {
		t.Errorf("Status = %q, want in_progress", u.Status)
	}

	// Persisted, not just returned.
	u, err = s.LoadUnit(ctx, "checkout-flow", "unit-01-schema")
	if err != nil {
		t.Fatalf("LoadUnit() error: %v", err)
	}
	if u.Status != model.UnitInProgress {
		t.Errorf("persisted Status = %q, want in_progress", u.Status)
	}
}

func TestFileStore_UpdateStatus_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")

	if _, err := s.UpdateStatus(ctx, "checkout-flow", "unit-01-schema", "done"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("UpdateStatus(bad status) error = %v, want ErrInvalidStatus", err)
	}
	if _, err := s.UpdateStatus(ctx, "checkout-flow", "unit-99", model.UnitCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(missing unit) error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_PathViolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")

	for _, id := range []string{"../escape", "..", "a/b", ".hidden"} {
		if _, err := s.LoadUnit(ctx, "checkout-flow", id); !errors.Is(err, ErrPathViolation) {
			t.Errorf("LoadUnit(%q) error = %v, want ErrPathViolation", id, err)
		}
	}
	if _, err := s.GetIntent(ctx, "../other"); !errors.Is(err, ErrPathViolation) {
		t.Errorf("GetIntent(../other) error = %v, want ErrPathViolation", err)
	}
}

func TestFileStore_AtomicReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")

	if _, err := s.UpdateStatus(ctx, "checkout-flow", "unit-01-schema", model.UnitCompleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	// No staged temp file may survive a completed write.
	unitsDir := filepath.Join(s.root, "intents", "checkout-flow", "units")
	entries, err := os.ReadDir(unitsDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "unit-01-schema.json" {
			t.Errorf("unexpected file %q in units dir", e.Name())
		}
	}
}

func TestFileStore_MarkIntentCompleted_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := s.MarkIntentCompleted(ctx, "checkout-flow", first); err != nil {
		t.Fatalf("MarkIntentCompleted() error: %v", err)
	}
	// Second call keeps the original timestamp.
	if err := s.MarkIntentCompleted(ctx, "checkout-flow", first.Add(time.Hour)); err != nil {
		t.Fatalf("MarkIntentCompleted() second call error: %v", err)
	}

	intent, err := s.GetIntent(ctx, "checkout-flow")
	if err != nil {
		t.Fatal(err)
	}
	if intent.Status != model.IntentCompleted {
		t.Errorf("Status = %q, want completed", intent.Status)
	}
	if intent.CompletedAt == nil || !intent.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt = %v, want %v", intent.CompletedAt, first)
	}
}

func TestFileStore_DeleteIntent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")

	if err := s.DeleteIntent(ctx, "checkout-flow"); err != nil {
		t.Fatalf("DeleteIntent() error: %v", err)
	}
	if _, err := s.GetIntent(ctx, "checkout-flow"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetIntent(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteIntent(ctx, "checkout-flow"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteIntent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_LoadUnits_SkipsStagedFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedIntent(t, s, "checkout-flow")
	seedUnit(t, s, "checkout-flow", "unit-01-schema")

	// A writer crashed mid-stage; its temp file must be invisible to readers.
	unitsDir := filepath.Join(s.root, "intents", "checkout-flow", "units")
	if err := os.WriteFile(filepath.Join(unitsDir, "unit-02.json.tmp.abc123"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	units, err := s.LoadUnits(ctx, "checkout-flow")
	if err != nil {
		t.Fatalf("LoadUnits() error: %v", err)
	}
	if len(units) != 1 {
		t.Errorf("LoadUnits() = %d units, want 1", len(units))
	}
}
