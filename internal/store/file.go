package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alfredjeanlab/dlc/internal/idgen"
	"github.com/alfredjeanlab/dlc/internal/model"
)

// FileStore keeps records under <root>/intents/<slug>/, one JSON document
// per record: intent.json for the intent, units/<id>.json per unit.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir (typically <repo>/.dlc),
// creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "intents"), 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

func (s *FileStore) intentDir(slug string) (string, error) {
	base := filepath.Join(s.root, "intents")
	if !model.IsValidUnitID(slug) {
		return "", fmt.Errorf("intent %q: %w", slug, ErrPathViolation)
	}
	dir := filepath.Join(base, slug)
	if filepath.Dir(dir) != base {
		return "", fmt.Errorf("intent %q: %w", slug, ErrPathViolation)
	}
	return dir, nil
}

func (s *FileStore) unitPath(intentID, unitID string) (string, error) {
	dir, err := s.intentDir(intentID)
	if err != nil {
		return "", err
	}
	if !model.IsValidUnitID(unitID) {
		return "", fmt.Errorf("unit %q: %w", unitID, ErrPathViolation)
	}
	unitsDir := filepath.Join(dir, "units")
	path := filepath.Join(unitsDir, unitID+".json")
	if filepath.Dir(path) != unitsDir {
		return "", fmt.Errorf("unit %q: %w", unitID, ErrPathViolation)
	}
	return path, nil
}

// writeRecord stages the full document in a temp file next to the target,
// then renames it into place. Rename is atomic on POSIX filesystems, so a
// concurrent reader sees the old or the new record, never a partial write.
func writeRecord(path string, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	suffix, err := idgen.Suffix()
	if err != nil {
		return err
	}
	tmp := path + ".tmp." + suffix
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("stage record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

func readRecord(path string, record any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read record: %w", err)
	}
	if err := json.Unmarshal(data, record); err != nil {
		return fmt.Errorf("decode record %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CreateIntent writes a new intent record. An existing slug is ErrExists.
func (s *FileStore) CreateIntent(ctx context.Context, intent *model.Intent) error {
	if err := model.ValidateIntent(intent); err != nil {
		return err
	}
	dir, err := s.intentDir(intent.Slug)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, "intent.json")); err == nil {
		return fmt.Errorf("intent %q: %w", intent.Slug, ErrExists)
	}
	if err := os.MkdirAll(filepath.Join(dir, "units"), 0o755); err != nil {
		return fmt.Errorf("create intent dir: %w", err)
	}
	return writeRecord(filepath.Join(dir, "intent.json"), intent)
}

// GetIntent loads one intent record by slug.
func (s *FileStore) GetIntent(ctx context.Context, slug string) (*model.Intent, error) {
	dir, err := s.intentDir(slug)
	if err != nil {
		return nil, err
	}
	var intent model.Intent
	if err := readRecord(filepath.Join(dir, "intent.json"), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ListIntents loads every intent record, sorted by slug.
func (s *FileStore) ListIntents(ctx context.Context) ([]*model.Intent, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "intents"))
	if err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}
	var intents []*model.Intent
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		intent, err := s.GetIntent(ctx, e.Name())
		if err != nil {
			// Skip directories without a readable intent record
			// (e.g. a concurrent create in progress).
			continue
		}
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool { return intents[i].Slug < intents[j].Slug })
	return intents, nil
}

// MarkIntentCompleted sets status and completed_at. Idempotent.
func (s *FileStore) MarkIntentCompleted(ctx context.Context, slug string, at time.Time) error {
	intent, err := s.GetIntent(ctx, slug)
	if err != nil {
		return err
	}
	if intent.Status == model.IntentCompleted {
		return nil
	}
	intent.Status = model.IntentCompleted
	intent.CompletedAt = &at
	dir, err := s.intentDir(slug)
	if err != nil {
		return err
	}
	return writeRecord(filepath.Join(dir, "intent.json"), intent)
}

// DeleteIntent removes the intent directory and every unit record in it.
func (s *FileStore) DeleteIntent(ctx context.Context, slug string) error {
	dir, err := s.intentDir(slug)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, "intent.json")); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return os.RemoveAll(dir)
}

// CreateUnit writes a new unit record under the intent. The intent must
// exist; an existing unit id is ErrExists.
func (s *FileStore) CreateUnit(ctx context.Context, intentID string, unit *model.Unit) error {
	if err := model.ValidateUnit(unit); err != nil {
		return err
	}
	if _, err := s.GetIntent(ctx, intentID); err != nil {
		return err
	}
	path, err := s.unitPath(intentID, unit.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("unit %q: %w", unit.ID, ErrExists)
	}
	return writeRecord(path, unit)
}

// LoadUnit loads one unit record.
func (s *FileStore) LoadUnit(ctx context.Context, intentID, unitID string) (*model.Unit, error) {
	path, err := s.unitPath(intentID, unitID)
	if err != nil {
		return nil, err
	}
	var unit model.Unit
	if err := readRecord(path, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// LoadUnits loads every unit record of an intent. The order is the directory
// listing order (lexical); callers wanting ordinal order sort themselves.
func (s *FileStore) LoadUnits(ctx context.Context, intentID string) ([]*model.Unit, error) {
	dir, err := s.intentDir(intentID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(dir, "intent.json")); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(dir, "units"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list units: %w", err)
	}
	var units []*model.Unit
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.Contains(name, ".tmp.") {
			continue
		}
		unit, err := s.LoadUnit(ctx, intentID, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// UpdateStatus transitions one unit's status.
func (s *FileStore) UpdateStatus(ctx context.Context, intentID, unitID string, status model.UnitStatus) (*model.Unit, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}
	return s.mutateUnit(intentID, unitID, func(u *model.Unit) {
		u.Status = status
	})
}

// SetUnitBranch records the materialized branch name on a unit.
func (s *FileStore) SetUnitBranch(ctx context.Context, intentID, unitID, branch string) (*model.Unit, error) {
	return s.mutateUnit(intentID, unitID, func(u *model.Unit) {
		u.Branch = branch
	})
}

func (s *FileStore) mutateUnit(intentID, unitID string, mutate func(*model.Unit)) (*model.Unit, error) {
	path, err := s.unitPath(intentID, unitID)
	if err != nil {
		return nil, err
	}
	var unit model.Unit
	if err := readRecord(path, &unit); err != nil {
		return nil, err
	}
	mutate(&unit)
	unit.UpdatedAt = time.Now().UTC()
	if err := writeRecord(path, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}
