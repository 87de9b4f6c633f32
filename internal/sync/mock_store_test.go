package sync

import (
	"context"
	"time"

	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	intents map[string]*model.Intent
	units   map[string]map[string]*model.Unit // intent slug -> unit id -> unit
}

func newMockStore() *mockStore {
	return &mockStore{
		intents: make(map[string]*model.Intent),
		units:   make(map[string]map[string]*model.Unit),
	}
}

func (m *mockStore) addIntent(intent *model.Intent) {
	m.intents[intent.Slug] = intent
	if m.units[intent.Slug] == nil {
		m.units[intent.Slug] = make(map[string]*model.Unit)
	}
}

func (m *mockStore) addUnit(slug string, unit *model.Unit) {
	if m.units[slug] == nil {
		m.units[slug] = make(map[string]*model.Unit)
	}
	m.units[slug][unit.ID] = unit
}

func (m *mockStore) CreateIntent(_ context.Context, intent *model.Intent) error {
	if _, ok := m.intents[intent.Slug]; ok {
		return store.ErrExists
	}
	m.addIntent(intent)
	return nil
}

func (m *mockStore) GetIntent(_ context.Context, slug string) (*model.Intent, error) {
	intent, ok := m.intents[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	return intent, nil
}

func (m *mockStore) ListIntents(_ context.Context) ([]*model.Intent, error) {
	var result []*model.Intent
	for _, intent := range m.intents {
		result = append(result, intent)
	}
	return result, nil
}

func (m *mockStore) MarkIntentCompleted(_ context.Context, slug string, at time.Time) error {
	intent, ok := m.intents[slug]
	if !ok {
		return store.ErrNotFound
	}
	if intent.Status == model.IntentCompleted {
		return nil
	}
	intent.Status = model.IntentCompleted
	intent.CompletedAt = &at
	return nil
}

func (m *mockStore) DeleteIntent(_ context.Context, slug string) error {
	delete(m.intents, slug)
	delete(m.units, slug)
	return nil
}

func (m *mockStore) CreateUnit(_ context.Context, intentID string, unit *model.Unit) error {
	if _, ok := m.units[intentID][unit.ID]; ok {
		return store.ErrExists
	}
	m.addUnit(intentID, unit)
	return nil
}

func (m *mockStore) LoadUnit(_ context.Context, intentID, unitID string) (*model.Unit, error) {
	unit, ok := m.units[intentID][unitID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return unit, nil
}

func (m *mockStore) LoadUnits(_ context.Context, intentID string) ([]*model.Unit, error) {
	var result []*model.Unit
	for _, unit := range m.units[intentID] {
		result = append(result, unit)
	}
	return result, nil
}

func (m *mockStore) UpdateStatus(_ context.Context, intentID, unitID string, status model.UnitStatus) (*model.Unit, error) {
	if !status.IsValid() {
		return nil, store.ErrInvalidStatus
	}
	unit, ok := m.units[intentID][unitID]
	if !ok {
		return nil, store.ErrNotFound
	}
	unit.Status = status
	unit.UpdatedAt = time.Now().UTC()
	return unit, nil
}

func (m *mockStore) SetUnitBranch(_ context.Context, intentID, unitID, branch string) (*model.Unit, error) {
	unit, ok := m.units[intentID][unitID]
	if !ok {
		return nil, store.ErrNotFound
	}
	unit.Branch = branch
	return unit, nil
}
