package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/dlc/internal/model"
	"github.com/alfredjeanlab/dlc/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	IntentCount int       `json:"intent_count"`
	UnitCount   int       `json:"unit_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type   string      `json:"type"`
	Intent string      `json:"intent,omitempty"`
	Data   interface{} `json:"data"`
}

// ExportJSONL writes all intents and their units from the store as JSONL to
// w. Intents are sorted by slug, units by ID, so repeated exports of the
// same state produce identical output modulo the header timestamp.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	intents, err := s.ListIntents(ctx)
	if err != nil {
		return fmt.Errorf("list intents: %w", err)
	}
	sort.Slice(intents, func(i, j int) bool {
		return intents[i].Slug < intents[j].Slug
	})

	units := make(map[string][]*model.Unit, len(intents))
	total := 0
	for _, intent := range intents {
		us, err := s.LoadUnits(ctx, intent.Slug)
		if err != nil {
			return fmt.Errorf("load units for %s: %w", intent.Slug, err)
		}
		sort.Slice(us, func(i, j int) bool {
			return us[i].ID < us[j].ID
		})
		units[intent.Slug] = us
		total += len(us)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		IntentCount: len(intents),
		UnitCount:   total,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, intent := range intents {
		if err := enc.Encode(record{Type: "intent", Data: intent}); err != nil {
			return fmt.Errorf("encode intent %s: %w", intent.Slug, err)
		}
		for _, u := range units[intent.Slug] {
			if err := enc.Encode(record{Type: "unit", Intent: intent.Slug, Data: u}); err != nil {
				return fmt.Errorf("encode unit %s: %w", u.ID, err)
			}
		}
	}

	return nil
}
