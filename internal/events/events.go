package events

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/dlc/internal/model"
)

// Event topic constants
const (
	TopicIntentCreated   = "dlc.intent.created"
	TopicIntentCompleted = "dlc.intent.completed"

	TopicUnitCreated   = "dlc.unit.created"
	TopicUnitUpdated   = "dlc.unit.updated"
	TopicUnitCompleted = "dlc.unit.completed"

	// Integration lifecycle events.
	TopicIntegrationRun     = "dlc.integration.run"
	TopicIntegrationBlocked = "dlc.integration.blocked"
)

// Event types

type IntentCreated struct {
	Intent *model.Intent `json:"intent"`
}

type IntentCompleted struct {
	IntentID string `json:"intent_id"`
}

type UnitCreated struct {
	IntentID string      `json:"intent_id"`
	Unit     *model.Unit `json:"unit"`
}

type UnitUpdated struct {
	IntentID string         `json:"intent_id"`
	Unit     *model.Unit    `json:"unit"`
	Changes  map[string]any `json:"changes"` // field name -> new value
}

type UnitCompleted struct {
	IntentID string `json:"intent_id"`
	UnitID   string `json:"unit_id"`
}

type IntegrationRun struct {
	IntentID string                   `json:"intent_id"`
	Result   *model.IntegrationResult `json:"result"`
}

type IntegrationBlocked struct {
	IntentID string   `json:"intent_id"`
	Errors   []string `json:"errors"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Emit publishes an event and logs a warning on failure. Event delivery is
// advisory: commands never fail because the bus is unreachable.
func Emit(ctx context.Context, pub Publisher, topic string, event any) {
	if err := pub.Publish(ctx, topic, event); err != nil {
		slog.Warn("event publish failed", "topic", topic, "error", err)
	}
}
