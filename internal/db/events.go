package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// EventSink appends telemetry events to the generation_events table.
// It implements telemetry.Sink.
type EventSink struct {
	db *DB
}

// NewEventSink creates an EventSink backed by db.
func NewEventSink(db *DB) *EventSink {
	return &EventSink{db: db}
}

// Append inserts one event. Re-appending an event with the same ID is a no-op.
func (s *EventSink) Append(ctx context.Context, event types.TelemetryEvent) error {
	_, err := s.db.q.Exec(ctx,
		`INSERT INTO generation_events
		   (id, event_type, user_id, target_role, model, prompt_variant, attempt, reason, details, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		event.ID, string(event.Type), nullableOwner(event.UserID), event.TargetRole, event.Model,
		event.PromptVariant, event.Attempt, string(event.Reason), event.Details,
		time.UnixMilli(event.TimestampMs).UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.ID, err)
	}
	return nil
}
