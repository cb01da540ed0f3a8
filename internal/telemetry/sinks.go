package telemetry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event types.TelemetryEvent) error

// Append calls f.
func (f SinkFunc) Append(ctx context.Context, event types.TelemetryEvent) error {
	return f(ctx, event)
}

// LogSink writes each event as one structured log line.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Append implements Sink.
func (s *LogSink) Append(_ context.Context, event types.TelemetryEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("target_role", event.TargetRole),
		zap.String("model", event.Model),
		zap.String("prompt_variant", event.PromptVariant),
		zap.Int("attempt", event.Attempt),
		zap.Int64("timestamp_ms", event.TimestampMs),
	}
	if event.Reason != types.ReasonNone {
		fields = append(fields, zap.String("reason", string(event.Reason)), zap.String("details", event.Details))
	}
	s.logger.Info("generation event", fields...)
	return nil
}

// MemorySink keeps events in memory. It is meant for tests and the CLI.
type MemorySink struct {
	mu     sync.Mutex
	events []types.TelemetryEvent
}

// Append implements Sink.
func (s *MemorySink) Append(_ context.Context, event types.TelemetryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the stored events in append order.
func (s *MemorySink) Events() []types.TelemetryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.TelemetryEvent(nil), s.events...)
}

// OfType returns the stored events of one type.
func (s *MemorySink) OfType(t types.EventType) []types.TelemetryEvent {
	var out []types.TelemetryEvent
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// MultiSink writes every event to all of its sinks, even when one fails.
type MultiSink []Sink

// Append implements Sink. Errors from individual sinks are joined.
func (m MultiSink) Append(ctx context.Context, event types.TelemetryEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
