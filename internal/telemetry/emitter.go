// Package telemetry records generation outcomes without ever blocking or failing a request.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// DefaultBufferSize is the number of events that may wait for the sink.
const DefaultBufferSize = 256

// appendTimeout bounds a single sink write.
const appendTimeout = 5 * time.Second

// Sink stores telemetry events. Append may be slow or fail; the Emitter absorbs both.
type Sink interface {
	Append(ctx context.Context, event types.TelemetryEvent) error
}

// Emitter buffers events and writes them to a Sink from a single goroutine.
// Emit is safe for concurrent use.
type Emitter struct {
	sink   Sink
	logger *zap.Logger
	events chan types.TelemetryEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
}

// NewEmitter starts an Emitter writing to sink.
func NewEmitter(sink Sink, logger *zap.Logger, bufferSize int) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	e := &Emitter{
		sink:   sink,
		logger: logger.Named("telemetry"),
		events: make(chan types.TelemetryEvent, bufferSize),
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit queues an event. It never blocks: when the buffer is full or the emitter is
// closed the event is dropped and logged. Missing ID and timestamp are filled in.
func (e *Emitter) Emit(event types.TelemetryEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.TimestampMs == 0 {
		event.TimestampMs = time.Now().UnixMilli()
	}
	eventsTotal.WithLabelValues(string(event.Type), string(event.Reason)).Inc()

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.drop(event, "emitter closed")
		return
	}
	select {
	case e.events <- event:
	default:
		e.drop(event, "buffer full")
	}
}

// Dropped returns the number of events that never reached the sink.
func (e *Emitter) Dropped() int64 {
	return e.dropped.Load()
}

// Close stops accepting events and waits until queued events are written or ctx ends.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for event := range e.events {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		err := e.sink.Append(ctx, event)
		cancel()
		if err != nil {
			e.drop(event, "sink error", zap.Error(err))
		}
	}
}

func (e *Emitter) drop(event types.TelemetryEvent, why string, fields ...zap.Field) {
	e.dropped.Add(1)
	eventsDropped.WithLabelValues(why).Inc()
	e.logger.Warn("telemetry event dropped", append([]zap.Field{
		zap.String("why", why),
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("reason", string(event.Reason)),
	}, fields...)...)
}
