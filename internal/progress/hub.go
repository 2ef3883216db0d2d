package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config controls how the Hub stamps events.
//   - RunID: identifier attached to every event (a fresh UUIDv7 when zero).
//   - Now: clock used for event timestamps (time.Now in UTC by default).
//   - Logger: optional structured logger used for sink warnings.
type Config struct {
	RunID  uuid.UUID
	Now    func() time.Time
	Logger *zap.Logger
}

// Hub stamps events and delivers them to registered sinks in the caller's
// goroutine, so sinks observe events in emission order.
type Hub struct {
	runID  uuid.UUID
	now    func() time.Time
	sinks  []Sink
	logger *zap.Logger
}

// NewHub initializes a Hub for the supplied sinks.
func NewHub(cfg Config, sinks ...Sink) (*Hub, error) {
	runID := cfg.RunID
	if runID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate run id: %w", err)
		}
		runID = id
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		runID:  runID,
		now:    now,
		sinks:  append([]Sink(nil), sinks...),
		logger: logger,
	}, nil
}

// RunID returns the identifier stamped on every event.
func (h *Hub) RunID() uuid.UUID {
	return h.runID
}

// Emit stamps the event and hands it to each sink. Invalid events and sink
// failures are logged and otherwise ignored.
func (h *Hub) Emit(ctx context.Context, evt Event) {
	if h == nil {
		return
	}
	evt.RunID = h.runID
	if evt.TS.IsZero() {
		evt.TS = h.now()
	}
	if err := evt.Validate(); err != nil {
		h.logger.Debug("discarding invalid progress event", zap.String("stage", string(evt.Stage)), zap.Error(err))
		return
	}
	batch := []Event{evt}
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Consume(ctx, batch); err != nil {
			h.logger.Warn("progress sink consume failed", zap.Error(err))
		}
	}
}

// Close closes every sink, logging failures.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			h.logger.Warn("progress sink close failed", zap.Error(err))
		}
	}
	return nil
}
