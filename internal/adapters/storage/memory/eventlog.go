package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that EventLog implements ports.EventLog.
var _ ports.EventLog = (*EventLog)(nil)

// EventLog is an append-only in-memory event log.
type EventLog struct {
	mu      sync.RWMutex
	streams map[string][]event.Event
	all     []event.Event
}

// NewEventLog returns an empty log.
func NewEventLog() *EventLog {
	return &EventLog{streams: make(map[string][]event.Event)}
}

// Append adds events to streamID after checking sequence continuity.
func (l *EventLog) Append(_ context.Context, streamID string, streamType event.StreamType, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.streams[streamID]
	if len(existing) > 0 && existing[0].StreamType != streamType {
		return fmt.Errorf("%w: stream %s is %s, not %s",
			domain.ErrConflict, streamID, existing[0].StreamType, streamType)
	}
	if err := checkSequence(streamID, int64(len(existing)), events); err != nil {
		return err
	}

	l.streams[streamID] = append(existing, events...)
	l.all = append(l.all, events...)
	return nil
}

// ReadAll returns a copy of streamID.
func (l *EventLog) ReadAll(_ context.Context, streamID string) ([]event.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := slices.Clone(l.streams[streamID])
	if out == nil {
		out = []event.Event{}
	}
	return out, nil
}

// ReadByType returns every event of type t in append order.
func (l *EventLog) ReadByType(_ context.Context, t event.Type) ([]event.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []event.Event{}
	for _, e := range l.all {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out, nil
}

// checkSequence verifies that events continue a stream whose last sequence
// number is last, with no gaps or repeats.
func checkSequence(streamID string, last int64, events []event.Event) error {
	for i, e := range events {
		want := last + int64(i) + 1
		if e.Seq != want {
			return fmt.Errorf("%w: stream %s expected seq %d, got %d", domain.ErrConflict, streamID, want, e.Seq)
		}
		if e.AggregateID != streamID {
			return fmt.Errorf("%w: event for %s appended to stream %s", domain.ErrConflict, e.AggregateID, streamID)
		}
	}
	return nil
}
