package ports

import (
	"context"

	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
)

// AggregateStore persists the cached projection of one aggregate type.
// The event log stays the source of truth; stores hold the latest state so
// commands do not replay streams on every load.
type AggregateStore[T any] interface {
	// FindByID returns the aggregate or domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (T, error)

	// Save writes the aggregate if the stored version still equals expected.
	// expected is the version the caller loaded, or 0 for an aggregate that
	// has never been saved. A mismatch returns domain.ErrConflict and leaves
	// the stored state untouched.
	Save(ctx context.Context, aggregate T, expected int64) error

	// Exists reports whether an aggregate with id has been saved.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes the aggregate. Only compensation of a failed creation
	// calls it. Deleting a missing aggregate is not an error.
	Delete(ctx context.Context, id string) error
}

// MatchStore persists Match aggregates.
type MatchStore = AggregateStore[*match.Match]

// RosterStore persists Roster aggregates.
type RosterStore = AggregateStore[*roster.Roster]

// InningStore persists InningState aggregates.
type InningStore = AggregateStore[*inning.Inning]

// EventLog is the append-only record of every stream.
type EventLog interface {
	// Append adds events to the end of streamID. The call is all-or-nothing.
	// The first event's Seq must follow the stream's last Seq and the batch
	// must be contiguous; otherwise it returns domain.ErrConflict.
	Append(ctx context.Context, streamID string, streamType event.StreamType, events []event.Event) error

	// ReadAll returns every event in streamID ordered by Seq. An unknown
	// stream yields an empty slice.
	ReadAll(ctx context.Context, streamID string) ([]event.Event, error)

	// ReadByType returns every event of type t across all streams in append
	// order.
	ReadByType(ctx context.Context, t event.Type) ([]event.Event, error)
}

// HistoryStore persists the undo/redo history of each match.
type HistoryStore interface {
	// Load returns the history for matchID, or an empty history when none
	// has been saved.
	Load(ctx context.Context, matchID string) (*undo.History, error)

	// Save replaces the stored history.
	Save(ctx context.Context, history *undo.History) error
}
