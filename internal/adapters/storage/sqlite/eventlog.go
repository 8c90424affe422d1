package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that EventLog implements ports.EventLog.
var _ ports.EventLog = (*EventLog)(nil)

// EventLog is the append-only events table.
type EventLog struct {
	db *DB
}

// NewEventLog returns the event log backed by db.
func NewEventLog(db *DB) *EventLog {
	return &EventLog{db: db}
}

// Append inserts events in one transaction after checking that they continue
// the stream. The unique (stream_id, seq) key catches a concurrent writer that
// slips in between the check and the insert.
func (l *EventLog) Append(ctx context.Context, streamID string, streamType event.StreamType, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := l.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return wrap(err, "beginning append to %s", streamID)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		last     int64
		existing sql.NullString
	)
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0), MIN(stream_type) FROM events WHERE stream_id = ?`, streamID,
	).Scan(&last, &existing); err != nil {
		return wrap(err, "reading head of %s", streamID)
	}
	if existing.Valid && existing.String != string(streamType) {
		return fmt.Errorf("%w: stream %s is %s, not %s", domain.ErrConflict, streamID, existing.String, streamType)
	}

	for i, e := range events {
		if want := last + int64(i) + 1; e.Seq != want {
			return fmt.Errorf("%w: stream %s expected seq %d, got %d", domain.ErrConflict, streamID, want, e.Seq)
		}
		if e.AggregateID != streamID {
			return fmt.Errorf("%w: event for %s appended to stream %s", domain.ErrConflict, e.AggregateID, streamID)
		}
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding event %s/%d: %w", streamID, e.Seq, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO events (event_id, stream_id, stream_type, seq, event_type, causation_id, recorded_at, body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, streamID, string(streamType), e.Seq, string(e.Type), e.CausationID,
			e.RecordedAt.UnixMilli(), string(body),
		); err != nil {
			if isConstraintError(err) {
				return fmt.Errorf("%w: stream %s seq %d already written: %w", domain.ErrConflict, streamID, e.Seq, err)
			}
			return wrap(err, "appending %s/%d", streamID, e.Seq)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrap(err, "committing append to %s", streamID)
	}
	return nil
}

// ReadAll returns streamID ordered by seq.
func (l *EventLog) ReadAll(ctx context.Context, streamID string) ([]event.Event, error) {
	return l.query(ctx, `SELECT body FROM events WHERE stream_id = ? ORDER BY seq`, streamID)
}

// ReadByType returns every event of type t in append order.
func (l *EventLog) ReadByType(ctx context.Context, t event.Type) ([]event.Event, error) {
	return l.query(ctx, `SELECT body FROM events WHERE event_type = ? ORDER BY position`, string(t))
}

func (l *EventLog) query(ctx context.Context, query string, arg string) ([]event.Event, error) {
	rows, err := l.db.sql.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, wrap(err, "reading events for %s", arg)
	}
	defer func() { _ = rows.Close() }()

	out := []event.Event{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		var e event.Event
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("decoding event for %s: %w", arg, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterating events for %s", arg)
	}
	return out, nil
}
