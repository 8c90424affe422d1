package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time checks that Store implements each aggregate store port.
var (
	_ ports.MatchStore  = (*Store[*match.Match])(nil)
	_ ports.RosterStore = (*Store[*roster.Roster])(nil)
	_ ports.InningStore = (*Store[*inning.Inning])(nil)
)

// Aggregate is what Store needs from a stored value.
type Aggregate interface {
	AggregateID() string
	AggregateVersion() int64
}

// Store persists one aggregate kind as JSON rows in the aggregates table.
type Store[T Aggregate] struct {
	db   *DB
	kind string
}

// NewMatchStore returns the match store.
func NewMatchStore(db *DB) *Store[*match.Match] {
	return &Store[*match.Match]{db: db, kind: "match"}
}

// NewRosterStore returns the roster store.
func NewRosterStore(db *DB) *Store[*roster.Roster] {
	return &Store[*roster.Roster]{db: db, kind: "roster"}
}

// NewInningStore returns the inning state store.
func NewInningStore(db *DB) *Store[*inning.Inning] {
	return &Store[*inning.Inning]{db: db, kind: "inning"}
}

// FindByID decodes the stored document for id.
func (s *Store[T]) FindByID(ctx context.Context, id string) (T, error) {
	var (
		zero  T
		state string
	)
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT state FROM aggregates WHERE kind = ? AND id = ?`, s.kind, id,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s %s", domain.ErrNotFound, s.kind, id)
	}
	if err != nil {
		return zero, wrap(err, "loading %s %s", s.kind, id)
	}

	var v T
	if err := json.Unmarshal([]byte(state), &v); err != nil {
		return zero, fmt.Errorf("decoding %s %s: %w", s.kind, id, err)
	}
	return v, nil
}

// Save writes the aggregate document if the stored row is still at version
// expected. With expected 0 the row may also be absent.
func (s *Store[T]) Save(ctx context.Context, aggregate T, expected int64) error {
	id := aggregate.AggregateID()
	state, err := json.Marshal(aggregate)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", s.kind, id, err)
	}
	now := time.Now().UTC().UnixMilli()

	var res sql.Result
	if expected == 0 {
		res, err = s.db.sql.ExecContext(ctx, `
INSERT INTO aggregates (kind, id, version, state, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET
    version = excluded.version,
    state = excluded.state,
    updated_at = excluded.updated_at
WHERE aggregates.version = 0`,
			s.kind, id, aggregate.AggregateVersion(), string(state), now,
		)
	} else {
		res, err = s.db.sql.ExecContext(ctx, `
UPDATE aggregates SET version = ?, state = ?, updated_at = ?
WHERE kind = ? AND id = ? AND version = ?`,
			aggregate.AggregateVersion(), string(state), now, s.kind, id, expected,
		)
	}
	if err != nil {
		return wrap(err, "saving %s %s", s.kind, id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return wrap(err, "saving %s %s", s.kind, id)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s is no longer at version %d", domain.ErrConflict, s.kind, id, expected)
	}
	return nil
}

// Exists reports whether a document for id is stored.
func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT 1 FROM aggregates WHERE kind = ? AND id = ?`, s.kind, id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap(err, "checking %s %s", s.kind, id)
	}
	return true, nil
}

// Delete removes the document for id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.db.sql.ExecContext(ctx,
		`DELETE FROM aggregates WHERE kind = ? AND id = ?`, s.kind, id,
	); err != nil {
		return wrap(err, "deleting %s %s", s.kind, id)
	}
	return nil
}

// wrap adds context to a driver error and marks lock contention as
// domain.ErrUnavailable so callers may retry.
func wrap(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if isBusyError(err) {
		return fmt.Errorf("%s: %w: %w", msg, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
