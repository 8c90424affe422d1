package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that HistoryStore implements ports.HistoryStore.
var _ ports.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps each match's undo history as one JSON document.
type HistoryStore struct {
	db       *DB
	capacity int
}

// NewHistoryStore returns the history store. Histories created on first load
// use capacity.
func NewHistoryStore(db *DB, capacity int) *HistoryStore {
	return &HistoryStore{db: db, capacity: capacity}
}

// Load returns the stored history or a new empty one.
func (s *HistoryStore) Load(ctx context.Context, matchID string) (*undo.History, error) {
	var body string
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT body FROM undo_histories WHERE match_id = ?`, matchID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return undo.NewHistory(matchID, s.capacity), nil
	}
	if err != nil {
		return nil, wrap(err, "loading undo history %s", matchID)
	}

	var h undo.History
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		return nil, fmt.Errorf("decoding undo history %s: %w", matchID, err)
	}
	return &h, nil
}

// Save upserts the history document.
func (s *HistoryStore) Save(ctx context.Context, h *undo.History) error {
	body, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding undo history %s: %w", h.MatchID, err)
	}
	if _, err := s.db.sql.ExecContext(ctx, `
INSERT INTO undo_histories (match_id, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		h.MatchID, string(body), time.Now().UTC().UnixMilli(),
	); err != nil {
		return wrap(err, "saving undo history %s", h.MatchID)
	}
	return nil
}
