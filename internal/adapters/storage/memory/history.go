package memory

import (
	"context"
	"sync"

	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that HistoryStore implements ports.HistoryStore.
var _ ports.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps undo histories in memory.
type HistoryStore struct {
	mu        sync.RWMutex
	histories map[string]*undo.History
	capacity  int
}

// NewHistoryStore returns an empty store. Histories created on first load
// use capacity.
func NewHistoryStore(capacity int) *HistoryStore {
	return &HistoryStore{histories: make(map[string]*undo.History), capacity: capacity}
}

// Load returns a copy of the history for matchID, or a new empty one.
func (s *HistoryStore) Load(_ context.Context, matchID string) (*undo.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if h, ok := s.histories[matchID]; ok {
		return h.Clone(), nil
	}
	return undo.NewHistory(matchID, s.capacity), nil
}

// Save replaces the stored history.
func (s *HistoryStore) Save(_ context.Context, h *undo.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[h.MatchID] = h.Clone()
	return nil
}
