// Package memory provides in-process implementations of the storage ports.
// Every value crossing the boundary is cloned, so callers can never mutate
// stored state through a returned pointer.
package memory

import (
	"context"
	"fmt"
	"sync"

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
type Aggregate[T any] interface {
	AggregateID() string
	AggregateVersion() int64
	Clone() T
}

// Store is a map-backed aggregate store safe for concurrent use.
type Store[T Aggregate[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	name  string
}

// NewStore returns an empty store. name appears in not-found errors.
func NewStore[T Aggregate[T]](name string) *Store[T] {
	return &Store[T]{items: make(map[string]T), name: name}
}

// NewMatchStore returns an empty match store.
func NewMatchStore() *Store[*match.Match] { return NewStore[*match.Match]("match") }

// NewRosterStore returns an empty roster store.
func NewRosterStore() *Store[*roster.Roster] { return NewStore[*roster.Roster]("roster") }

// NewInningStore returns an empty inning store.
func NewInningStore() *Store[*inning.Inning] { return NewStore[*inning.Inning]("inning state") }

// FindByID returns a copy of the stored aggregate.
func (s *Store[T]) FindByID(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %s", domain.ErrNotFound, s.name, id)
	}
	return v.Clone(), nil
}

// Save stores a copy of aggregate when the stored version equals expected.
// An absent aggregate counts as version 0.
func (s *Store[T]) Save(_ context.Context, aggregate T, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := aggregate.AggregateID()
	var stored int64
	if cur, ok := s.items[id]; ok {
		stored = cur.AggregateVersion()
	}
	if stored != expected {
		return fmt.Errorf("%w: %s %s is at version %d, expected %d", domain.ErrConflict, s.name, id, stored, expected)
	}
	s.items[id] = aggregate.Clone()
	return nil
}

// Exists reports whether id has been saved.
func (s *Store[T]) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[id]
	return ok, nil
}

// Delete removes id. A missing id is not an error.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// Len returns the number of stored aggregates.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
