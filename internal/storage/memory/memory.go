// Package memory is an in-process record store for development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"spese/internal/core"
)

// Store keeps records per owner behind a mutex. IDs are assigned from a
// single sequence shared by all owners.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64][]core.Record
}

func New() *Store {
	return &Store{items: make(map[int64][]core.Record)}
}

// ListForOwner returns a copy of the owner's records ordered by date then ID.
func (s *Store) ListForOwner(_ context.Context, ownerID int64) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slices.Clone(s.items[ownerID])
	slices.SortStableFunc(out, func(a, b core.Record) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.IDValue(), b.IDValue())
	})
	return out, nil
}

// Save stores a copy of r under a fresh ID.
func (s *Store) Save(_ context.Context, r core.Record, ownerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = core.NewID(s.nextID)
	r.OwnerID = ownerID
	s.items[ownerID] = append(s.items[ownerID], r)
	return s.nextID, nil
}

func (s *Store) Update(_ context.Context, r core.Record, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(r, ownerID)
	if i < 0 {
		return false, nil
	}
	r.ID = core.NewID(r.IDValue())
	r.OwnerID = ownerID
	s.items[ownerID][i] = r
	return true, nil
}

func (s *Store) Delete(_ context.Context, r core.Record, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(r, ownerID)
	if i < 0 {
		return false, nil
	}
	s.items[ownerID] = slices.Delete(s.items[ownerID], i, i+1)
	return true, nil
}

func (s *Store) ClearAll(_ context.Context, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, ownerID)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op so the store can stand in for closable backends.
func (s *Store) Close() error { return nil }

func (s *Store) indexOf(r core.Record, ownerID int64) int {
	if !r.HasID() {
		return -1
	}
	return slices.IndexFunc(s.items[ownerID], func(item core.Record) bool {
		return item.IDValue() == r.IDValue()
	})
}
