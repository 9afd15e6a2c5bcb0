// Package memstore provides a concurrency-safe in-memory collection keyed by
// auto-incrementing integer ids. It backs the repositories when no SQL
// database is configured.
package memstore

import (
	"sort"
	"sync"
	"time"
)

// Store holds records of type T. Values are copied on the way in and out
// through the clone function so callers never share slices or maps with it.
type Store[T any] struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]T
	clone  func(T) T
	now    func() time.Time
}

// New creates an empty store. A nil clone copies values shallowly.
func New[T any](clone func(T) T) *Store[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Store[T]{
		items: make(map[int64]T),
		clone: clone,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the creation timestamp source
func (s *Store[T]) WithClock(now func() time.Time) *Store[T] {
	s.now = now
	return s
}

// Insert assigns the next id and creation time, builds the record and stores it
func (s *Store[T]) Insert(build func(id int64, createdAt time.Time) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	item := build(s.nextID, s.now())
	s.items[s.nextID] = s.clone(item)
	return s.clone(item)
}

// Get returns the record with id
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(item), true
}

// Update applies mutate to a copy of the record and stores the result
func (s *Store[T]) Update(id int64, mutate func(*T)) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	updated := s.clone(item)
	mutate(&updated)
	s.items[id] = s.clone(updated)
	return updated, true
}

// List returns every record ordered by id
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.clone(s.items[id]))
	}
	return out
}

// Len returns the number of records
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
