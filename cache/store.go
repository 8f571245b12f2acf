package cache

import (
	"sync"
	"sync/atomic"
)

// Store is a lazily populated, process-lifetime map from Key to V.
//
// Population is insert-if-absent: concurrent misses for the same key may each
// run populate, but only the first stored value is ever observed and it is
// never replaced until Flush. A failed populate stores nothing.
type Store[V any] struct {
	name    string
	entries sync.Map // Key -> V

	hits      atomic.Uint64
	misses    atomic.Uint64
	populates atomic.Uint64
	flushes   atomic.Uint64
}

// NewStore creates an empty store. name is used in stats only.
func NewStore[V any](name string) *Store[V] {
	return &Store[V]{name: name}
}

// Name returns the store name.
func (s *Store[V]) Name() string { return s.name }

// Get returns the value for key, calling populate on a miss.
func (s *Store[V]) Get(key Key, populate func() (V, error)) (V, error) {
	if v, ok := s.entries.Load(key); ok {
		s.hits.Add(1)
		return v.(V), nil
	}
	s.misses.Add(1)

	v, err := populate()
	if err != nil {
		var zero V
		return zero, err
	}
	s.populates.Add(1)

	actual, _ := s.entries.LoadOrStore(key, v)
	return actual.(V), nil
}

// GetMember is Get keyed by KeyOf(m).
func (s *Store[V]) GetMember(m Member, populate func() (V, error)) (V, error) {
	key, err := KeyOf(m)
	if err != nil {
		var zero V
		return zero, err
	}
	return s.Get(key, populate)
}

// Load returns the cached value without populating.
func (s *Store[V]) Load(key Key) (V, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Flush removes every entry.
func (s *Store[V]) Flush() {
	s.entries.Clear()
	s.flushes.Add(1)
}

// Len counts the current entries.
func (s *Store[V]) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// StoreStats is a point-in-time snapshot of store counters.
type StoreStats struct {
	Name      string
	Entries   int
	Hits      uint64
	Misses    uint64
	Populates uint64
	Flushes   uint64
}

// Stats returns a snapshot of the store counters.
func (s *Store[V]) Stats() StoreStats {
	return StoreStats{
		Name:      s.name,
		Entries:   s.Len(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Populates: s.populates.Load(),
		Flushes:   s.flushes.Load(),
	}
}
