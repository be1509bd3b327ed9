package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/idregistry/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keyed by
// whatever keySelector extracts from a value. When a clone function is set,
// values are copied on the way in and out so callers never share state with
// the store.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	clone       func(*T) *T
}

// NewMemoryStore creates a new MemoryStore. clone may be nil.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, clone func(*T) *T) *MemoryStore[K, T] {
	if clone == nil {
		clone = func(v *T) *T { return v }
	}
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
		clone:       clone,
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v", dao.ErrNotFound, key)
	}
	return s.clone(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return fmt.Errorf("%w: %v", dao.ErrNotFound, key)
	}
	delete(s.records, key)
	return nil
}

// List returns all stored records ordered by key.
func (s *MemoryStore[K, T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.clone(s.records[k]))
	}
	return out, nil
}
