// Package store provides the append-only keyed record store the
// traceability ledgers are built on: insert-if-absent writes, ordered key
// enumeration and per-group key lists. Nothing is ever updated or deleted.
package store

import (
	"errors"
	"sync"
)

// ErrIndexOutOfBounds is returned by KeyAt when the index exceeds Count.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

// Store is a thread-safe append-only map from uint64 keys to records of
// type V. Keys enumerate in insertion order.
type Store[V any] struct {
	mutex  sync.RWMutex
	values map[uint64]V
	keys   []uint64

	groups      map[string][]uint64
	groupMember map[string]map[uint64]bool
}

// New creates an empty store.
func New[V any]() *Store[V] {
	return &Store[V]{
		values:      make(map[uint64]V),
		groups:      make(map[string][]uint64),
		groupMember: make(map[string]map[uint64]bool),
	}
}

// InsertIfAbsent stores the value under key unless the key already exists.
// Returns false, leaving the store unchanged, on a duplicate key.
func (s *Store[V]) InsertIfAbsent(key uint64, value V) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.values[key]; ok {
		return false
	}
	s.values[key] = value
	s.keys = append(s.keys, key)
	return true
}

// Get returns the value for the key and whether it exists.
func (s *Store[V]) Get(key uint64) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

// Exists reports whether the key has been inserted.
func (s *Store[V]) Exists(key uint64) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.values[key]
	return ok
}

// Count returns the number of stored records.
func (s *Store[V]) Count() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return uint64(len(s.keys))
}

// KeyAt returns the key at the given insertion-order index.
func (s *Store[V]) KeyAt(index uint64) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if index >= uint64(len(s.keys)) {
		return 0, ErrIndexOutOfBounds
	}
	return s.keys[index], nil
}

// AppendToGroup appends the key to a group's list unless it is already a
// member. Group lists keep insertion order and are never reordered.
func (s *Store[V]) AppendToGroup(group string, key uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	members, ok := s.groupMember[group]
	if !ok {
		members = make(map[uint64]bool)
		s.groupMember[group] = members
	}
	if members[key] {
		return
	}
	members[key] = true
	s.groups[group] = append(s.groups[group], key)
}

// ListByGroup returns a copy of the group's keys in insertion order.
func (s *Store[V]) ListByGroup(group string) []uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := s.groups[group]
	out := make([]uint64, len(keys))
	copy(out, keys)
	return out
}
