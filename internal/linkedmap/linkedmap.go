// Package linkedmap implements a hash map that remembers the order in which
// keys were last touched.
//
// A Map composes three structures: a hashtable.Table holding the entries, a
// list.List recording touch order (oldest at the front), and a second
// hashtable.Table indexing each key to its node in that list. The index only
// refers to nodes; the order list owns them. Inserting an existing key moves it
// to the back of the order list; Find never changes order.
//
// A Map is not safe for concurrent use.
package linkedmap

import (
	"errors"
	"fmt"
	"iter"

	"golru/internal/hashtable"
	"golru/internal/list"
)

var (
	ErrNotFound      = hashtable.ErrNotFound
	ErrInvalidHandle = errors.New("linkedmap: invalid iterator")
	ErrEmpty         = list.ErrEmpty
)

// Map is an order-preserving hash map.
type Map[K, V any] struct {
	table *hashtable.Table[K, V]
	order *list.List[hashtable.Entry[K, V]]
	index *hashtable.Table[K, list.Handle]
	hash  hashtable.Hasher[K]
	equal hashtable.Equaler[K]
}

// New returns an empty map using hash and equal for keys.
func New[K, V any](hash hashtable.Hasher[K], equal hashtable.Equaler[K]) *Map[K, V] {
	return &Map[K, V]{
		table: hashtable.New[K, V](hash, equal),
		order: list.New[hashtable.Entry[K, V]](),
		index: hashtable.New[K, list.Handle](hash, equal),
		hash:  hash,
		equal: equal,
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.order.Len() }

// Empty reports whether the map has no entries.
func (m *Map[K, V]) Empty() bool { return m.order.Empty() }

// Insert stores value under key and makes key the most recently touched.
// It returns an iterator at the entry and whether the key was new.
func (m *Map[K, V]) Insert(key K, value V) (Iterator[K, V], bool) {
	_, inserted := m.table.Insert(key, value)
	if !inserted {
		if old, ok := m.index.Get(key); ok {
			_, _ = m.order.Erase(old)
		}
	}
	h := m.order.PushBack(hashtable.Entry[K, V]{Key: key, Value: value})
	m.index.Insert(key, h)
	return Iterator[K, V]{m: m, h: h}, inserted
}

// Find returns an iterator at key, or End if key is absent. Order is left
// untouched.
func (m *Map[K, V]) Find(key K) Iterator[K, V] {
	h, ok := m.index.Get(key)
	if !ok {
		return m.End()
	}
	return Iterator[K, V]{m: m, h: h}
}

// Get returns the value stored for key without touching it.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.table.Get(key)
}

// At returns the value stored for key, or ErrNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	v, err := m.table.At(key)
	if err != nil {
		return v, fmt.Errorf("linkedmap: at: %w", err)
	}
	return v, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool { return m.table.Contains(key) }

// Count returns 1 if key is present and 0 otherwise.
func (m *Map[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// Remove deletes the entry at it. The iterator must come from this map and
// name a live entry.
func (m *Map[K, V]) Remove(it Iterator[K, V]) error {
	if it.m != m {
		return ErrInvalidHandle
	}
	e, err := m.order.Value(it.h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	m.table.Remove(e.Key)
	_, _ = m.order.Erase(it.h)
	m.index.Remove(e.Key)
	return nil
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	it := m.Find(key)
	if it.IsEnd() {
		return false
	}
	return m.Remove(it) == nil
}

// RemoveFront deletes the least recently touched entry and returns it.
func (m *Map[K, V]) RemoveFront() (hashtable.Entry[K, V], error) {
	e, err := m.order.FrontValue()
	if err != nil {
		return e, fmt.Errorf("linkedmap: remove front: %w", err)
	}
	if err := m.Remove(m.Front()); err != nil {
		return e, err
	}
	return e, nil
}

// Clear removes every entry. The underlying tables keep their bucket counts.
func (m *Map[K, V]) Clear() {
	m.table.Clear()
	m.order.Clear()
	m.index.Clear()
}

// Clone returns an independent copy built by re-inserting every entry in
// order. No nodes are shared with m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := New[K, V](m.hash, m.equal)
	for e := range m.order.All() {
		c.Insert(e.Key, e.Value)
	}
	return c
}

// Front returns an iterator at the least recently touched entry, or End.
func (m *Map[K, V]) Front() Iterator[K, V] {
	return Iterator[K, V]{m: m, h: m.order.Front()}
}

// Back returns an iterator at the most recently touched entry, or End.
func (m *Map[K, V]) Back() Iterator[K, V] {
	return Iterator[K, V]{m: m, h: m.order.Back()}
}

// End returns the end iterator of m.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{m: m, h: list.End()}
}

// All yields entries from least to most recently touched.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := range m.order.All() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns the keys from least to most recently touched.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.Len())
	for e := range m.order.All() {
		out = append(out, e.Key)
	}
	return out
}
