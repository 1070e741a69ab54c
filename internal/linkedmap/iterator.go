package linkedmap

import (
	"fmt"

	"golru/internal/hashtable"
	"golru/internal/list"
)

// Iterator points at one entry of a Map, or at its end. Iterators compare
// equal with == when they point at the same entry of the same map.
type Iterator[K, V any] struct {
	m *Map[K, V]
	h list.Handle
}

// IsEnd reports whether it is the end iterator.
func (it Iterator[K, V]) IsEnd() bool { return it.h.IsEnd() }

// Valid reports whether it points at a live entry.
func (it Iterator[K, V]) Valid() bool {
	return it.m != nil && it.m.order.Valid(it.h)
}

// Entry returns the key/value pair at it. The end iterator and iterators whose
// entry has been removed or relocated yield ErrInvalidHandle.
func (it Iterator[K, V]) Entry() (hashtable.Entry[K, V], error) {
	if it.m == nil {
		return hashtable.Entry[K, V]{}, ErrInvalidHandle
	}
	e, err := it.m.order.Value(it.h)
	if err != nil {
		return e, fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	return e, nil
}

// Key returns the key at it.
func (it Iterator[K, V]) Key() (K, error) {
	e, err := it.Entry()
	return e.Key, err
}

// Value returns the value at it.
func (it Iterator[K, V]) Value() (V, error) {
	e, err := it.Entry()
	return e.Value, err
}

// Next moves towards the most recently touched entry. Stepping past the back
// yields End, and End stays End.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	if it.m == nil {
		return it
	}
	return Iterator[K, V]{m: it.m, h: it.m.order.Next(it.h)}
}

// Prev moves towards the least recently touched entry. Prev of End is the
// back entry; stepping past the front yields End.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	if it.m == nil {
		return it
	}
	if it.IsEnd() {
		return it.m.Back()
	}
	return Iterator[K, V]{m: it.m, h: it.m.order.Prev(it.h)}
}
