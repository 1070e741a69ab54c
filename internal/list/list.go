// Package list implements a doubly linked list whose nodes live in an arena
// owned by the list.
//
// Nodes are addressed by Handle values instead of pointers. A handle carries
// the identity of its list and the generation of the slot it names, so a
// handle to an erased node, a handle from another list, or the End marker is
// rejected with ErrInvalidHandle instead of silently reading recycled memory.
//
// A List is not safe for concurrent use.
package list

import (
	"errors"
	"iter"
	"sync/atomic"
)

var (
	ErrInvalidHandle = errors.New("list: invalid handle")
	ErrEmpty         = errors.New("list: container is empty")
)

const null int32 = -1

// listIDs hands out list identities; Handle.list == 0 never names a list.
var listIDs atomic.Uint64

// Handle names one node of one List. The zero Handle is the End marker: it
// stands for "one past the back" when walking forward and "one before the
// front" when walking backward.
type Handle struct {
	list uint64
	slot int32
	gen  uint32
}

// End returns the End marker.
func End() Handle { return Handle{} }

// IsEnd reports whether h is the End marker.
func (h Handle) IsEnd() bool { return h.gen == 0 }

type slot[T any] struct {
	value T
	prev  int32
	next  int32 // doubles as the free-chain link while the slot is dead
	gen   uint32
	live  bool
}

// List is a doubly linked list of T.
// The zero value is not valid, lists must be created using New.
type List[T any] struct {
	id    uint64
	slots []slot[T]
	free  int32
	head  int32
	tail  int32
	size  int
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{
		id:   listIDs.Add(1),
		free: null,
		head: null,
		tail: null,
	}
}

// Len returns the number of nodes in the list.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list has no nodes.
func (l *List[T]) Empty() bool { return l.size == 0 }

// PushFront inserts v at the head and returns its handle.
func (l *List[T]) PushFront(v T) Handle {
	i := l.alloc(v)
	if l.head == null {
		l.head, l.tail = i, i
	} else {
		l.slots[i].next = l.head
		l.slots[l.head].prev = i
		l.head = i
	}
	l.size++
	return l.handle(i)
}

// PushBack inserts v at the tail and returns its handle.
func (l *List[T]) PushBack(v T) Handle {
	i := l.alloc(v)
	if l.tail == null {
		l.head, l.tail = i, i
	} else {
		l.slots[i].prev = l.tail
		l.slots[l.tail].next = i
		l.tail = i
	}
	l.size++
	return l.handle(i)
}

// RemoveFront deletes the head node. It returns false on an empty list.
func (l *List[T]) RemoveFront() bool {
	if l.head == null {
		return false
	}
	l.unlink(l.head)
	return true
}

// RemoveBack deletes the tail node. It returns false on an empty list.
func (l *List[T]) RemoveBack() bool {
	if l.tail == null {
		return false
	}
	l.unlink(l.tail)
	return true
}

// Erase deletes the node named by h and returns the handle of the node that
// followed it (End if h was the tail).
func (l *List[T]) Erase(h Handle) (Handle, error) {
	i, ok := l.resolve(h)
	if !ok {
		return End(), ErrInvalidHandle
	}
	next := l.slots[i].next
	l.unlink(i)
	if next == null {
		return End(), nil
	}
	return l.handle(next), nil
}

// Value returns the payload of the node named by h.
func (l *List[T]) Value(h Handle) (T, error) {
	i, ok := l.resolve(h)
	if !ok {
		var zero T
		return zero, ErrInvalidHandle
	}
	return l.slots[i].value, nil
}

// Set overwrites the payload of the node named by h in place.
func (l *List[T]) Set(h Handle, v T) error {
	i, ok := l.resolve(h)
	if !ok {
		return ErrInvalidHandle
	}
	l.slots[i].value = v
	return nil
}

// Valid reports whether h names a live node of l.
func (l *List[T]) Valid(h Handle) bool {
	_, ok := l.resolve(h)
	return ok
}

// Front returns the head handle, or End on an empty list.
func (l *List[T]) Front() Handle {
	if l.head == null {
		return End()
	}
	return l.handle(l.head)
}

// Back returns the tail handle, or End on an empty list.
func (l *List[T]) Back() Handle {
	if l.tail == null {
		return End()
	}
	return l.handle(l.tail)
}

// Next returns the handle after h. Walking past the tail, or starting from
// an invalid handle, yields End.
func (l *List[T]) Next(h Handle) Handle {
	i, ok := l.resolve(h)
	if !ok || l.slots[i].next == null {
		return End()
	}
	return l.handle(l.slots[i].next)
}

// Prev returns the handle before h. Walking past the head, or starting from
// an invalid handle, yields End.
func (l *List[T]) Prev(h Handle) Handle {
	i, ok := l.resolve(h)
	if !ok || l.slots[i].prev == null {
		return End()
	}
	return l.handle(l.slots[i].prev)
}

// FrontValue returns the head payload.
func (l *List[T]) FrontValue() (T, error) {
	if l.head == null {
		var zero T
		return zero, ErrEmpty
	}
	return l.slots[l.head].value, nil
}

// BackValue returns the tail payload.
func (l *List[T]) BackValue() (T, error) {
	if l.tail == null {
		var zero T
		return zero, ErrEmpty
	}
	return l.slots[l.tail].value, nil
}

// Clear deletes every node, head first. Handles issued before Clear stay
// invalid afterwards even when their slots are reused.
func (l *List[T]) Clear() {
	for l.RemoveFront() {
	}
}

// Clone returns an independent list holding a copy of every payload in the
// same order. Handles of l are not valid in the clone.
func (l *List[T]) Clone() *List[T] {
	c := New[T]()
	for i := l.head; i != null; i = l.slots[i].next {
		c.PushBack(l.slots[i].value)
	}
	return c
}

// All yields payloads from head to tail. The list must not be mutated while
// the sequence is being consumed.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := l.head; i != null; i = l.slots[i].next {
			if !yield(l.slots[i].value) {
				return
			}
		}
	}
}

// Backward yields payloads from tail to head.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := l.tail; i != null; i = l.slots[i].prev {
			if !yield(l.slots[i].value) {
				return
			}
		}
	}
}

// Entries yields handle/payload pairs from head to tail.
func (l *List[T]) Entries() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for i := l.head; i != null; i = l.slots[i].next {
			if !yield(l.handle(i), l.slots[i].value) {
				return
			}
		}
	}
}

func (l *List[T]) handle(i int32) Handle {
	return Handle{list: l.id, slot: i, gen: l.slots[i].gen}
}

func (l *List[T]) resolve(h Handle) (int32, bool) {
	if h.gen == 0 || h.list != l.id {
		return null, false
	}
	if h.slot < 0 || int(h.slot) >= len(l.slots) {
		return null, false
	}
	s := &l.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return null, false
	}
	return h.slot, true
}

func (l *List[T]) alloc(v T) int32 {
	if l.free != null {
		i := l.free
		s := &l.slots[i]
		l.free = s.next
		s.value = v
		s.prev, s.next = null, null
		s.live = true
		return i
	}
	l.slots = append(l.slots, slot[T]{value: v, prev: null, next: null, gen: 1, live: true})
	return int32(len(l.slots) - 1)
}

// unlink detaches slot i, fixes the endpoints and returns the slot to the
// free chain.
func (l *List[T]) unlink(i int32) {
	s := &l.slots[i]
	if s.prev != null {
		l.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != null {
		l.slots[s.next].prev = s.prev
	} else {
		l.tail = s.prev
	}
	l.size--

	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.prev = null
	s.next = l.free
	l.free = i
}
