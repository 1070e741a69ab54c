// Package hashtable implements a separate-chaining hash table whose buckets
// are list.List values. The table doubles its bucket count whenever an insert
// would bring the load factor to LoadFactorThreshold, and never shrinks.
//
// Hashing and key equality are supplied by the caller. A Table is not safe for
// concurrent use.
package hashtable

import (
	"errors"
	"fmt"
	"iter"

	"golru/internal/list"
)

const (
	// InitialBuckets is the bucket count of a new table.
	InitialBuckets = 16
	// LoadFactorThreshold is the size/bucket ratio that triggers a resize.
	LoadFactorThreshold = 0.5
)

var (
	ErrNotFound      = errors.New("hashtable: key not found")
	ErrInvalidHandle = errors.New("hashtable: invalid position")
)

// Hasher maps a key to a 64-bit hash.
type Hasher[K any] func(K) uint64

// Equaler reports whether two keys are the same key.
type Equaler[K any] func(a, b K) bool

// Entry is one key/value pair stored in a bucket.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Pos names an entry inside a table. Positions are invalidated by the
// removal of their entry and by any resize.
type Pos struct {
	bucket int
	h      list.Handle
}

// Table is a hash table from K to V.
type Table[K, V any] struct {
	buckets []*list.List[Entry[K, V]]
	size    int
	hash    Hasher[K]
	equal   Equaler[K]
}

// New returns an empty table with InitialBuckets buckets. It panics if hash
// or equal is nil.
func New[K, V any](hash Hasher[K], equal Equaler[K]) *Table[K, V] {
	if hash == nil || equal == nil {
		panic("hashtable: nil hash or equality function")
	}
	return &Table[K, V]{
		buckets: newBuckets[K, V](InitialBuckets),
		hash:    hash,
		equal:   equal,
	}
}

func newBuckets[K, V any](n int) []*list.List[Entry[K, V]] {
	b := make([]*list.List[Entry[K, V]], n)
	for i := range b {
		b[i] = list.New[Entry[K, V]]()
	}
	return b
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return t.size }

// Empty reports whether the table holds no entries.
func (t *Table[K, V]) Empty() bool { return t.size == 0 }

// BucketCount returns the current number of buckets.
func (t *Table[K, V]) BucketCount() int { return len(t.buckets) }

// LoadFactor returns size divided by bucket count.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.size) / float64(len(t.buckets))
}

// Find locates key. The returned Pos is only meaningful when ok is true.
func (t *Table[K, V]) Find(key K) (pos Pos, ok bool) {
	b := t.bucketOf(key)
	h, ok := t.scan(b, key)
	if !ok {
		return Pos{}, false
	}
	return Pos{bucket: b, h: h}, true
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Get returns the value stored for key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	b := t.bucketOf(key)
	for _, e := range t.buckets[b].Entries() {
		if t.equal(e.Key, key) {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// At returns the value stored for key, or ErrNotFound.
func (t *Table[K, V]) At(key K) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}

// Entry returns the entry at pos.
func (t *Table[K, V]) Entry(pos Pos) (Entry[K, V], error) {
	if pos.bucket < 0 || pos.bucket >= len(t.buckets) {
		return Entry[K, V]{}, ErrInvalidHandle
	}
	e, err := t.buckets[pos.bucket].Value(pos.h)
	if err != nil {
		return Entry[K, V]{}, fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	return e, nil
}

// Insert stores value under key. An existing entry has its value overwritten
// in place and inserted is false. A new entry goes to the head of its bucket,
// after the table has doubled if the load factor would otherwise reach
// LoadFactorThreshold.
func (t *Table[K, V]) Insert(key K, value V) (pos Pos, inserted bool) {
	b := t.bucketOf(key)
	if h, ok := t.scan(b, key); ok {
		e, _ := t.buckets[b].Value(h)
		e.Value = value
		_ = t.buckets[b].Set(h, e)
		return Pos{bucket: b, h: h}, false
	}

	if float64(t.size+1)/float64(len(t.buckets)) >= LoadFactorThreshold {
		t.grow()
		b = t.bucketOf(key)
	}
	h := t.buckets[b].PushFront(Entry[K, V]{Key: key, Value: value})
	t.size++
	return Pos{bucket: b, h: h}, true
}

// Remove deletes key and reports whether it was present.
func (t *Table[K, V]) Remove(key K) bool {
	b := t.bucketOf(key)
	h, ok := t.scan(b, key)
	if !ok {
		return false
	}
	if _, err := t.buckets[b].Erase(h); err != nil {
		return false
	}
	t.size--
	return true
}

// Clear empties every bucket. The bucket count is left unchanged.
func (t *Table[K, V]) Clear() {
	for _, b := range t.buckets {
		b.Clear()
	}
	t.size = 0
}

// Clone returns an independent copy with the same bucket count and layout.
func (t *Table[K, V]) Clone() *Table[K, V] {
	c := &Table[K, V]{
		buckets: make([]*list.List[Entry[K, V]], len(t.buckets)),
		size:    t.size,
		hash:    t.hash,
		equal:   t.equal,
	}
	for i, b := range t.buckets {
		c.buckets[i] = b.Clone()
	}
	return c
}

// All yields every entry in bucket order. The order carries no meaning.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, b := range t.buckets {
			for e := range b.All() {
				if !yield(e.Key, e.Value) {
					return
				}
			}
		}
	}
}

func (t *Table[K, V]) bucketOf(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

func (t *Table[K, V]) scan(b int, key K) (list.Handle, bool) {
	for h, e := range t.buckets[b].Entries() {
		if t.equal(e.Key, key) {
			return h, true
		}
	}
	return list.End(), false
}

// grow doubles the bucket count and re-homes every entry.
func (t *Table[K, V]) grow() {
	old := t.buckets
	t.buckets = newBuckets[K, V](2 * len(old))
	for _, b := range old {
		for e := range b.All() {
			t.buckets[t.bucketOf(e.Key)].PushFront(e)
		}
	}
}
