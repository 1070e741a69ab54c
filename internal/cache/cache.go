package cache

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"golru/internal/hashtable"
	"golru/internal/linkedmap"
)

// Config controls cache capacity and eviction hooks.
//
// Contract:
//   - Capacity must be > 0; there is no default and New rejects anything else
//   - OnEvict, when set, is called once per entry evicted by Save (not by Delete or Clear)
//   - Logger, when set, receives a debug record per eviction
type Config[K, V any] struct {
	Capacity int
	OnEvict  func(key K, value V)
	Logger   *slog.Logger
}

// Stats counts cache activity since construction.
type Stats struct {
	Hits      int64 `json:"hits" toml:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" toml:"misses" yaml:"misses"`
	Evictions int64 `json:"evictions" toml:"evictions" yaml:"evictions"`
}

// Cache is a fixed-capacity LRU cache.
//
// Recency lives in the order-preserving map: its front is the least recently
// touched entry and its back the most recent. Save and Get touch; Peek,
// Contains and iteration do not.
type Cache[K, V any] struct {
	capacity int
	memory   *linkedmap.Map[K, V]

	onEvict func(K, V)
	logger  *slog.Logger
	stats   Stats
}

var (
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrNotFound        = linkedmap.ErrNotFound
)

// New constructs an empty cache keyed with hash and equal.
func New[K, V any](cfg Config[K, V], hash hashtable.Hasher[K], equal hashtable.Equaler[K]) (*Cache[K, V], error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, cfg.Capacity)
	}
	return &Cache[K, V]{
		capacity: cfg.Capacity,
		memory:   linkedmap.New[K, V](hash, equal),
		onEvict:  cfg.OnEvict,
		logger:   cfg.Logger,
	}, nil
}

// NewString constructs a cache with string keys.
func NewString[V any](cfg Config[string, V]) (*Cache[string, V], error) {
	return New(cfg, hashtable.HashString, hashtable.Equal[string])
}

// NewInt constructs a cache with int keys.
func NewInt[V any](cfg Config[int, V]) (*Cache[int, V], error) {
	return New(cfg, hashtable.HashInt, hashtable.Equal[int])
}

// Save inserts or updates key.
//
// Updating an existing key moves it to the most recent position and never
// evicts. A new key that takes the cache over capacity evicts exactly one
// entry, the least recently touched; one Save can only grow the cache by one.
func (c *Cache[K, V]) Save(key K, value V) {
	if _, inserted := c.memory.Insert(key, value); !inserted {
		return
	}
	if c.memory.Len() > c.capacity {
		c.evictOldest()
	}
}

// Get returns the value for key and promotes key to most recently touched.
//
// A miss returns false and changes nothing besides the miss counter.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	it := c.memory.Find(key)
	if it.IsEnd() {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	e, err := it.Entry()
	if err != nil {
		// Find only hands out live iterators.
		c.stats.Misses++
		var zero V
		return zero, false
	}
	_ = c.memory.Remove(it)
	c.memory.Insert(e.Key, e.Value)
	c.stats.Hits++
	return e.Value, true
}

// Peek returns the value for key without promoting it.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	return c.memory.Get(key)
}

// At returns the value for key without promoting it, or ErrNotFound.
func (c *Cache[K, V]) At(key K) (V, error) {
	return c.memory.At(key)
}

// Contains reports whether key is resident, without promoting it.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.memory.Contains(key)
}

// Delete removes key if present.
func (c *Cache[K, V]) Delete(key K) bool {
	return c.memory.Delete(key)
}

// Oldest returns the entry that the next eviction would remove.
func (c *Cache[K, V]) Oldest() (K, V, bool) {
	e, err := c.memory.Front().Entry()
	if err != nil {
		return e.Key, e.Value, false
	}
	return e.Key, e.Value, true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.memory.Len() }

// Cap returns the fixed capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Stats returns a snapshot of the activity counters.
func (c *Cache[K, V]) Stats() Stats { return c.stats }

// Clear drops every entry. Counters are kept.
func (c *Cache[K, V]) Clear() { c.memory.Clear() }

// Keys returns resident keys from least to most recently touched.
func (c *Cache[K, V]) Keys() []K { return c.memory.Keys() }

// All yields resident entries from least to most recently touched.
func (c *Cache[K, V]) All() iter.Seq2[K, V] { return c.memory.All() }

func (c *Cache[K, V]) evictOldest() {
	e, err := c.memory.RemoveFront()
	if err != nil {
		return
	}
	c.stats.Evictions++
	if c.logger != nil {
		c.logger.Debug("evicted least recently used entry",
			slog.Any("key", e.Key),
			slog.Int("size", c.memory.Len()),
			slog.Int("capacity", c.capacity))
	}
	if c.onEvict != nil {
		c.onEvict(e.Key, e.Value)
	}
}
