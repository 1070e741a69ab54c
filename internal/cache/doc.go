// Package cache implements a fixed-capacity, single-process LRU cache.
//
// Goals for this package:
//   - Build every structure explicitly (arena list + chained hash table + order-preserving map)
//   - Provide O(1) amortized Save/Get/evict without Go maps or container/list
//   - Evict exactly the least recently touched entry, one per overflowing Save
//   - Keep lookups that do not promote (Peek, Contains) free of side effects
//
// The cache is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package cache
