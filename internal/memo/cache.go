package memo

import (
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Entries   int
	Evictions int64
	Capacity  int
}

// Cache is a thread-safe memoization table keyed by comparable composite keys.
// Values are stored as given; callers that hand out mutable values must copy
// on the way in and out.
type Cache[K comparable, V any] struct {
	capacity int
	bounded  *lru.Cache[K, V]

	mu      sync.RWMutex
	entries map[K]V

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache holding at most capacity entries. Zero means
// unbounded; negative capacities are rejected.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("memo: capacity %d must not be negative", capacity)
	}
	c := &Cache[K, V]{capacity: capacity}
	if capacity == 0 {
		c.entries = make(map[K]V)
		return c, nil
	}
	bounded, err := lru.NewWithEvict[K, V](capacity, func(K, V) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("memo: %w", err)
	}
	c.bounded = bounded
	return c, nil
}

// Get returns the stored value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var (
		value V
		ok    bool
	)
	if c.bounded != nil {
		value, ok = c.bounded.Get(key)
	} else {
		c.mu.RLock()
		value, ok = c.entries[key]
		c.mu.RUnlock()
	}
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Add stores value under key, replacing any previous value. Concurrent adds
// for the same key leave one of the values in place.
func (c *Cache[K, V]) Add(key K, value V) {
	if c.bounded != nil {
		c.bounded.Add(key, value)
		return
	}
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry. Counters are kept.
func (c *Cache[K, V]) Purge() {
	if c.bounded != nil {
		c.bounded.Purge()
		return
	}
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Entries:   c.Len(),
		Evictions: c.evictions.Load(),
		Capacity:  c.capacity,
	}
}
