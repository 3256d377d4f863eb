// Package memo provides a bounded, concurrency-safe get-or-compute cache.
//
// Concurrent callers asking for the same missing key share one computation.
// Errors are returned to every waiting caller but never stored. Once the
// cache is full the oldest entry is evicted first; entries do not expire.
package memo

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries bounds a cache built with a non-positive size.
const DefaultMaxEntries = 2048

// Cache memoizes values of type V by string key.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]V
	order      []string
	maxEntries int
	group      singleflight.Group
}

// New constructs a Cache holding at most maxEntries values.
func New[V any](maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		entries:    make(map[string]V),
		maxEntries: maxEntries,
	}
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key, evicting the oldest entry when full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = value
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrCompute returns the cached value for key, or runs compute once for
// all concurrent callers and caches its result when it succeeds. The bool
// reports whether the value came from the cache.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	v, ok := res.(V)
	if !ok {
		var zero V
		return zero, false, fmt.Errorf("memo: unexpected value type %T", res)
	}
	return v, false, nil
}
