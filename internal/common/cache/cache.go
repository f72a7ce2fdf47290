package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a thread-safe LRU cache that counts hits and misses
type Cache[V any] struct {
	lru    *lru.Cache[string, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a new cache with the given capacity. A non-positive capacity
// returns nil; every method on a nil cache is a miss.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		return nil, nil
	}
	l, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l}, nil
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set adds or updates a value in the cache
func (c *Cache[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	if c == nil {
		return
	}
	c.lru.Remove(key)
}

// Len returns the number of items in the cache
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Stats returns hit and miss counts
func (c *Cache[V]) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
