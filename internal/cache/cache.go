// Package cache provides a small mutex-guarded key/value cache with a
// capacity bound and optional per-entry TTL. It is an injected service
// with an explicit lifecycle, created once at process start.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      interface{}
	insertedAt time.Time
	expiresAt  time.Time // zero means no TTL
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	Size      int
	Capacity  int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Cache is a size-bounded TTL cache. When full, the least-recently-
// inserted entry is evicted. All operations serialize under one lock.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	insertions []string // insertion order, oldest first
	capacity   int
	defaultTTL time.Duration

	hits      int64
	misses    int64
	evictions int64
}

// New creates a cache with the given capacity and default TTL. A zero or
// negative TTL disables expiry; capacity must be at least 1.
func New(capacity int, defaultTTL time.Duration) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		entries:    make(map[string]entry, capacity),
		insertions: make([]string, 0, capacity),
		capacity:   capacity,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key. Expired entries count as misses
// and are removed.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.removeLocked(key)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.value, true
}

// Set stores a value under key with the default TTL, evicting the oldest
// insertion if the cache is full.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores a value with an explicit TTL; ttl <= 0 means no expiry.
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.removeLocked(key)
	}

	for len(c.entries) >= c.capacity && len(c.insertions) > 0 {
		oldest := c.insertions[0]
		c.removeLocked(oldest)
		c.evictions++
	}

	e := entry{value: value, insertedAt: time.Now()}
	if ttl > 0 {
		e.expiresAt = e.insertedAt.Add(ttl)
	}
	c.entries[key] = e
	c.insertions = append(c.insertions, key)
}

// Evict removes a key. Returns true if it was present.
func (c *Cache) Evict(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.removeLocked(key)
	return true
}

// Clear empties the cache, keeping the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry, c.capacity)
	c.insertions = c.insertions[:0]
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:      len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.insertions {
		if k == key {
			c.insertions = append(c.insertions[:i], c.insertions[i+1:]...)
			break
		}
	}
}
