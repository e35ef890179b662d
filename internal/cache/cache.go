// Package cache is a process-wide query cache with an explicit
// invalidation protocol: readers fetch through a fingerprint key, and
// every mutation declares which keys it invalidates. Stale entries are
// re-fetched on next access.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	fetchedAt time.Time
	stale     bool
}

// QueryCache maps query fingerprints to their last-fetched result plus a
// staleness flag. Lifecycle is the application session; there is one cache
// per process.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	maxAge  time.Duration
}

// New creates a QueryCache. Entries older than maxAge are treated as stale
// even without an explicit invalidation; maxAge <= 0 disables the age check.
func New(maxAge time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]*entry),
		maxAge:  maxAge,
	}
}

// GetOrFetch returns the cached value for key, calling fetch only when the
// entry is missing or stale. A fetch error leaves any previous entry
// untouched so readers degrade to the last known result on the next call.
func (c *QueryCache) GetOrFetch(key string, fetch func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && !e.stale && (c.maxAge <= 0 || time.Since(e.fetchedAt) < c.maxAge) {
		v := e.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()
	return value, nil
}

// Invalidate marks the given keys stale. Missing keys are ignored.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.stale = true
		}
	}
}

// InvalidatePrefix marks every key with the given prefix stale. Useful for
// mutations that affect a whole family of list queries.
func (c *QueryCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			e.stale = true
		}
	}
}

// Peek reports whether a fresh entry exists for key without fetching.
func (c *QueryCache) Peek(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.stale || (c.maxAge > 0 && time.Since(e.fetchedAt) >= c.maxAge) {
		return nil, false
	}
	return e.value, true
}
