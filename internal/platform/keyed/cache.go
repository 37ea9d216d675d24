// Package keyed implements a process-wide cache for dependency-keyed reads.
// Entries are reused inside a staleness window and invalidated per exact key,
// never wholesale: over-invalidation is wasteful, under-invalidation shows
// stale options to the user.
package keyed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache stores fetched values per composite key with a TTL. Concurrent
// readers of the same key share a single in-flight fetch.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	group   singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// New constructs a cache with the given staleness window.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key when fresh, otherwise runs
// fetch and stores its result. A failed fetch caches nothing.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	c.mu.RLock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.RUnlock()
		return e.value, nil
	}
	c.mu.RUnlock()

	result := c.group.DoChan(key, func() (any, error) {
		// The fetch is detached from the initiating caller: its cancellation
		// must not fail joiners whose own contexts are still alive.
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return value, err
		}
		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, fetchedAt: c.now()}
		c.mu.Unlock()
		return value, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Invalidate drops exactly one key. Unrelated keys keep their entries.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Peek reports whether a fresh entry exists for key without fetching.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// SetClock overrides the time source. Test helper.
func (c *Cache[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
