package snapshot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader loads a full snapshot.
type Loader[E any] func(ctx context.Context) ([]E, error)

// entry holds one cached snapshot.
type entry[E any] struct {
	// entities is the loaded snapshot. Callers must treat it as read-only.
	entities []E

	// built is the timestamp when this entry was loaded.
	built time.Time
}

// Cache keeps loaded snapshots for a TTL. Concurrent misses for the same key share
// one load.
type Cache[E any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*entry[E]
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates a cache. A zero TTL disables caching; every Get loads.
func NewCache[E any](ttl time.Duration) *Cache[E] {
	return &Cache[E]{
		ttl:     ttl,
		entries: make(map[string]*entry[E]),
		now:     time.Now,
	}
}

func (c *Cache[E]) expired(e *entry[E]) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return c.now().Sub(e.built) > c.ttl
}

// Get returns the snapshot stored under key, or loads it if missing or expired.
// Uses singleflight to prevent cache stampedes.
func (c *Cache[E]) Get(ctx context.Context, key string, load Loader[E]) ([]E, error) {
	// Fast path: check if entry exists and is fresh
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !c.expired(e) {
		return e.entities, nil
	}

	// Slow path: load using singleflight to prevent stampedes. The shared load runs
	// detached from the first caller's cancellation; each caller stops waiting when
	// its own ctx is done.
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		e, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !c.expired(e) {
			return e.entities, nil
		}

		entities, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = &entry[E]{entities: entities, built: c.now()}
			c.mu.Unlock()
		}

		return entities, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]E), nil
	}
}

// Invalidate removes the entry for key. Stores call it after applying a result so
// the next reconciliation reads fresh data.
func (c *Cache[E]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
