// internal/catalog/cache.go
package catalog

import (
	"context"
	"sync"
)

// Cache memoizes dataset loads per key. Concurrent callers of an uncached
// key share a single underlying fetch; a failed fetch is evicted so the next
// call retries instead of replaying the cached failure. The cache is an
// explicit value with an injectable lifecycle so tests can construct a fresh
// or pre-populated one.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{} // closed when value/err are set
	value interface{}
	err   error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Do returns the memoized value for key, running fetch at most once per
// cached lifetime. Waiters respect ctx cancellation without cancelling the
// in-flight fetch for other callers.
func (c *Cache) Do(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
			return e.value, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e := &cacheEntry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.value, e.err = fetch(ctx)
	if e.err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	close(e.ready)

	return e.value, e.err
}

// Clear drops one key; the next Do reloads it.
func (c *Cache) Clear(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Reset drops every cached dataset.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}
