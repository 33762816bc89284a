package idempotency

import (
	"sync"
	"time"
)

// Cache maps idempotency keys to response snapshots. Entries expire ttl after
// they are written; expired entries are evicted lazily on read. The cache
// owns its snapshots independently of any other store.
//
// Concurrent first writers on the same unseen key are not serialized: both
// may process and the last Set wins. Every later Get replays that winner.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock injects the clock used for expiry, so tests can move time
// deterministically.
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the snapshot stored under key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another caller may have refreshed
		// the key since we released the read lock.
		if current, ok := c.entries[key]; ok && !c.now().Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return zero, false
	}

	return e.value, true
}

// Set stores value under key until now + ttl, overwriting any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}
