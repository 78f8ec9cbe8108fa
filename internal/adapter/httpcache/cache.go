// Package httpcache provides a TTL-bounded in-memory cache for upstream
// HTTP response bodies, keyed by request URL. A single instance is shared
// by all provider clients so identical requests inside the TTL window hit
// the network only once.
package httpcache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	body    []byte
	expires time.Time
}

// Cache is a thread-safe TTL cache. Expired entries are dropped lazily on
// lookup and swept on insert; there is no background eviction goroutine.
type Cache struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, clockwork.NewRealClock())
}

// NewWithClock creates a cache with an injected clock for tests.
func NewWithClock(ttl time.Duration, clock clockwork.Clock) *Cache {
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the cached body for key, or false if absent or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Put stores body under key and sweeps any entries that have expired.
func (c *Cache) Put(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{body: body, expires: now.Add(c.ttl)}
}

// Len reports the number of live entries, expired or not yet swept included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
