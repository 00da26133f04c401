package curriculum

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a cached curriculum text stays valid.
	DefaultTTL = time.Hour
	// DefaultMaxEntries bounds the cache; the oldest entry is dropped on overflow.
	DefaultMaxEntries = 1024
)

// ComputeFunc produces the curriculum text on a cache miss.
type ComputeFunc func(ctx context.Context) (string, error)

type entry struct {
	text     string
	cachedAt time.Time
}

// Cache memoizes curriculum text per owner key with read-time TTL expiry.
//
// Concurrent misses for the same key each run their compute function and
// both write; the last write wins. The cache is best-effort and must never
// be the authoritative copy of the text.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewCache constructs a Cache. Non-positive ttl or maxEntries fall back to defaults.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached text for ownerKey if fresh, otherwise invokes
// compute, stores its result, and returns it.
func (c *Cache) Get(ctx context.Context, ownerKey string, compute ComputeFunc) (string, error) {
	now := c.now()

	c.mu.Lock()
	if e, ok := c.entries[ownerKey]; ok && now.Sub(e.cachedAt) < c.ttl {
		c.mu.Unlock()
		return e.text, nil
	}
	c.mu.Unlock()

	// Compute outside the lock so a slow fetch never blocks other keys.
	text, err := compute(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[ownerKey] = entry{text: text, cachedAt: c.now()}
	c.evictOverflow()
	c.mu.Unlock()

	return text, nil
}

// Invalidate removes the entry for ownerKey unconditionally.
func (c *Cache) Invalidate(ownerKey string) {
	c.mu.Lock()
	delete(c.entries, ownerKey)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOverflow drops oldest entries until the cap holds. Caller holds mu.
func (c *Cache) evictOverflow() {
	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.cachedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.cachedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}
