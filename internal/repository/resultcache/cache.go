// Package resultcache holds computed search result sets for a bounded time.
//
// The cache is an explicit component: constructed once in the composition
// root and handed to the search service, never a package-level singleton.
package resultcache

import (
	"sync"
	"time"

	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// Defaults for cache construction.
const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
	// hardExpiryFactor controls when the sweeper removes an entry outright:
	// entries older than hardExpiryFactor x their TTL are dropped regardless
	// of access.
	hardExpiryFactor = 3
)

type entry struct {
	results   []result.Scored
	createdAt time.Time
	ttl       time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.createdAt.Add(e.ttl))
}

func (e *entry) stale(now time.Time) bool {
	return now.After(e.createdAt.Add(hardExpiryFactor * e.ttl))
}

// Stats is a read-only snapshot of cache accounting.
type Stats struct {
	Entries int
	Hits    int64
}

// Cache is a concurrency-safe TTL store of result sets.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	hits    int64

	done    chan struct{}
	stopped sync.Once
}

// New creates a cache and starts its background sweeper. Call Close to stop it.
func New(sweepInterval time.Duration) *Cache {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	c := &Cache{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
	}
	go c.sweeper(sweepInterval)
	return c
}

// Get returns the cached result set for key, expiring lazily.
func (c *Cache) Get(key string) ([]result.Scored, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(now) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if cur, ok := c.entries[key]; ok && cur.expired(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.results, true
}

// Set stores a result set under key with the given TTL.
func (c *Cache) Set(key string, results []result.Scored, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.entries[key] = &entry{results: results, createdAt: time.Now(), ttl: ttl}
	c.mu.Unlock()
}

// Stats returns the current entry count and cumulative hit count.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits}
}

// Close stops the background sweeper. Safe to call more than once.
func (c *Cache) Close() {
	c.stopped.Do(func() { close(c.done) })
}

func (c *Cache) sweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep removes entries past their hard expiry. The lock is held only for
// the map walk, which is bounded by the entry count.
func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.stale(now) {
			delete(c.entries, k)
		}
	}
}
