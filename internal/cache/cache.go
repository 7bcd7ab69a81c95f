// Package cache holds analyzed candidate sets in memory so a rescore can
// reuse fetched routes and sentiment without hitting external providers.
package cache

import (
	"sync"
	"time"

	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// Entry is everything cached for one origin-destination pair. Sentiments
// are keyed by corridor key so routes sharing a corridor share one summary.
type Entry struct {
	Set        *route.CandidateSet
	Sentiments map[string]sentiment.Summary
	Weights    scoring.PriorityWeights
	Result     *scoring.Result
	StoredAt   time.Time
}

// RouteCache is a thread-safe LRU cache of analyzed od-pairs with a TTL.
// Keys must be unordered od-pair slugs so A->B and B->A share an entry.
type RouteCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*Entry
	order   []string // oldest first

	now func() time.Time
}

// NewRouteCache creates a cache with the given maximum number of entries
// and entry lifetime. If maxSize <= 0, it defaults to 50. If ttl <= 0,
// entries never expire.
func NewRouteCache(maxSize int, ttl time.Duration) *RouteCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &RouteCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get retrieves the cached entry for an od-pair, or nil if absent or
// expired. Expired entries are dropped on access.
func (c *RouteCache) Get(key string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.ttl > 0 && c.now().Sub(entry.StoredAt) > c.ttl {
		c.remove(key)
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return entry
}

// Put stores an entry for an od-pair, evicting the oldest if full.
func (c *RouteCache) Put(key string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.StoredAt = c.now()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops the entry for an od-pair if present.
func (c *RouteCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len reports the number of live entries.
func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RouteCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *RouteCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
