package feedback

import (
	"sync"
	"time"
)

// Cache holds derived bias adjustments per collection for a fixed TTL. It
// is an explicit, caller-owned object: the server constructs one and passes
// it to the Service, so tests can use their own instance and nothing lives
// as process-wide ambient state.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	adjustments BiasAdjustments
	expiresAt   time.Time
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached adjustments for a collection, if present and fresh.
func (c *Cache) Get(collectionID string) (BiasAdjustments, bool) {
	c.mu.RLock()
	entry, ok := c.entries[collectionID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return BiasAdjustments{}, false
	}
	return entry.adjustments, true
}

// Set stores adjustments for a collection.
func (c *Cache) Set(collectionID string, adjustments BiasAdjustments) {
	c.mu.Lock()
	c.entries[collectionID] = cacheEntry{
		adjustments: adjustments,
		expiresAt:   time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops the entry for a collection, forcing the next read to
// re-derive from stored decisions.
func (c *Cache) Invalidate(collectionID string) {
	c.mu.Lock()
	delete(c.entries, collectionID)
	c.mu.Unlock()
}
