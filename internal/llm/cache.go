package llm

import (
	"sync"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// cacheEntry represents a cached categorization.
type cacheEntry struct {
	expiry   time.Time
	category model.Category
}

// categoryCache provides thread-safe caching of model categorizations.
type categoryCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newCategoryCache creates a new cache with the specified TTL.
func newCategoryCache(ttl time.Duration) *categoryCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	cache := &categoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// get retrieves a category if it exists and hasn't expired.
func (c *categoryCache) get(key string) (model.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return "", false
	}

	return entry.category, true
}

// set stores a category in the cache.
func (c *categoryCache) set(key string, category model.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		category: category,
		expiry:   time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *categoryCache) cleanup() {
	interval := c.ttl
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *categoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *categoryCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
