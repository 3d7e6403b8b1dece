package data

import (
	"os"
	"sync"
	"time"
)

// tableEntry is one cached reference table.
type tableEntry struct {
	table     *VMHTable
	expiresAt time.Time
}

// TableCache keeps loaded VMH reference tables in memory keyed by path. The
// table is tens of thousands of rows and immutable between runs, so the API
// server reuses a single parse across requests. A nil *TableCache is a
// valid no-op cache.
type TableCache struct {
	mu    sync.RWMutex
	store map[string]*tableEntry
	ttl   time.Duration
}

var globalTableCache *TableCache
var tableCacheOnce sync.Once

// VMHCache returns the process-wide reference table cache. Disabled (nil)
// when ZLAB_DISABLE_VMH_CACHE=true. TTL defaults to one hour and can be
// overridden with ZLAB_VMH_CACHE_TTL (a Go duration string).
func VMHCache() *TableCache {
	if os.Getenv("ZLAB_DISABLE_VMH_CACHE") == "true" {
		return nil
	}
	tableCacheOnce.Do(func() {
		ttl := time.Hour
		if raw := os.Getenv("ZLAB_VMH_CACHE_TTL"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				ttl = parsed
			}
		}
		globalTableCache = &TableCache{
			store: make(map[string]*tableEntry),
			ttl:   ttl,
		}
		go globalTableCache.cleanup()
	})
	return globalTableCache
}

// Load returns the cached table for path, loading and caching it on a miss.
// Works on a nil cache by loading directly.
func (c *TableCache) Load(path string) (*VMHTable, error) {
	if t, ok := c.get(path); ok {
		return t, nil
	}
	t, err := LoadVMHTable(path)
	if err != nil {
		return nil, err
	}
	c.set(path, t)
	return t, nil
}

func (c *TableCache) get(path string) (*VMHTable, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.store[path]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.table, true
}

func (c *TableCache) set(path string, t *VMHTable) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[path] = &tableEntry{table: t, expiresAt: time.Now().Add(c.ttl)}
}

// Clear removes all cached tables.
func (c *TableCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*tableEntry)
}

func (c *TableCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for path, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, path)
			}
		}
		c.mu.Unlock()
	}
}
