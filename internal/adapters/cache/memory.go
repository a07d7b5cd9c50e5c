package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// sweepInterval is the minimum time between scans for expired entries
const sweepInterval = time.Minute

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache is an in-process ReadCache. Expired entries are dropped when read
// and swept from the whole map on Set at most once per sweepInterval.
type MemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get decodes a live entry into dest
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		// a Set may have replaced the entry since the read lock was released
		if current, ok := c.entries[key]; ok && current.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores value for ttl; a zero ttl never expires
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache entry %s: %w", key, err)
	}

	now := c.now()
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweep(now)
	}
	c.entries[key] = entry
	return nil
}

// sweep drops every expired entry; the caller holds the write lock
func (c *MemoryCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

// Len returns the number of stored entries, live or not yet swept
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Delete removes an entry
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

var _ usecase.ReadCache = (*MemoryCache)(nil)
