package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries is the LRU size used by the CLI.
const DefaultMemoryEntries = 1024

// MemoryCache keeps recently used entries in an in-process LRU in front of
// another cache. Reads that miss the LRU fall through to the backing cache
// and populate the LRU; writes go to both.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	next    Cache
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an LRU of size entries in front of next.
func NewMemoryCache(next Cache, size int) (*MemoryCache, error) {
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries, next: next}, nil
}

// Get returns the entry from memory, or from the backing cache on a miss.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if e, ok := c.entries.Get(key); ok {
		if e.expiresAt.IsZero() || time.Now().Before(e.expiresAt) {
			return e.data, true, nil
		}
		c.entries.Remove(key)
	}

	data, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	// Filled entries carry no expiry of their own.
	c.entries.Add(key, memoryEntry{data: data})
	return data, true, nil
}

// Set stores data in memory and in the backing cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Add(key, e)
	return c.next.Set(ctx, key, data, ttl)
}

// Delete removes key from memory and from the backing cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return c.next.Delete(ctx, key)
}

// Len returns the number of entries held in memory.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Close purges memory and closes the backing cache.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return c.next.Close()
}

var _ Cache = (*MemoryCache)(nil)
