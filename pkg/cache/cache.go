// Package cache stores registry responses between runs.
//
// Analyzing a NuGet package walks its dependency tree one nuspec at a
// time; caching those responses on disk makes repeated sessions start
// instantly and work offline once warmed.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, sharded by key hash
//   - [MemoryCache]: an LRU layered over another cache
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are built with [Key] so that namespaces never collide.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the cached value and true on a hit. Expired or corrupt
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
