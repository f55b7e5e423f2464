// Package cache provides the storage layer behind the generation pipeline.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several machines rendering
//     from the same tile library
//   - [NullCache]: stores nothing; used for --no-cache
//
// # Keys
//
// Keys are built by a [Keyer]. Normalized tiles are keyed by the hash of
// their source markup and the tile size. Rendered artifacts are keyed by the
// hash of the eligible tile set plus every parameter that affects the output,
// including the seed. A run without a fixed seed is never cached.
//
// Cache failures are never fatal: callers treat read errors as misses and
// ignore write errors.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by every backend.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live per entry type.
const (
	// TTLTile applies to normalized tiles. Normalization is a pure function
	// of content and size, so entries only expire to bound disk usage.
	TTLTile = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG, JSON and PDF documents.
	TTLArtifact = 7 * 24 * time.Hour
)
