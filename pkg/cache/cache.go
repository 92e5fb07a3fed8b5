// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a plain byte store with per-entry expiry. Three backends are
// provided:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared entries for server deployments
//   - [NewNullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer], which hashes chart content together with the
// options that affect the cached value. Identical input always yields the
// same key, so a repeated render is a single lookup.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// LayoutTTL is how long computed layouts are kept. Layouts are pure
	// functions of their input, so this only bounds disk and memory use.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long rendered SVG, PNG and PDF output is kept.
	ArtifactTTL = 24 * time.Hour
)

// Cache is a key-value store with expiry.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry
	// is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
