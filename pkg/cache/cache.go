// Package cache stores rendered diagram artifacts.
//
// Rendering through Graphviz is the only slow step in dotflow, and the same
// DOT text always renders to the same bytes. Artifacts are therefore keyed by
// a hash of the DOT source plus the output format (see [Keyer]), and stored
// in one of three backends:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Callers report hits and misses through package observability.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the data for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
