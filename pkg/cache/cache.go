// Package cache provides pluggable byte caches for rendered artifacts and
// graph documents, plus the key derivation used by the pipeline.
package cache

import (
	"context"
	"time"
)

// TTLs for the two cacheable pipeline products. Graph documents key off the
// scene hash, so an edited scene never collides with a stale entry; the TTL
// only bounds disk growth. Artifacts are larger and cheaper to recompute.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface used by the pipeline and the HTTP shell.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// the error is reserved for storage failures. A ttl of zero means the entry
// never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
