// Package cache provides a byte-oriented cache with TTL expiry, used by
// the cached metadata provider. Three backends ship: file (single-user
// CLI runs), redis (shared deployments), and null (caching disabled).
// Keys are opaque strings; values are whatever the caller marshals.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TTLMetadata is the default lifetime for cached product metadata.
// Reference data changes rarely; an hour keeps repeated CLI runs cheap
// without letting stale dimensions linger for days.
const TTLMetadata = time.Hour

// Cache is the storage interface. Get reports a miss with hit=false and
// a nil error; errors are reserved for backend failures. Set with a
// zero TTL stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash returns the hex SHA-256 of data, used to derive stable cache
// keys and file names from arbitrary key strings.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
