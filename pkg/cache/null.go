package cache

import (
	"context"
	"time"
)

// NullCache never stores anything: every Get is a miss and every Set is
// accepted and dropped. Used when caching is disabled and in tests.
type NullCache struct{}

// NewNullCache returns a null cache.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (*NullCache) Delete(ctx context.Context, key string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
