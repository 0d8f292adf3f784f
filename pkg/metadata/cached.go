package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shelfwise/planogram/pkg/cache"
	"github.com/shelfwise/planogram/pkg/observability"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// Cached decorates a Provider with a byte cache. Hits skip the inner
// provider entirely; misses pass through and populate the cache with
// the configured TTL. Absent SKUs are not negatively cached, so a SKU
// added to the catalog shows up on the next lookup.
type Cached struct {
	inner Provider
	cache cache.Cache
}

// NewCached wraps inner with c. A nil cache degrades to the inner
// provider unchanged.
func NewCached(inner Provider, c cache.Cache) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Cached{inner: inner, cache: c}
}

func (c *Cached) GetBySKU(ctx context.Context, sku string) (*planogram.ProductMetadata, error) {
	key := "metadata:" + sku
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var meta planogram.ProductMetadata
		if err := json.Unmarshal(data, &meta); err == nil {
			observability.Cache().OnHit(ctx, "metadata")
			return &meta, nil
		}
		// Corrupt entry: drop it and fall through to the provider.
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnMiss(ctx, "metadata")

	meta, err := c.inner.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("metadata lookup %q: %w", sku, err)
	}
	if meta == nil {
		return nil, nil
	}
	if data, err := json.Marshal(meta); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.TTLMetadata); err == nil {
			observability.Cache().OnSet(ctx, "metadata", len(data))
		}
	}
	return meta, nil
}

var _ Provider = (*Cached)(nil)
