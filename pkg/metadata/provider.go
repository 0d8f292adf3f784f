// Package metadata supplies read-only product reference data keyed by
// SKU: physical dimensions, visual anchor, and asset references. The
// core consumes it through the [Provider] interface; absence of a SKU
// is a normal condition that degrades per product, never an error.
package metadata

import (
	"context"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// Provider resolves metadata by SKU. A missing SKU returns (nil, nil);
// errors are reserved for backend failures. Lookups may suspend (the
// context is honored), which is why session re-projection is the one
// suspension point in the engine.
type Provider interface {
	GetBySKU(ctx context.Context, sku string) (*planogram.ProductMetadata, error)
}

// Resolve collects metadata for every distinct SKU in the
// configuration. SKUs the provider does not know are simply absent from
// the returned map; processing reports those per product.
func Resolve(ctx context.Context, p Provider, cfg planogram.Config) (map[string]planogram.ProductMetadata, error) {
	out := make(map[string]planogram.ProductMetadata)
	for _, product := range cfg.Products {
		if _, done := out[product.SKU]; done {
			continue
		}
		meta, err := p.GetBySKU(ctx, product.SKU)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			out[product.SKU] = *meta
		}
	}
	return out, nil
}

// Static is an in-memory provider backed by a map. It is the test
// provider and the base for file catalogs.
type Static map[string]planogram.ProductMetadata

// NewStatic builds a static provider from items, keyed by their SKU.
func NewStatic(items ...planogram.ProductMetadata) Static {
	s := make(Static, len(items))
	for _, m := range items {
		s[m.SKU] = m
	}
	return s
}

func (s Static) GetBySKU(ctx context.Context, sku string) (*planogram.ProductMetadata, error) {
	if m, ok := s[sku]; ok {
		return &m, nil
	}
	return nil, nil
}

var _ Provider = Static(nil)
