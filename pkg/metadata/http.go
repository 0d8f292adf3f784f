package metadata

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shelfwise/planogram/pkg/httputil"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// Remote fetches a product catalog from an HTTP endpoint serving the
// same JSON array format as LoadCatalog. The catalog is downloaded
// lazily on the first lookup and held for the provider's lifetime;
// wrap in [Cached] when per-SKU TTL refresh is wanted instead.
type Remote struct {
	url    string
	client *http.Client

	once    sync.Once
	catalog Static
	err     error
}

// NewRemote creates a provider for the catalog at url. A nil client
// uses http.DefaultClient.
func NewRemote(url string, client *http.Client) *Remote {
	return &Remote{url: url, client: client}
}

func (r *Remote) GetBySKU(ctx context.Context, sku string) (*planogram.ProductMetadata, error) {
	r.once.Do(func() { r.catalog, r.err = r.fetch(ctx) })
	if r.err != nil {
		return nil, r.err
	}
	return r.catalog.GetBySKU(ctx, sku)
}

func (r *Remote) fetch(ctx context.Context) (Static, error) {
	var items []planogram.ProductMetadata
	err := httputil.RetryWithBackoff(ctx, func() error {
		return httputil.GetJSON(ctx, r.client, r.url, &items)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	s := make(Static, len(items))
	for i, m := range items {
		if m.SKU == "" {
			return nil, fmt.Errorf("catalog %s: entry %d has no sku", r.url, i)
		}
		s[m.SKU] = m
	}
	return s, nil
}

var _ Provider = (*Remote)(nil)
