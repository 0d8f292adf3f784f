package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/shelfwise/planogram/pkg/cache"
	"github.com/shelfwise/planogram/pkg/planogram"
)

func cola() planogram.ProductMetadata {
	return planogram.ProductMetadata{
		SKU:        "COLA-330",
		Name:       "Cola 330ml",
		Dimensions: planogram.Dimensions{Width: 67, Height: 115, Depth: 67},
		Anchor:     planogram.AnchorPoint{X: 0.5},
	}
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(cola())

	m, err := s.GetBySKU(ctx, "COLA-330")
	if err != nil || m == nil {
		t.Fatalf("known sku: %v, %v", m, err)
	}
	if m.Dimensions.Width != 67 {
		t.Errorf("width = %g", m.Dimensions.Width)
	}

	m, err = s.GetBySKU(ctx, "GHOST")
	if err != nil || m != nil {
		t.Fatalf("absent sku must be (nil, nil), got %v, %v", m, err)
	}
}

func TestResolveCollectsDistinctSKUs(t *testing.T) {
	cfg := planogram.Config{
		Products: []planogram.SourceProduct{
			{ID: "p1", SKU: "COLA-330"},
			{ID: "p2", SKU: "COLA-330"},
			{ID: "p3", SKU: "GHOST"},
		},
	}

	meta, err := Resolve(context.Background(), NewStatic(cola()), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(meta) != 1 {
		t.Fatalf("resolved %d SKUs, want 1 (distinct, known only)", len(meta))
	}
	if _, ok := meta["COLA-330"]; !ok {
		t.Error("known sku missing")
	}
}

type errProvider struct{}

func (errProvider) GetBySKU(context.Context, string) (*planogram.ProductMetadata, error) {
	return nil, errors.New("backend down")
}

func TestResolvePropagatesBackendErrors(t *testing.T) {
	cfg := planogram.Config{Products: []planogram.SourceProduct{{ID: "p1", SKU: "COLA-330"}}}
	if _, err := Resolve(context.Background(), errProvider{}, cfg); err == nil {
		t.Fatal("backend failure must surface")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	body := `[
		{"sku": "COLA-330", "name": "Cola", "dimensions": {"width": 67, "height": 115, "depth": 67}},
		{"sku": "WATER-500", "name": "Water", "dimensions": {"width": 65, "height": 210, "depth": 65}}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 2 {
		t.Fatalf("entries = %d, want 2", len(s))
	}
	if s["WATER-500"].Dimensions.Height != 210 {
		t.Errorf("water = %+v", s["WATER-500"])
	}
}

func TestLoadCatalogRejections(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"missing sku", `[{"name": "No SKU"}]`},
		{"not json", `{{{`},
		{"wrong shape", `{"sku": "X"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadCatalog(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadCatalog(filepath.Join(dir, "absent.json")); err == nil {
		t.Fatal("missing file must error")
	}
}

// countingProvider records how many lookups reach the inner provider.
type countingProvider struct {
	inner Static
	calls int
}

func (p *countingProvider) GetBySKU(ctx context.Context, sku string) (*planogram.ProductMetadata, error) {
	p.calls++
	return p.inner.GetBySKU(ctx, sku)
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingProvider{inner: NewStatic(cola())}
	p := NewCached(inner, fileCache)

	// First lookup passes through and populates the cache.
	m, err := p.GetBySKU(ctx, "COLA-330")
	if err != nil || m == nil {
		t.Fatalf("first lookup: %v, %v", m, err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}

	// Second lookup is served from cache.
	m, err = p.GetBySKU(ctx, "COLA-330")
	if err != nil || m == nil || m.SKU != "COLA-330" {
		t.Fatalf("cached lookup: %v, %v", m, err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want still 1", inner.calls)
	}

	// Absent SKUs are not negatively cached.
	for range 2 {
		if m, err := p.GetBySKU(ctx, "GHOST"); err != nil || m != nil {
			t.Fatalf("absent sku: %v, %v", m, err)
		}
	}
	if inner.calls != 3 {
		t.Fatalf("inner calls = %d, want 3 (no negative caching)", inner.calls)
	}
}

func TestCachedProviderNilCacheDegrades(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{inner: NewStatic(cola())}
	p := NewCached(inner, nil)

	for range 2 {
		if m, err := p.GetBySKU(ctx, "COLA-330"); err != nil || m == nil {
			t.Fatalf("lookup: %v, %v", m, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want every lookup to pass through", inner.calls)
	}
}

func TestRemoteProviderFetchesOnce(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"sku": "COLA-330", "dimensions": {"width": 67, "height": 115, "depth": 67}}]`))
	}))
	defer srv.Close()

	p := NewRemote(srv.URL, srv.Client())

	m, err := p.GetBySKU(ctx, "COLA-330")
	if err != nil || m == nil || m.Dimensions.Width != 67 {
		t.Fatalf("lookup: %v, %v", m, err)
	}
	if m, err := p.GetBySKU(ctx, "GHOST"); err != nil || m != nil {
		t.Fatalf("absent sku: %v, %v", m, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("catalog fetched %d times, want 1", calls.Load())
	}
}

func TestRemoteProviderRejectsEntriesWithoutSKU(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "No SKU"}]`))
	}))
	defer srv.Close()

	p := NewRemote(srv.URL, srv.Client())
	if _, err := p.GetBySKU(context.Background(), "X"); err == nil {
		t.Fatal("expected catalog rejection")
	}
}
