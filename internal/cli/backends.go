package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shelfwise/planogram/pkg/cache"
	"github.com/shelfwise/planogram/pkg/metadata"
	"github.com/shelfwise/planogram/pkg/store"
)

// buildStore constructs the persistence backend selected by the config.
// The caller owns the returned store and must Close it.
func buildStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// buildCache constructs the metadata cache backend. "none" disables
// caching with a null cache so callers never branch.
func buildCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = metadataCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// buildProvider constructs the metadata provider chain: catalog source
// wrapped in the configured cache. With no catalog configured, lookups
// come up empty and validation reports the missing SKUs per product.
func buildProvider(ctx context.Context, cfg Config) (metadata.Provider, cache.Cache, error) {
	var src metadata.Provider
	switch {
	case cfg.Catalog.Path != "":
		catalog, err := metadata.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		src = catalog
	case cfg.Catalog.URL != "":
		src = metadata.NewRemote(cfg.Catalog.URL, nil)
	default:
		src = metadata.Static{}
	}

	c, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return metadata.NewCached(src, c), c, nil
}

// metadataCacheDir returns the default metadata cache directory,
// ~/.cache/planogram.
func metadataCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "planogram"), nil
}
