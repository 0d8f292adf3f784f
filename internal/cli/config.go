package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration file for the CLI. All fields are
// optional; zero values fall back to the documented defaults.
//
// Example (~/.config/planogram/config.toml):
//
//	[store]
//	backend = "file"            # file | mongo | memory
//	dir = ""                    # file backend, defaults under ~/.config
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "file"            # file | redis | none
//	redis_addr = "localhost:6379"
//
//	[catalog]
//	path = "catalog.json"       # local JSON catalog
//	url = ""                    # or a remote catalog endpoint
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Catalog CatalogConfig `toml:"catalog"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects and configures the metadata cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// CatalogConfig points at the product metadata source. When both path
// and url are set, the local path wins.
type CatalogConfig struct {
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

// defaultConfig returns the configuration used when no file exists:
// file store, file cache, no catalog.
func defaultConfig() Config {
	return Config{
		Store: StoreConfig{Backend: "file"},
		Cache: CacheConfig{Backend: "file"},
	}
}

// defaultConfigPath returns ~/.config/planogram/config.toml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "planogram", "config.toml"), nil
}

// loadConfig reads the TOML configuration at path. An empty path uses
// the default location; a missing file at the default location is not
// an error and yields the defaults, while an explicitly given path must
// exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
