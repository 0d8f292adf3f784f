package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/shelfwise/planogram/pkg/errors"
	"github.com/shelfwise/planogram/pkg/observability"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// FileStore keeps one pretty-printed JSON file per planogram under a
// base directory, named <id>.json. Suited to single-user CLI work where
// the documents should stay diffable and hand-editable.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the directory if needed. An empty dir defaults
// to ~/.config/planogram/planograms.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "planogram", "planograms")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, cfg planogram.Config) error {
	start := time.Now()
	err := s.save(cfg)
	observability.Store().OnSave(ctx, cfg.ID, time.Since(start), err)
	return err
}

func (s *FileStore) save(cfg planogram.Config) error {
	// Ids become file names, so they are validated harder here than
	// the shape contract requires.
	if err := apperrors.ValidatePlanogramID(cfg.ID); err != nil {
		return err
	}
	if err := checkShape(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal planogram: %w", err)
	}
	tmp := s.path(cfg.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write planogram: %w", err)
	}
	return os.Rename(tmp, s.path(cfg.ID))
}

func (s *FileStore) GetByID(ctx context.Context, id string) (planogram.Config, error) {
	start := time.Now()
	cfg, err := s.get(id)
	observability.Store().OnLoad(ctx, id, time.Since(start), err)
	return cfg, err
}

func (s *FileStore) get(id string) (planogram.Config, error) {
	if err := apperrors.ValidatePlanogramID(id); err != nil {
		return planogram.Config{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return planogram.Config{}, ErrNotFound
	}
	if err != nil {
		return planogram.Config{}, fmt.Errorf("read planogram: %w", err)
	}
	var cfg planogram.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return planogram.Config{}, fmt.Errorf("parse planogram %s: %w", id, err)
	}
	return cfg, nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var cfg planogram.Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			continue
		}
		out = append(out, summarize(cfg))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error { return nil }

// Dir returns the base directory.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)
