// Package store persists planogram configurations. The engine treats a
// stored configuration as an opaque value apart from the shape contract
// ([planogram.ValidateShape]), which every backend enforces on save so
// a malformed config can never become someone else's load problem.
//
// Three backends ship: file (one JSON document per planogram under a
// directory), memory (tests and demos), and mongo (shared deployments).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// ErrNotFound is returned by GetByID for an unknown planogram id.
var ErrNotFound = errors.New("planogram not found")

// Summary is the listing projection of a stored planogram.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Products  int    `json:"products"`
	UpdatedAt string `json:"updatedAt"`
}

// Store is the persistence interface.
type Store interface {
	// Save upserts a configuration by its id after shape validation.
	Save(ctx context.Context, cfg planogram.Config) error

	// GetByID loads a configuration. Returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (planogram.Config, error)

	// ListAll returns summaries of every stored planogram.
	ListAll(ctx context.Context) ([]Summary, error)

	// Delete removes a planogram. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// checkShape wraps the shape contract violations into one save error.
func checkShape(cfg planogram.Config) error {
	if errs := planogram.ValidateShape(cfg); len(errs) > 0 {
		return fmt.Errorf("refusing to save %q: %w", cfg.ID, errors.Join(errs...))
	}
	return nil
}

// summarize builds the listing row for a config.
func summarize(cfg planogram.Config) Summary {
	return Summary{
		ID:        cfg.ID,
		Name:      cfg.Name,
		Products:  len(cfg.Products),
		UpdatedAt: cfg.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
