package planogram

import (
	"fmt"
	"math"
	"sort"
)

// ShapeError reports a violation of the persistence shape contract.
// Shape errors are Go errors (unlike domain Issues) because a config
// that fails the contract must not be saved or loaded.
type ShapeError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("config shape: %s: %s", e.Field, e.Message)
}

// ValidateShape checks the contract every persisted configuration must
// satisfy: id, name, and timestamps present; fixture dimensions present;
// shelves each with a unique index and a numeric base height; every
// product's position model set and, for shelf-surface, numeric
// x/shelfIndex; facings at least 1 on both axes.
//
// All violations are returned, not just the first.
func ValidateShape(c Config) []error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ShapeError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.ID == "" {
		add("id", "missing")
	}
	if c.Name == "" {
		add("name", "missing")
	}
	if c.CreatedAt.IsZero() {
		add("createdAt", "missing")
	}
	if c.UpdatedAt.IsZero() {
		add("updatedAt", "missing")
	}

	d := c.Fixture.Dimensions
	if d.Width <= 0 || d.Height <= 0 || d.Depth <= 0 {
		add("fixture.dimensions", "must be positive, got %gx%gx%g", d.Width, d.Height, d.Depth)
	}

	seen := make(map[int]string, len(c.Fixture.Shelves))
	for i, s := range c.Fixture.Shelves {
		field := fmt.Sprintf("fixture.shelves[%d]", i)
		if prev, dup := seen[s.Index]; dup {
			add(field, "index %d already used by shelf %q", s.Index, prev)
		}
		seen[s.Index] = s.ID
		if math.IsNaN(s.BaseHeight) || math.IsInf(s.BaseHeight, 0) {
			add(field, "baseHeight is not a number")
		}
	}

	for i, p := range c.Products {
		field := fmt.Sprintf("products[%d]", i)
		if p.ID == "" {
			add(field, "missing id")
		}
		pos := p.Placement.Position
		if pos.Model == "" {
			add(field+".position", "missing model")
		}
		if pos.Model == ModelShelfSurface {
			if pos.Shelf == nil {
				add(field+".position", "shelf-surface position without shelf fields")
			} else if math.IsNaN(pos.Shelf.X) || math.IsInf(pos.Shelf.X, 0) {
				add(field+".position.x", "not a number")
			}
		}
		f := p.Placement.Facings
		if f.Horizontal < 1 || f.Vertical < 1 {
			add(field+".facings", "must be >= 1, got %dx%d", f.Horizontal, f.Vertical)
		}
	}
	return errs
}

// NormalizeShelfOrder reassigns shelf indices so that index order
// matches base-height order, lowest shelf first. The data model does
// not structurally enforce this ordering; editors call this after
// shelf-height edits to restore the convention. Product shelf indices
// are remapped alongside so placements keep pointing at the same
// physical shelf.
func NormalizeShelfOrder(c *Config) {
	shelves := c.Fixture.Shelves
	if len(shelves) < 2 {
		return
	}

	order := make([]int, len(shelves))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shelves[order[a]].BaseHeight < shelves[order[b]].BaseHeight
	})

	remap := make(map[int]int, len(shelves))
	for newIndex, slot := range order {
		remap[shelves[slot].Index] = newIndex
	}
	sorted := make([]ShelfConfig, len(shelves))
	for newIndex, slot := range order {
		s := shelves[slot]
		s.Index = newIndex
		sorted[newIndex] = s
	}
	c.Fixture.Shelves = sorted

	for i := range c.Products {
		pos := &c.Products[i].Placement.Position
		if pos.Model == ModelShelfSurface && pos.Shelf != nil {
			if newIndex, ok := remap[pos.Shelf.ShelfIndex]; ok {
				pos.Shelf.ShelfIndex = newIndex
			}
		}
	}
}
