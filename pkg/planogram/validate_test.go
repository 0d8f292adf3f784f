package planogram

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return Config{
		ID:        "aisle-1",
		Name:      "Aisle 1",
		CreatedAt: now,
		UpdatedAt: now,
		Fixture: FixtureConfig{
			Type:             "gondola",
			PlacementModelID: "shelf-surface",
			Dimensions:       Dimensions{Width: 1200, Height: 1800, Depth: 500},
			Shelves: []ShelfConfig{
				{ID: "s0", Index: 0, BaseHeight: 200},
				{ID: "s1", Index: 1, BaseHeight: 650},
			},
		},
		Products: []SourceProduct{
			{
				ID:  "p1",
				SKU: "COLA-330",
				Placement: Placement{
					Position: NewShelfPosition(40, 0, 0),
					Facings:  FacingConfig{Horizontal: 2, Vertical: 1},
				},
			},
		},
	}
}

func TestValidateShapeValid(t *testing.T) {
	if errs := ValidateShape(validConfig()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateShapeViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing id",
			mutate: func(c *Config) { c.ID = "" },
			want:   "id: missing",
		},
		{
			name:   "missing name",
			mutate: func(c *Config) { c.Name = "" },
			want:   "name: missing",
		},
		{
			name:   "zero timestamps",
			mutate: func(c *Config) { c.CreatedAt = time.Time{} },
			want:   "createdAt: missing",
		},
		{
			name:   "non-positive dimensions",
			mutate: func(c *Config) { c.Fixture.Dimensions.Width = 0 },
			want:   "fixture.dimensions",
		},
		{
			name: "duplicate shelf index",
			mutate: func(c *Config) {
				c.Fixture.Shelves[1].Index = 0
			},
			want: "index 0 already used",
		},
		{
			name: "shelf position without shelf fields",
			mutate: func(c *Config) {
				c.Products[0].Placement.Position.Shelf = nil
			},
			want: "shelf-surface position without shelf fields",
		},
		{
			name: "missing position model",
			mutate: func(c *Config) {
				c.Products[0].Placement.Position.Model = ""
			},
			want: "missing model",
		},
		{
			name: "facings below one",
			mutate: func(c *Config) {
				c.Products[0].Placement.Facings.Horizontal = 0
			},
			want: "facings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			errs := ValidateShape(cfg)
			if len(errs) == 0 {
				t.Fatal("expected shape errors, got none")
			}
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error containing %q in %v", tt.want, errs)
			}
		})
	}
}

func TestValidateShapeReportsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.ID = ""
	cfg.Name = ""
	cfg.Products[0].Placement.Facings.Vertical = 0

	if errs := ValidateShape(cfg); len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestNormalizeShelfOrder(t *testing.T) {
	cfg := validConfig()
	// Shelf indices out of height order: index 0 is the top shelf.
	cfg.Fixture.Shelves = []ShelfConfig{
		{ID: "top", Index: 0, BaseHeight: 1100},
		{ID: "bottom", Index: 1, BaseHeight: 200},
		{ID: "middle", Index: 2, BaseHeight: 650},
	}
	cfg.Products[0].Placement.Position.Shelf.ShelfIndex = 0 // on "top"

	NormalizeShelfOrder(&cfg)

	gotIDs := make([]string, len(cfg.Fixture.Shelves))
	for i, s := range cfg.Fixture.Shelves {
		gotIDs[i] = s.ID
		if s.Index != i {
			t.Errorf("shelf %q: index = %d, want %d", s.ID, s.Index, i)
		}
	}
	want := []string{"bottom", "middle", "top"}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("shelf order = %v, want %v", gotIDs, want)
		}
	}

	// The product must still point at the physical "top" shelf.
	if got := cfg.Products[0].Placement.Position.Shelf.ShelfIndex; got != 2 {
		t.Errorf("product shelf index = %d, want 2", got)
	}
}

func TestNormalizeShelfOrderSingleShelfNoop(t *testing.T) {
	cfg := validConfig()
	cfg.Fixture.Shelves = cfg.Fixture.Shelves[:1]
	before := cfg.Fixture.Shelves[0]
	NormalizeShelfOrder(&cfg)
	if cfg.Fixture.Shelves[0] != before {
		t.Error("single shelf should be untouched")
	}
}
