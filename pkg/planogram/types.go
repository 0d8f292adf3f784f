package planogram

import (
	"time"
)

// Vector3 is a point or offset in world space. Units are millimeters,
// Y-up, origin at the fixture's bottom-left-front corner.
type Vector3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Dimensions is a physical extent in millimeters.
type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Depth  float64 `json:"depth" bson:"depth"`
}

// AnchorPoint locates a product's visual anchor within its bounding box,
// as fractions of width and height. {0, 0} is the bottom-left corner,
// {0.5, 0} is bottom-center. The anchor is the point that a placement
// position refers to; bounding-box math everywhere (drawing, hit-testing,
// culling) must expand around it identically.
type AnchorPoint struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// FacingConfig is the repeat count of a product on the fixture.
// Both axes are at least 1; a single unit is {1, 1}.
type FacingConfig struct {
	Horizontal int `json:"horizontal" bson:"horizontal"`
	Vertical   int `json:"vertical" bson:"vertical"`
}

// Placement ties a semantic position to a facing count.
type Placement struct {
	Position SemanticPosition `json:"position" bson:"position"`
	Facings  FacingConfig     `json:"facings" bson:"facings"`
}

// SourceProduct is one placed product in the configuration (L1).
// ID is unique within a planogram; SKU keys into external reference
// metadata.
type SourceProduct struct {
	ID        string    `json:"id" bson:"id"`
	SKU       string    `json:"sku" bson:"sku"`
	Placement Placement `json:"placement" bson:"placement"`
}

// AssetRefs points at external visual assets for a product. The core
// never loads assets; it only carries the references through to render
// instances.
type AssetRefs struct {
	Image   string `json:"image,omitempty" bson:"image,omitempty"`
	Model3D string `json:"model3d,omitempty" bson:"model3d,omitempty"`
}

// ProductMetadata is read-only reference data for a SKU: physical
// dimensions, visual anchor, and asset references. It comes from an
// external provider and is never part of the persisted configuration.
type ProductMetadata struct {
	SKU        string      `json:"sku" bson:"sku"`
	Name       string      `json:"name,omitempty" bson:"name,omitempty"`
	Dimensions Dimensions  `json:"dimensions" bson:"dimensions"`
	Anchor     AnchorPoint `json:"anchor" bson:"anchor"`
	Assets     AssetRefs   `json:"assets,omitempty" bson:"assets,omitempty"`
}

// ShelfConfig is one shelf level on a shelf-surface fixture.
// Index is the 0-based level identifier and must be unique within the
// fixture. BaseHeight is the shelf surface height in mm above the
// fixture origin. Height ordering by index is conventional but not
// structurally enforced; NormalizeShelfOrder restores it.
type ShelfConfig struct {
	ID         string  `json:"id" bson:"id"`
	Index      int     `json:"index" bson:"index"`
	BaseHeight float64 `json:"baseHeight" bson:"baseHeight"`
}

// VisualProperties are fixture-level hints for renderers. The core
// carries them opaquely.
type VisualProperties struct {
	Color          string  `json:"color,omitempty" bson:"color,omitempty"`
	ShelfThickness float64 `json:"shelfThickness,omitempty" bson:"shelfThickness,omitempty"`
}

// FixtureConfig describes the physical structure holding products.
type FixtureConfig struct {
	Type             string           `json:"type" bson:"type"`
	PlacementModelID string           `json:"placementModelId" bson:"placementModelId"`
	Dimensions       Dimensions       `json:"dimensions" bson:"dimensions"`
	Shelves          []ShelfConfig    `json:"shelves,omitempty" bson:"shelves,omitempty"`
	Visual           VisualProperties `json:"visual,omitempty" bson:"visual,omitempty"`
}

// ShelfByIndex returns the shelf with the given index, or false if the
// fixture has no such shelf.
func (f FixtureConfig) ShelfByIndex(index int) (ShelfConfig, bool) {
	for _, s := range f.Shelves {
		if s.Index == index {
			return s, true
		}
	}
	return ShelfConfig{}, false
}

// Config is the canonical persisted planogram state (L1).
type Config struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
	Fixture   FixtureConfig   `json:"fixture" bson:"fixture"`
	Products  []SourceProduct `json:"products" bson:"products"`
}

// ProductByID returns a pointer into c.Products for the product with the
// given id, or nil if absent. The pointer is only valid until the slice
// is modified.
func (c *Config) ProductByID(id string) *SourceProduct {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}
