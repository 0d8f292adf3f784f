package planogram

// PositionModel identifies which placement model a semantic position
// belongs to. Placement models are looked up by this id in the placement
// registry; an unknown id falls back to shelf-surface there, as an
// explicit compatibility default.
type PositionModel string

// Built-in position models, one per supported fixture kind.
const (
	ModelShelfSurface PositionModel = "shelf-surface"
	ModelPegboardGrid PositionModel = "pegboard-grid"
	ModelFreeform3D   PositionModel = "freeform-3d"
	ModelBasketBin    PositionModel = "basket-bin"
)

// ShelfPosition places a product on a shelf surface. X is the offset in
// mm from the fixture's left edge; ShelfIndex selects the shelf level;
// Depth is the front-to-back row, 0 at the front. Facing and depth are
// independent axes: facings step X, depth steps Z, never each other.
type ShelfPosition struct {
	X          float64 `json:"x" bson:"x"`
	ShelfIndex int     `json:"shelfIndex" bson:"shelfIndex"`
	Depth      int     `json:"depth" bson:"depth"`
}

// PegPosition places a product on a pegboard grid cell. Row 0 is the
// topmost hook row.
type PegPosition struct {
	Column int `json:"column" bson:"column"`
	Row    int `json:"row" bson:"row"`
}

// FreeformPosition places a product at an arbitrary world-space point,
// used for cooler interiors and open display tables. RotationY is in
// degrees around the vertical axis.
type FreeformPosition struct {
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Z         float64 `json:"z" bson:"z"`
	RotationY float64 `json:"rotationY,omitempty" bson:"rotationY,omitempty"`
}

// BasketPosition places a product inside a dump bin or basket. Layer is
// the vertical pile level, 0 at the bin floor.
type BasketPosition struct {
	X     float64 `json:"x" bson:"x"`
	Z     float64 `json:"z" bson:"z"`
	Layer int     `json:"layer" bson:"layer"`
}

// SemanticPosition is the tagged union of fixture-type-specific logical
// coordinates. Exactly the variant named by Model is set; the others are
// nil. Consumers switch on Model exhaustively so that adding a placement
// model is a compile-visible change everywhere positions are consumed.
//
// SemanticPosition is an immutable value: treat variants as read-only
// and build changed positions with the constructor functions.
type SemanticPosition struct {
	Model    PositionModel     `json:"model" bson:"model"`
	Shelf    *ShelfPosition    `json:"shelf,omitempty" bson:"shelf,omitempty"`
	Peg      *PegPosition      `json:"peg,omitempty" bson:"peg,omitempty"`
	Freeform *FreeformPosition `json:"freeform,omitempty" bson:"freeform,omitempty"`
	Basket   *BasketPosition   `json:"basket,omitempty" bson:"basket,omitempty"`
}

// NewShelfPosition builds a shelf-surface position.
func NewShelfPosition(x float64, shelfIndex, depth int) SemanticPosition {
	return SemanticPosition{
		Model: ModelShelfSurface,
		Shelf: &ShelfPosition{X: x, ShelfIndex: shelfIndex, Depth: depth},
	}
}

// NewPegPosition builds a pegboard-grid position.
func NewPegPosition(column, row int) SemanticPosition {
	return SemanticPosition{
		Model: ModelPegboardGrid,
		Peg:   &PegPosition{Column: column, Row: row},
	}
}

// NewFreeformPosition builds a freeform-3d position.
func NewFreeformPosition(x, y, z float64) SemanticPosition {
	return SemanticPosition{
		Model:    ModelFreeform3D,
		Freeform: &FreeformPosition{X: x, Y: y, Z: z},
	}
}

// NewBasketPosition builds a basket-bin position.
func NewBasketPosition(x, z float64, layer int) SemanticPosition {
	return SemanticPosition{
		Model:  ModelBasketBin,
		Basket: &BasketPosition{X: x, Z: z, Layer: layer},
	}
}

// Clone returns a deep copy with freshly allocated variant structs.
func (p SemanticPosition) Clone() SemanticPosition {
	out := SemanticPosition{Model: p.Model}
	if p.Shelf != nil {
		s := *p.Shelf
		out.Shelf = &s
	}
	if p.Peg != nil {
		g := *p.Peg
		out.Peg = &g
	}
	if p.Freeform != nil {
		f := *p.Freeform
		out.Freeform = &f
	}
	if p.Basket != nil {
		b := *p.Basket
		out.Basket = &b
	}
	return out
}

// DepthLevel returns the front-to-back row the position occupies.
// Only shelf-surface positions have a discrete depth axis; everything
// else is treated as front (0) for z-ordering and recession scaling.
func (p SemanticPosition) DepthLevel() int {
	if p.Model == ModelShelfSurface && p.Shelf != nil {
		return p.Shelf.Depth
	}
	return 0
}

// ShelfIndex returns the shelf level and true for shelf-surface
// positions, or 0 and false otherwise.
func (p SemanticPosition) ShelfIndex() (int, bool) {
	if p.Model == ModelShelfSurface && p.Shelf != nil {
		return p.Shelf.ShelfIndex, true
	}
	return 0, false
}
