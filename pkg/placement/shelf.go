package placement

import (
	"fmt"
	"math"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// ShelfSurface places products on discrete shelf levels. It is the
// default model and the fallback for unknown model ids.
//
// World resolution:
//
//	x = position.x + facingX * productWidth
//	y = baseHeight(shelfIndex) + facingY * productHeight
//	z = depth * depthSpacing(product)
//
// Facing and depth are independent axes: a facing step never shifts z
// and a depth step never shifts x.
type ShelfSurface struct{}

// DefaultDepthSpacing is the z step per depth level when a product has
// no depth dimension of its own.
const DefaultDepthSpacing = 100.0

func (ShelfSurface) ID() planogram.PositionModel { return planogram.ModelShelfSurface }

func (ShelfSurface) Capabilities() Capabilities {
	return Capabilities{Facings: true, Shelves: true}
}

// depthSpacing is the z distance between consecutive depth rows: the
// product's own depth, or DefaultDepthSpacing when unknown.
func depthSpacing(dims planogram.Dimensions) float64 {
	if dims.Depth > 0 {
		return dims.Depth
	}
	return DefaultDepthSpacing
}

func (m ShelfSurface) Transform(pos planogram.SemanticPosition, fixture planogram.FixtureConfig, dims planogram.Dimensions, anchor planogram.AnchorPoint, facing FacingOffset) (planogram.Vector3, error) {
	sp := pos.Shelf
	if sp == nil {
		return planogram.Vector3{}, variantErr(m.ID(), pos)
	}
	if math.IsNaN(sp.X) || math.IsInf(sp.X, 0) {
		return planogram.Vector3{}, fmt.Errorf("shelf position x is not a number")
	}
	shelf, ok := fixture.ShelfByIndex(sp.ShelfIndex)
	if !ok {
		return planogram.Vector3{}, fmt.Errorf("fixture has no shelf with index %d", sp.ShelfIndex)
	}
	return planogram.Vector3{
		X: sp.X + float64(facing.X)*dims.Width,
		Y: shelf.BaseHeight + float64(facing.Y)*dims.Height,
		Z: float64(sp.Depth) * depthSpacing(dims),
	}, nil
}

// Project snaps a world point to the shelf whose base height is nearest
// below-or-at the point's y (or the nearest shelf overall when the point
// is below every shelf), at the front depth row. Drag gestures land on
// the front row; depth edits are explicit actions, not gestures.
func (ShelfSurface) Project(world planogram.Vector3, fixture planogram.FixtureConfig) planogram.SemanticPosition {
	index := 0
	best := math.Inf(1)
	for _, s := range fixture.Shelves {
		d := world.Y - s.BaseHeight
		if d < 0 {
			d = -d * 4 // prefer the shelf below over a slightly nearer one above
		}
		if d < best {
			best = d
			index = s.Index
		}
	}
	return planogram.NewShelfPosition(world.X, index, 0)
}

var _ Model = ShelfSurface{}
