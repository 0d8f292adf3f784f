package processor

import (
	"math"

	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// Z-order contract: higher shelves draw above lower ones, deeper rows
// draw behind same-shelf items, and later facings draw marginally above
// earlier ones on the same shelf. The weights keep the three components
// in disjoint ranges for any realistic fixture.
const (
	zBase        = 1000
	zShelfWeight = 100
	zDepthWeight = 10
)

// depthScaleFactor is the per-level recession multiplier: each row
// behind the front renders at 92% of the size of the row in front of it.
const depthScaleFactor = 0.92

// zIndexFor computes the painter's-algorithm z-index and its parts.
func zIndexFor(shelfIndex, depth, facingX int) (int, ZParts) {
	z := zBase + shelfIndex*zShelfWeight - depth*zDepthWeight + facingX
	return z, ZParts{Shelf: shelfIndex, Depth: depth, Facing: facingX}
}

// depthScaleFor returns the recession scale for a depth level: 1.0 at
// the front row, depthScaleFactor^depth behind it.
func depthScaleFor(depth int) float64 {
	if depth <= 0 {
		return 1.0
	}
	return math.Pow(depthScaleFactor, float64(depth))
}

// depthCategoryFor buckets a depth level for renderer shading.
func depthCategoryFor(depth int) DepthCategory {
	switch {
	case depth <= 0:
		return DepthFront
	case depth == 1:
		return DepthMiddle
	default:
		return DepthBack
	}
}

// expand resolves one product into its per-facing render instances.
// The returned error carries the first transform failure; a product
// either expands fully or not at all, so a half-expanded facing grid
// never reaches the renderer.
func expand(product planogram.SourceProduct, meta planogram.ProductMetadata, model placement.Model, fixture planogram.FixtureConfig) ([]RenderInstance, error) {
	facings := product.Placement.Facings
	horizontal := max(facings.Horizontal, 1)
	vertical := max(facings.Vertical, 1)

	pos := product.Placement.Position
	depth := pos.DepthLevel()
	shelfIndex, _ := pos.ShelfIndex()

	src := product
	out := make([]RenderInstance, 0, horizontal*vertical)
	for fy := 0; fy < vertical; fy++ {
		for fx := 0; fx < horizontal; fx++ {
			world, err := model.Transform(pos, fixture, meta.Dimensions, meta.Anchor, placement.FacingOffset{X: fx, Y: fy})
			if err != nil {
				return nil, err
			}
			z, parts := zIndexFor(shelfIndex, depth, fx)
			out = append(out, RenderInstance{
				ID:              InstanceID(product.ID, fx, fy),
				ProductID:       product.ID,
				SKU:             product.SKU,
				Source:          &src,
				WorldPosition:   world,
				WorldDimensions: meta.Dimensions,
				Anchor:          meta.Anchor,
				DepthScale:      depthScaleFor(depth),
				DepthCategory:   depthCategoryFor(depth),
				ZIndex:          z,
				ZParts:          parts,
				Position:        pos.Clone(),
				Facing:          placement.FacingOffset{X: fx, Y: fy},
				Assets:          meta.Assets,
			})
		}
	}
	return out, nil
}
