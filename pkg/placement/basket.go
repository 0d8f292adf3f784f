package placement

import (
	"fmt"
	"math"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// BasketBin places products piled inside a dump bin. The x/z slot is a
// point on the bin floor; Layer stacks products vertically, one product
// height per layer.
type BasketBin struct{}

func (BasketBin) ID() planogram.PositionModel { return planogram.ModelBasketBin }

func (BasketBin) Capabilities() Capabilities {
	return Capabilities{Facings: true, Pyramids: true}
}

func (m BasketBin) Transform(pos planogram.SemanticPosition, fixture planogram.FixtureConfig, dims planogram.Dimensions, anchor planogram.AnchorPoint, facing FacingOffset) (planogram.Vector3, error) {
	bp := pos.Basket
	if bp == nil {
		return planogram.Vector3{}, variantErr(m.ID(), pos)
	}
	if math.IsNaN(bp.X) || math.IsNaN(bp.Z) || math.IsInf(bp.X, 0) || math.IsInf(bp.Z, 0) {
		return planogram.Vector3{}, fmt.Errorf("basket position is not a number")
	}
	if bp.Layer < 0 {
		return planogram.Vector3{}, fmt.Errorf("basket layer %d is negative", bp.Layer)
	}
	return planogram.Vector3{
		X: bp.X + float64(facing.X)*dims.Width,
		Y: float64(bp.Layer) * dims.Height,
		Z: bp.Z + float64(facing.Y)*depthSpacing(dims),
	}, nil
}

func (BasketBin) Project(world planogram.Vector3, fixture planogram.FixtureConfig) planogram.SemanticPosition {
	return planogram.NewBasketPosition(world.X, world.Z, 0)
}

var _ Model = BasketBin{}
