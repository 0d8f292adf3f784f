package placement

import (
	"fmt"
	"math"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// PegSpacing is the hole pitch of a standard pegboard in mm (1 inch).
const PegSpacing = 25.4

// PegboardGrid places products on pegboard hooks. Grid cells are
// PegSpacing apart; row 0 is the top hook row, and products hang
// downward from their hook, so the anchor y sits one product height
// below the hook.
type PegboardGrid struct{}

func (PegboardGrid) ID() planogram.PositionModel { return planogram.ModelPegboardGrid }

func (PegboardGrid) Capabilities() Capabilities {
	return Capabilities{Facings: true}
}

func (m PegboardGrid) Transform(pos planogram.SemanticPosition, fixture planogram.FixtureConfig, dims planogram.Dimensions, anchor planogram.AnchorPoint, facing FacingOffset) (planogram.Vector3, error) {
	pp := pos.Peg
	if pp == nil {
		return planogram.Vector3{}, variantErr(m.ID(), pos)
	}
	if pp.Column < 0 || pp.Row < 0 {
		return planogram.Vector3{}, fmt.Errorf("pegboard cell (%d,%d) is off the board", pp.Column, pp.Row)
	}
	hookY := fixture.Dimensions.Height - float64(pp.Row)*PegSpacing
	return planogram.Vector3{
		X: float64(pp.Column)*PegSpacing + float64(facing.X)*dims.Width,
		Y: hookY - dims.Height - float64(facing.Y)*dims.Height,
		Z: 0,
	}, nil
}

func (PegboardGrid) Project(world planogram.Vector3, fixture planogram.FixtureConfig) planogram.SemanticPosition {
	col := int(math.Round(world.X / PegSpacing))
	row := int(math.Round((fixture.Dimensions.Height - world.Y) / PegSpacing))
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return planogram.NewPegPosition(col, row)
}

var _ Model = PegboardGrid{}
