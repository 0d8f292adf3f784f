package placement

import (
	"fmt"
	"math"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// Freeform3D places products at arbitrary world points, used for cooler
// interiors and open display tables where there is no shelf or grid to
// snap to. The semantic position already is a world point; Transform
// only applies facing offsets.
type Freeform3D struct{}

func (Freeform3D) ID() planogram.PositionModel { return planogram.ModelFreeform3D }

func (Freeform3D) Capabilities() Capabilities {
	return Capabilities{Facings: true, Pyramids: true}
}

func (m Freeform3D) Transform(pos planogram.SemanticPosition, fixture planogram.FixtureConfig, dims planogram.Dimensions, anchor planogram.AnchorPoint, facing FacingOffset) (planogram.Vector3, error) {
	fp := pos.Freeform
	if fp == nil {
		return planogram.Vector3{}, variantErr(m.ID(), pos)
	}
	for name, v := range map[string]float64{"x": fp.X, "y": fp.Y, "z": fp.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return planogram.Vector3{}, fmt.Errorf("freeform position %s is not a number", name)
		}
	}
	return planogram.Vector3{
		X: fp.X + float64(facing.X)*dims.Width,
		Y: fp.Y + float64(facing.Y)*dims.Height,
		Z: fp.Z,
	}, nil
}

func (Freeform3D) Project(world planogram.Vector3, fixture planogram.FixtureConfig) planogram.SemanticPosition {
	return planogram.NewFreeformPosition(world.X, world.Y, world.Z)
}

var _ Model = Freeform3D{}
