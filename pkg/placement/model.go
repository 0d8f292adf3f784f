// Package placement translates semantic positions into world-space
// coordinates, one strategy per fixture kind. Models are looked up by
// string id in a [Registry] rather than dispatched on the position's
// own shape, because resolution also needs a fixture-level default: a
// configuration whose model id is unknown resolves to shelf-surface.
// That fallback is an explicit compatibility rule, kept visible in
// [Registry.Resolve] and its tests, never an implicit zero value.
package placement

import (
	"fmt"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// FacingOffset is the discrete facing step handed to a transform.
// X counts horizontal repeats, Y vertical repeats, both from 0.
type FacingOffset struct {
	X int
	Y int
}

// Capabilities describes what a placement model supports. Editors use
// these flags to enable or disable controls; the core uses them only
// for validation messages.
type Capabilities struct {
	Facings  bool // repeated facings along the x axis
	Shelves  bool // discrete shelf levels
	Pyramids bool // stacked layers (dump bins)
}

// Model converts between semantic and world coordinates for one fixture
// kind.
//
// Transform resolves a semantic position to the world-space anchor
// point of one facing, in fixture-relative mm, Y-up, bottom-left-front
// origin. It returns an error when the position's variant fields are
// missing or refer to geometry the fixture does not have (an unknown
// shelf index, a grid cell off the board); such errors are recorded
// per product by the processor and never abort a whole projection.
//
// Project is the inverse used to turn a drag gesture's world point back
// into semantic form. It always succeeds by snapping to the nearest
// legal coordinate at the front depth.
type Model interface {
	ID() planogram.PositionModel
	Capabilities() Capabilities
	Transform(pos planogram.SemanticPosition, fixture planogram.FixtureConfig, dims planogram.Dimensions, anchor planogram.AnchorPoint, facing FacingOffset) (planogram.Vector3, error)
	Project(world planogram.Vector3, fixture planogram.FixtureConfig) planogram.SemanticPosition
}

// variantErr builds the error for a position whose tagged-union variant
// does not match the model consuming it.
func variantErr(model planogram.PositionModel, pos planogram.SemanticPosition) error {
	return fmt.Errorf("position model %q has no %s fields", pos.Model, model)
}
