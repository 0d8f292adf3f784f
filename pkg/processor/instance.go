// Package processor turns a planogram configuration (L1) into drawable
// render instances (L4): one instance per expanded facing, with resolved
// world position, depth recession, and painter's-algorithm z-order.
// Processing is a pure function of the configuration plus reference
// metadata; output is always fully recomputed, never patched in place.
package processor

import (
	"fmt"

	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// DepthCategory is a coarse front-to-back bucket renderers use to pick
// shading: front at depth 0, middle at 1, back behind that.
type DepthCategory string

const (
	DepthFront  DepthCategory = "front"
	DepthMiddle DepthCategory = "middle"
	DepthBack   DepthCategory = "back"
)

// ZParts are the components that make up an instance's z-index, kept
// separately so renderers and debug tooling can explain ordering.
type ZParts struct {
	Shelf  int `json:"shelf"`
	Depth  int `json:"depth"`
	Facing int `json:"facing"`
}

// ScreenRect is a renderer-owned screen-space cache slot. Renderers may
// write projected bounds back into an instance between frames; the core
// never reads it and recomputation discards it.
type ScreenRect struct {
	X, Y, W, H float64
}

// RenderInstance is one fully resolved drawable unit (L4): a single
// facing of a placed product. Instances are emitted z-sorted ascending,
// so later instances in a slice visually occlude earlier ones.
type RenderInstance struct {
	// ID is `${productID}-${facingX}-${facingY}`, stable across
	// recomputations for the same facing.
	ID string `json:"id"`

	ProductID string `json:"productId"`
	SKU       string `json:"sku"`

	// Source points back at the product this facing came from. All
	// facings of one product share the same Source.
	Source *planogram.SourceProduct `json:"-"`

	WorldPosition   planogram.Vector3    `json:"worldPosition"`
	WorldDimensions planogram.Dimensions `json:"worldDimensions"`
	Anchor          planogram.AnchorPoint `json:"anchor"`

	// DepthScale is the visual recession multiplier: 1.0 at the front
	// row, shrinking per depth level behind it.
	DepthScale    float64       `json:"depthScale"`
	DepthCategory DepthCategory `json:"depthCategory"`

	ZIndex int    `json:"zIndex"`
	ZParts ZParts `json:"zParts"`

	// Position is a copy of the source semantic coordinates at the time
	// of projection.
	Position planogram.SemanticPosition `json:"position"`
	Facing   placement.FacingOffset     `json:"-"`

	Assets planogram.AssetRefs `json:"assets,omitempty"`

	// Screen is the renderer write-back cache; see ScreenRect.
	Screen *ScreenRect `json:"-"`
}

// Rect is an axis-aligned box in the world x/y plane.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether the point lies inside the rect, inclusive of
// edges.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Bounds returns the instance's anchor-relative bounding box in the
// world x/y plane. Hit-testing and drawing must both use this exact box
// so clicks agree with what is visually on top.
func (ri *RenderInstance) Bounds() Rect {
	w := ri.WorldDimensions.Width
	h := ri.WorldDimensions.Height
	return Rect{
		MinX: ri.WorldPosition.X - ri.Anchor.X*w,
		MinY: ri.WorldPosition.Y - ri.Anchor.Y*h,
		MaxX: ri.WorldPosition.X + (1-ri.Anchor.X)*w,
		MaxY: ri.WorldPosition.Y + (1-ri.Anchor.Y)*h,
	}
}

// InstanceID builds the canonical instance id for a facing of a product.
func InstanceID(productID string, facingX, facingY int) string {
	return fmt.Sprintf("%s-%d-%d", productID, facingX, facingY)
}
