// Package viewport projects world coordinates into screen space and
// culls render instances against the visible area. It consumes the same
// anchor-relative bounds as hit-testing and drawing, so what the
// viewport keeps is exactly what the renderer would put pixels on.
package viewport

import (
	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
)

// Viewport maps fixture world space (mm, Y-up) onto a screen rectangle
// (pixels, Y-down). Scale is pixels per mm; PanX/PanY shift the world
// origin within the view, in mm.
type Viewport struct {
	Width  float64 // screen width in px
	Height float64 // screen height in px
	Scale  float64 // px per mm
	PanX   float64 // world x at the left edge, mm
	PanY   float64 // world y at the bottom edge, mm
}

// FitTo returns a viewport of the given pixel size scaled and centered
// so the whole fixture is visible with a small margin.
func FitTo(fixture planogram.FixtureConfig, width, height float64) Viewport {
	const margin = 0.05
	d := fixture.Dimensions
	sx := width * (1 - 2*margin) / d.Width
	sy := height * (1 - 2*margin) / d.Height
	scale := min(sx, sy)
	return Viewport{
		Width:  width,
		Height: height,
		Scale:  scale,
		PanX:   -(width/scale - d.Width) / 2,
		PanY:   -(height/scale - d.Height) / 2,
	}
}

// WorldToScreen converts a world point to screen pixels. The screen
// y axis points down, so the world's bottom edge maps to the view's
// bottom.
func (v Viewport) WorldToScreen(p planogram.Vector3) (x, y float64) {
	x = (p.X - v.PanX) * v.Scale
	y = v.Height - (p.Y-v.PanY)*v.Scale
	return x, y
}

// ScreenToWorld converts a screen pixel back to a world x/y point at
// z = 0, the inverse of WorldToScreen.
func (v Viewport) ScreenToWorld(x, y float64) planogram.Vector3 {
	return planogram.Vector3{
		X: x/v.Scale + v.PanX,
		Y: (v.Height-y)/v.Scale + v.PanY,
	}
}

// visible reports whether a world-space rect intersects the view.
func (v Viewport) visible(r processor.Rect) bool {
	minX, maxY := v.WorldToScreen(planogram.Vector3{X: r.MinX, Y: r.MinY})
	maxX, minY := v.WorldToScreen(planogram.Vector3{X: r.MaxX, Y: r.MaxY})
	return maxX >= 0 && minX <= v.Width && maxY >= 0 && minY <= v.Height
}

// Cull returns the instances to draw, preserving z-order. All facings
// of one product form a single visibility group: if any facing is
// visible, the whole group is kept. Without the grouping, facings at
// the view edge would flicker in and out independently as the user
// pans.
func (v Viewport) Cull(instances []processor.RenderInstance) []processor.RenderInstance {
	keep := make(map[string]bool)
	for i := range instances {
		inst := &instances[i]
		if keep[inst.ProductID] {
			continue
		}
		if v.visible(inst.Bounds()) {
			keep[inst.ProductID] = true
		}
	}

	out := make([]processor.RenderInstance, 0, len(instances))
	for _, inst := range instances {
		if keep[inst.ProductID] {
			out = append(out, inst)
		}
	}
	return out
}
