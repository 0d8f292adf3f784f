// Package render contains boundary collaborators that consume the
// engine's z-sorted render instances. The SVG sink draws a front
// elevation of the fixture; it exists to exercise the RenderInstance
// contract end to end, not to be a production renderer.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
	"github.com/shelfwise/planogram/pkg/viewport"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      float64
	height     float64
	showLabels bool
	title      string
}

// WithSize sets the output size in pixels. Default 800x600.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithLabels draws the SKU on each front-row instance.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithTitle sets the document title element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws the fixture frame, shelf lines, and instances in
// slice order. Instances arrive sorted ascending by z-index, and SVG
// paints in document order, so the painter's-algorithm contract holds
// without re-sorting here. Boxes come from the same anchor-relative
// bounds the hit test uses; depth recession shows as reduced opacity.
func RenderSVG(fixture planogram.FixtureConfig, instances []processor.RenderInstance, opts ...SVGOption) []byte {
	r := svgRenderer{width: 800, height: 600}
	for _, opt := range opts {
		opt(&r)
	}

	view := viewport.FitTo(fixture, r.width, r.height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}

	r.renderFixture(&buf, view, fixture)
	for i := range instances {
		r.renderInstance(&buf, view, &instances[i])
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderFixture(buf *bytes.Buffer, view viewport.Viewport, fixture planogram.FixtureConfig) {
	d := fixture.Dimensions
	x0, y0 := view.WorldToScreen(planogram.Vector3{X: 0, Y: d.Height})
	x1, y1 := view.WorldToScreen(planogram.Vector3{X: d.Width, Y: 0})
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#555" stroke-width="2"/>`+"\n",
		x0, y0, x1-x0, y1-y0)

	for _, s := range fixture.Shelves {
		sx0, sy := view.WorldToScreen(planogram.Vector3{X: 0, Y: s.BaseHeight})
		sx1, _ := view.WorldToScreen(planogram.Vector3{X: d.Width, Y: s.BaseHeight})
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-width="1"/>`+"\n",
			sx0, sy, sx1, sy)
	}
}

func (r *svgRenderer) renderInstance(buf *bytes.Buffer, view viewport.Viewport, inst *processor.RenderInstance) {
	b := inst.Bounds()
	x, y := view.WorldToScreen(planogram.Vector3{X: b.MinX, Y: b.MaxY})
	w := (b.MaxX - b.MinX) * view.Scale
	h := (b.MaxY - b.MinY) * view.Scale
	opacity := 0.4 + 0.6*inst.DepthScale

	fmt.Fprintf(buf, `  <rect id="inst-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#7aa5d2" fill-opacity="%.2f" stroke="#2b4a6f" stroke-width="1"/>`+"\n",
		html.EscapeString(inst.ID), x, y, w, h, opacity)

	if r.showLabels && inst.DepthCategory == processor.DepthFront && inst.Facing.X == 0 && inst.Facing.Y == 0 {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="10" fill="#222">%s</text>`+"\n",
			x+2, y+h-4, html.EscapeString(inst.SKU))
	}
}
