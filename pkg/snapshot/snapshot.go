// Package snapshot wraps processor output into the immutable projected
// state the session store publishes: derived config, z-sorted render
// instances, a validation summary, and spatial indices for selection
// and hit-testing. Snapshots are replaced wholesale on every
// projection; subscribers may hold one indefinitely and never see it
// change underneath them.
package snapshot

import (
	"time"

	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
)

// SessionInfo is the session-state overlay carried on a snapshot.
type SessionInfo struct {
	Dirty       bool      `json:"dirty"`
	ActionCount int       `json:"actionCount"`
	Selection   []string  `json:"selection,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Snapshot is the complete projected state at one point in the action
// history.
type Snapshot struct {
	Config     planogram.Config           `json:"config"`
	Instances  []processor.RenderInstance `json:"instances"`
	Validation planogram.ValidationResult `json:"validation"`
	Index      *Index                     `json:"-"`
	Session    SessionInfo                `json:"session"`
}

// WithSelection returns a copy of the snapshot with the selection
// overlay replaced. Everything else, including the indices, is shared;
// selection changes never trigger a re-projection.
func (s *Snapshot) WithSelection(ids []string) *Snapshot {
	out := *s
	out.Session.Selection = append([]string(nil), ids...)
	return &out
}

// HitKind says what a resolved world point landed on.
type HitKind string

const (
	HitProduct HitKind = "product"
	HitShelf   HitKind = "shelf"
)

// Hit is the result of a successful hit test.
type Hit struct {
	Kind HitKind

	// Instance is the topmost instance under the point, set for
	// HitProduct.
	Instance *processor.RenderInstance

	// ShelfIndex is the shelf whose line the point landed near, set for
	// HitShelf.
	ShelfIndex int
}

// ShelfHitTolerance is the vertical distance in mm within which a click
// that misses every product still selects a shelf line.
const ShelfHitTolerance = 20.0

// Index holds the spatial and identity indices built per snapshot.
type Index struct {
	byProduct map[string]*processor.RenderInstance
	bySKU     map[string]planogram.ProductMetadata

	// instances is the z-sorted slice the snapshot exposes; the hit
	// test walks it in reverse so the visually topmost instance wins.
	instances []processor.RenderInstance
	fixture   planogram.FixtureConfig
}

// NewIndex builds indices over z-sorted instances. ProductByID maps
// each product to its first emitted instance (facing 0-0), which is the
// one single-click selection targets.
func NewIndex(fixture planogram.FixtureConfig, instances []processor.RenderInstance, metadata map[string]planogram.ProductMetadata) *Index {
	ix := &Index{
		byProduct: make(map[string]*processor.RenderInstance),
		bySKU:     metadata,
		instances: instances,
		fixture:   fixture,
	}
	for i := range instances {
		inst := &instances[i]
		if current, ok := ix.byProduct[inst.ProductID]; !ok || less(inst, current) {
			ix.byProduct[inst.ProductID] = inst
		}
	}
	return ix
}

// less orders instances by facing so the 0-0 facing represents the
// product regardless of z-sort position.
func less(a, b *processor.RenderInstance) bool {
	if a.Facing.Y != b.Facing.Y {
		return a.Facing.Y < b.Facing.Y
	}
	return a.Facing.X < b.Facing.X
}

// ProductByID returns the representative instance for a product id.
func (ix *Index) ProductByID(id string) (*processor.RenderInstance, bool) {
	inst, ok := ix.byProduct[id]
	return inst, ok
}

// MetadataBySKU returns the reference metadata resolved for a SKU at
// projection time.
func (ix *Index) MetadataBySKU(sku string) (planogram.ProductMetadata, bool) {
	m, ok := ix.bySKU[sku]
	return m, ok
}

// ResolveWorldPoint hit-tests a world-space x/y point. Instances are
// walked topmost first (reverse z-order) using the same anchor-relative
// bounds the renderer draws with, so a click always lands on what is
// visually on top. When no product is hit, a shelf line within
// ShelfHitTolerance is returned instead; otherwise the test misses.
func (ix *Index) ResolveWorldPoint(x, y float64) (Hit, bool) {
	for i := len(ix.instances) - 1; i >= 0; i-- {
		inst := &ix.instances[i]
		if inst.Bounds().Contains(x, y) {
			return Hit{Kind: HitProduct, Instance: inst}, true
		}
	}

	bestDist := ShelfHitTolerance
	hit := Hit{Kind: HitShelf, ShelfIndex: -1}
	for _, s := range ix.fixture.Shelves {
		d := y - s.BaseHeight
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			bestDist = d
			hit.ShelfIndex = s.Index
		}
	}
	if hit.ShelfIndex >= 0 && x >= 0 && x <= ix.fixture.Dimensions.Width {
		return hit, true
	}
	return Hit{}, false
}
