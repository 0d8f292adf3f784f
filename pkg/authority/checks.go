// Package authority is the validation and suggestion engine: bounds and
// collision checks for placement intents, and best-fit empty-space
// search across shelves. The session reducer and the processor both
// delegate placement legality to this package so that editing-time
// checks and display-time validation can never disagree.
package authority

import (
	"math"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// CollisionTolerance absorbs floating-point jitter at touching edges:
// two products whose intervals overlap by no more than this many mm are
// not in collision.
const CollisionTolerance = 0.5

// Checker runs placement checks against a configuration. The zero value
// is usable; Checker exists so callers hold one dependency rather than
// free functions, mirroring how the processor is passed around.
type Checker struct{}

// NewChecker returns a Checker.
func NewChecker() *Checker { return &Checker{} }

// CheckPlacement validates a candidate product placement against the
// configuration: coordinate sanity first (so NaN never reaches interval
// math), then fixture bounds, then AABB collision against other
// products on the same shelf index and depth level. The candidate is
// compared by ID, so checking a moved product does not collide it with
// its own previous placement.
//
// Checks are defined for shelf-surface placements; other models pass
// through clean. That asymmetry is a known gap, matched by the intent
// validator, not a hidden bug.
func (c *Checker) CheckPlacement(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, candidate planogram.SourceProduct) []planogram.Issue {
	pos := candidate.Placement.Position
	if pos.Model != planogram.ModelShelfSurface {
		return nil
	}

	if issue, bad := checkCoordinates(candidate); bad {
		return []planogram.Issue{issue}
	}

	meta, ok := metadata[candidate.SKU]
	if !ok {
		return []planogram.Issue{planogram.Errorf(planogram.IssueMissingMetadata,
			candidate.ID, "no metadata for sku %q", candidate.SKU)}
	}

	var issues []planogram.Issue
	sp := pos.Shelf
	width := meta.Dimensions.Width * float64(candidate.Placement.Facings.Horizontal)

	if _, ok := cfg.Fixture.ShelfByIndex(sp.ShelfIndex); !ok {
		issues = append(issues, planogram.Errorf(planogram.IssueOutOfBounds,
			candidate.ID, "fixture has no shelf with index %d", sp.ShelfIndex))
		return issues
	}
	if sp.X < 0 || sp.X+width > cfg.Fixture.Dimensions.Width+CollisionTolerance {
		issues = append(issues, planogram.Errorf(planogram.IssueOutOfBounds,
			candidate.ID, "placement [%.1f, %.1f] exceeds fixture width %.1f",
			sp.X, sp.X+width, cfg.Fixture.Dimensions.Width))
	}

	issues = append(issues, c.collisions(cfg, metadata, candidate, sp, width)...)
	return issues
}

// collisions finds AABB overlaps with other products sharing the
// candidate's shelf index and depth level. Products whose SKU has no
// metadata are skipped; their width is unknowable and they are already
// reported elsewhere.
func (c *Checker) collisions(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, candidate planogram.SourceProduct, sp *planogram.ShelfPosition, width float64) []planogram.Issue {
	var issues []planogram.Issue
	for _, other := range cfg.Products {
		if other.ID == candidate.ID {
			continue
		}
		op := other.Placement.Position
		if op.Model != planogram.ModelShelfSurface || op.Shelf == nil {
			continue
		}
		if op.Shelf.ShelfIndex != sp.ShelfIndex || op.Shelf.Depth != sp.Depth {
			continue
		}
		om, ok := metadata[other.SKU]
		if !ok {
			continue
		}
		otherWidth := om.Dimensions.Width * float64(other.Placement.Facings.Horizontal)
		overlap := math.Min(sp.X+width, op.Shelf.X+otherWidth) - math.Max(sp.X, op.Shelf.X)
		if overlap > CollisionTolerance {
			issues = append(issues, planogram.Errorf(planogram.IssueCollision,
				candidate.ID, "overlaps product %q on shelf %d by %.1fmm",
				other.ID, sp.ShelfIndex, overlap))
		}
	}
	return issues
}

// checkCoordinates rejects non-numeric placement fields and sub-minimum
// facing counts before any geometric reasoning happens.
func checkCoordinates(p planogram.SourceProduct) (planogram.Issue, bool) {
	sp := p.Placement.Position.Shelf
	if sp == nil {
		return planogram.Errorf(planogram.IssueInvalidCoordinate, p.ID,
			"shelf-surface position without shelf fields"), true
	}
	if math.IsNaN(sp.X) || math.IsInf(sp.X, 0) {
		return planogram.Errorf(planogram.IssueInvalidCoordinate, p.ID,
			"position x is not a number"), true
	}
	f := p.Placement.Facings
	if f.Horizontal < 1 || f.Vertical < 1 {
		return planogram.Errorf(planogram.IssueInvalidCoordinate, p.ID,
			"facings must be >= 1, got %dx%d", f.Horizontal, f.Vertical), true
	}
	return planogram.Issue{}, false
}
