package authority

import (
	"github.com/shelfwise/planogram/pkg/action"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// IntentResult is the verdict on a proposed action before it is
// dispatched. Valid means the action passes placement checks. CanRender
// means the resulting product would still expand into instances: a
// colliding placement is invalid but renderable; a placement with no
// metadata or broken coordinates is neither.
type IntentResult struct {
	Valid     bool              `json:"valid"`
	CanRender bool              `json:"canRender"`
	Errors    []planogram.Issue `json:"errors,omitempty"`
	Warnings  []planogram.Issue `json:"warnings,omitempty"`
}

// ValidateIntent checks a proposed action against the current
// configuration. Add, move, update-facings, and update-product delegate
// to the bounds and collision checks; every other kind (shelf edits,
// fixture edits, batches) passes through as trivially valid. That
// pass-through is a documented gap in the check surface, matching the
// reducer, not a hidden bug.
func (c *Checker) ValidateIntent(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, a action.Action) IntentResult {
	candidate, ok := c.candidateFor(cfg, a)
	if !ok {
		return IntentResult{Valid: true, CanRender: true}
	}
	if candidate == nil {
		return IntentResult{
			Errors: []planogram.Issue{planogram.Errorf(planogram.IssueInvalidCoordinate,
				a.TargetProductID(), "no product with id %q", a.TargetProductID())},
		}
	}

	issues := c.CheckPlacement(cfg, metadata, *candidate)
	res := IntentResult{Valid: len(issues) == 0, CanRender: true}
	for _, issue := range issues {
		res.Errors = append(res.Errors, issue)
		// Collisions and bounds overflows still render; broken
		// coordinates and unknown SKUs do not.
		if issue.Code == planogram.IssueInvalidCoordinate || issue.Code == planogram.IssueMissingMetadata {
			res.CanRender = false
		}
	}
	return res
}

// candidateFor builds the product as it would look after the action.
// The second return is false for action kinds outside the check
// surface; a nil candidate with true means the target product does not
// exist.
func (c *Checker) candidateFor(cfg planogram.Config, a action.Action) (*planogram.SourceProduct, bool) {
	switch a.Kind {
	case action.KindAddProduct:
		if a.Product == nil {
			return nil, true
		}
		p := a.Product.Clone()
		return &p, true

	case action.KindMoveProduct, action.KindUpdateFacings, action.KindUpdateProduct:
		existing := cfg.ProductByID(a.ProductID)
		if existing == nil {
			return nil, true
		}
		p := existing.Clone()
		switch a.Kind {
		case action.KindMoveProduct:
			if a.Position != nil {
				p.Placement.Position = a.Position.Clone()
			}
		case action.KindUpdateFacings:
			if a.Facings != nil {
				p.Placement.Facings = *a.Facings
			}
		case action.KindUpdateProduct:
			if a.Update != nil {
				if a.Update.Position != nil {
					p.Placement.Position = a.Update.Position.Clone()
				}
				if a.Update.Facings != nil {
					p.Placement.Facings = *a.Update.Facings
				}
				if a.Update.SKU != nil {
					p.SKU = *a.Update.SKU
				}
			}
		}
		return &p, true
	}
	return nil, false
}

var _ action.PlacementChecker = (*Checker)(nil)
