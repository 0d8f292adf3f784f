package action

import (
	"github.com/charmbracelet/log"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// PlacementChecker is the placement-legality dependency of the reducer.
// The authority package's Checker satisfies it; the reducer and the
// intent validator run the same checks so an action the reducer rolls
// back is exactly an action intent validation would reject.
type PlacementChecker interface {
	CheckPlacement(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, candidate planogram.SourceProduct) []planogram.Issue
}

// Rejection records one rolled-back action and why.
type Rejection struct {
	Action Action            `json:"action"`
	Issues []planogram.Issue `json:"issues"`
}

// Result is the outcome of a fold: the derived configuration and any
// per-action rejections. Rejections are values, not errors; the fold
// itself never fails.
type Result struct {
	Config   planogram.Config `json:"config"`
	Rejected []Rejection      `json:"rejected,omitempty"`
}

// Reducer folds action lists over base configurations.
type Reducer struct {
	checker  PlacementChecker
	metadata map[string]planogram.ProductMetadata
	logger   *log.Logger
}

// NewReducer creates a reducer. The metadata map is the reference data
// the checker sizes products with; a nil checker disables placement
// checks entirely (every mutation applies). A nil logger falls back to
// log.Default().
func NewReducer(checker PlacementChecker, metadata map[string]planogram.ProductMetadata, logger *log.Logger) *Reducer {
	if logger == nil {
		logger = log.Default()
	}
	return &Reducer{checker: checker, metadata: metadata, logger: logger}
}

// SetMetadata replaces the reference metadata used for checks.
func (r *Reducer) SetMetadata(metadata map[string]planogram.ProductMetadata) {
	r.metadata = metadata
}

// WithMetadata returns a copy of the reducer bound to the given
// metadata, leaving the receiver untouched. Concurrent folds each take
// their own copy instead of mutating a shared reducer.
func (r *Reducer) WithMetadata(metadata map[string]planogram.ProductMetadata) *Reducer {
	return &Reducer{checker: r.checker, metadata: metadata, logger: r.logger}
}

// Reduce clones base and folds actions left to right. Per-action
// behavior:
//
//   - add-product appends unconditionally, even into an invalid
//     position. A product never silently disappears; invalidity is
//     surfaced by validation display instead.
//   - move, update-facings, and update-product mutate speculatively,
//     re-check placement, and roll back just that action's mutation on
//     failure. The rollback is logged and recorded, never thrown, so
//     one bad action inside a list cannot poison the whole fold.
//   - batch recurses depth-first with no transactional atomicity: a
//     batch can partially apply when a later sub-action conflicts with
//     an earlier one's effect. Callers see that through Rejected.
//
// The base is never touched: Reduce(base, nil) returns a deep-equal
// copy.
func (r *Reducer) Reduce(base planogram.Config, actions []Action) Result {
	res := Result{Config: base.Clone()}
	for _, a := range actions {
		r.apply(&res, a)
	}
	return res
}

func (r *Reducer) apply(res *Result, a Action) {
	cfg := &res.Config
	switch a.Kind {
	case KindAddProduct:
		if a.Product == nil {
			r.reject(res, a, planogram.Errorf(planogram.IssueInvalidCoordinate, "", "add-product without product"))
			return
		}
		cfg.Products = append(cfg.Products, a.Product.Clone())

	case KindRemoveProduct:
		for i := range cfg.Products {
			if cfg.Products[i].ID == a.ProductID {
				cfg.Products = append(cfg.Products[:i], cfg.Products[i+1:]...)
				return
			}
		}
		r.rejectMissing(res, a)

	case KindMoveProduct:
		r.mutateChecked(res, a, func(p *planogram.SourceProduct) bool {
			if a.Position == nil {
				return false
			}
			p.Placement.Position = a.Position.Clone()
			return true
		})

	case KindUpdateFacings:
		r.mutateChecked(res, a, func(p *planogram.SourceProduct) bool {
			if a.Facings == nil {
				return false
			}
			p.Placement.Facings = *a.Facings
			return true
		})

	case KindUpdateProduct:
		r.mutateChecked(res, a, func(p *planogram.SourceProduct) bool {
			if a.Update == nil {
				return false
			}
			if a.Update.Position != nil {
				p.Placement.Position = a.Update.Position.Clone()
			}
			if a.Update.Facings != nil {
				p.Placement.Facings = *a.Update.Facings
			}
			if a.Update.SKU != nil {
				p.SKU = *a.Update.SKU
			}
			return true
		})

	case KindAddShelf:
		if a.Shelf == nil {
			return
		}
		if _, exists := cfg.Fixture.ShelfByIndex(a.Shelf.Index); exists {
			r.reject(res, a, planogram.Errorf(planogram.IssueInvalidCoordinate, "",
				"shelf index %d already exists", a.Shelf.Index))
			return
		}
		cfg.Fixture.Shelves = append(cfg.Fixture.Shelves, *a.Shelf)

	case KindRemoveShelf:
		for i := range cfg.Fixture.Shelves {
			if cfg.Fixture.Shelves[i].ID == a.ShelfID {
				cfg.Fixture.Shelves = append(cfg.Fixture.Shelves[:i], cfg.Fixture.Shelves[i+1:]...)
				return
			}
		}

	case KindUpdateShelf:
		if a.Shelf == nil {
			return
		}
		for i := range cfg.Fixture.Shelves {
			if cfg.Fixture.Shelves[i].ID == a.Shelf.ID {
				cfg.Fixture.Shelves[i] = *a.Shelf
				return
			}
		}

	case KindUpdateFixture:
		if a.Fixture == nil {
			return
		}
		if a.Fixture.Dimensions != nil {
			cfg.Fixture.Dimensions = *a.Fixture.Dimensions
		}
		if a.Fixture.PlacementModelID != nil {
			cfg.Fixture.PlacementModelID = *a.Fixture.PlacementModelID
		}
		if a.Fixture.Visual != nil {
			cfg.Fixture.Visual = *a.Fixture.Visual
		}

	case KindBatch:
		for _, sub := range a.Actions {
			r.apply(res, sub)
		}

	default:
		r.logger.Warn("ignoring action of unknown kind", "kind", a.Kind)
	}
}

// mutateChecked applies a speculative mutation to the target product,
// re-runs placement checks, and restores the pre-action value when the
// new placement is illegal.
func (r *Reducer) mutateChecked(res *Result, a Action, mutate func(*planogram.SourceProduct) bool) {
	cfg := &res.Config
	target := cfg.ProductByID(a.ProductID)
	if target == nil {
		r.rejectMissing(res, a)
		return
	}

	before := target.Clone()
	if !mutate(target) {
		*target = before
		r.reject(res, a, planogram.Errorf(planogram.IssueInvalidCoordinate, a.ProductID,
			"%s without payload", a.Kind))
		return
	}

	if r.checker != nil {
		if issues := r.checker.CheckPlacement(*cfg, r.metadata, *target); len(issues) > 0 {
			*target = before
			r.logger.Warn("rolled back action", "kind", a.Kind, "product", a.ProductID,
				"issues", len(issues))
			res.Rejected = append(res.Rejected, Rejection{Action: a, Issues: issues})
			return
		}
	}
}

func (r *Reducer) reject(res *Result, a Action, issues ...planogram.Issue) {
	r.logger.Warn("rejected action", "kind", a.Kind, "product", a.TargetProductID())
	res.Rejected = append(res.Rejected, Rejection{Action: a, Issues: issues})
}

func (r *Reducer) rejectMissing(res *Result, a Action) {
	r.reject(res, a, planogram.Errorf(planogram.IssueInvalidCoordinate, a.ProductID,
		"no product with id %q", a.ProductID))
}
