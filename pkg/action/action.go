// Package action defines the serializable edit operations applied to a
// planogram configuration and the pure reducer that folds them over a
// base config. The action log is the unit of history: undo, redo, and
// squash all operate on actions, never on derived state.
package action

import "github.com/shelfwise/planogram/pkg/planogram"

// Kind tags the action union.
type Kind string

const (
	KindAddProduct    Kind = "add-product"
	KindRemoveProduct Kind = "remove-product"
	KindMoveProduct   Kind = "move-product"
	KindUpdateFacings Kind = "update-facings"
	KindUpdateProduct Kind = "update-product"
	KindAddShelf      Kind = "add-shelf"
	KindRemoveShelf   Kind = "remove-shelf"
	KindUpdateShelf   Kind = "update-shelf"
	KindUpdateFixture Kind = "update-fixture"
	KindBatch         Kind = "batch"
)

// ProductUpdate is the payload of an atomic product update: any subset
// of position, facings, and SKU changed together, validated as one.
type ProductUpdate struct {
	Position *planogram.SemanticPosition `json:"position,omitempty"`
	Facings  *planogram.FacingConfig     `json:"facings,omitempty"`
	SKU      *string                     `json:"sku,omitempty"`
}

// FixtureUpdate changes fixture-level properties. Nil fields are left
// untouched.
type FixtureUpdate struct {
	Dimensions       *planogram.Dimensions       `json:"dimensions,omitempty"`
	PlacementModelID *string                     `json:"placementModelId,omitempty"`
	Visual           *planogram.VisualProperties `json:"visual,omitempty"`
}

// Action is the tagged union of planogram edits. Exactly the payload
// fields for Kind are set. Actions marshal to JSON and replay
// deterministically, so an action log plus a base config fully
// reproduces a derived config.
type Action struct {
	Kind Kind `json:"kind"`

	Product   *planogram.SourceProduct    `json:"product,omitempty"`   // add-product
	ProductID string                      `json:"productId,omitempty"` // remove/move/facings/update
	Position  *planogram.SemanticPosition `json:"position,omitempty"`  // move-product
	Facings   *planogram.FacingConfig     `json:"facings,omitempty"`   // update-facings
	Update    *ProductUpdate              `json:"update,omitempty"`    // update-product

	Shelf   *planogram.ShelfConfig `json:"shelf,omitempty"`   // add/update-shelf
	ShelfID string                 `json:"shelfId,omitempty"` // remove-shelf

	Fixture *FixtureUpdate `json:"fixture,omitempty"` // update-fixture

	Actions []Action `json:"actions,omitempty"` // batch
}

// AddProduct builds an add action. Adds always apply, even into invalid
// positions; invalidity surfaces through validation, never by dropping
// the product.
func AddProduct(p planogram.SourceProduct) Action {
	return Action{Kind: KindAddProduct, Product: &p}
}

// RemoveProduct builds a remove action.
func RemoveProduct(id string) Action {
	return Action{Kind: KindRemoveProduct, ProductID: id}
}

// MoveProduct builds a move action.
func MoveProduct(id string, pos planogram.SemanticPosition) Action {
	return Action{Kind: KindMoveProduct, ProductID: id, Position: &pos}
}

// UpdateFacings builds a facing-count change.
func UpdateFacings(id string, f planogram.FacingConfig) Action {
	return Action{Kind: KindUpdateFacings, ProductID: id, Facings: &f}
}

// UpdateProduct builds an atomic multi-field product update.
func UpdateProduct(id string, u ProductUpdate) Action {
	return Action{Kind: KindUpdateProduct, ProductID: id, Update: &u}
}

// AddShelf builds a shelf addition.
func AddShelf(s planogram.ShelfConfig) Action {
	return Action{Kind: KindAddShelf, Shelf: &s}
}

// RemoveShelf builds a shelf removal by shelf id. Products on the
// removed shelf keep their placements and become invalid, visibly.
func RemoveShelf(shelfID string) Action {
	return Action{Kind: KindRemoveShelf, ShelfID: shelfID}
}

// UpdateShelf builds a shelf property change, matched by shelf id.
func UpdateShelf(s planogram.ShelfConfig) Action {
	return Action{Kind: KindUpdateShelf, Shelf: &s}
}

// UpdateFixture builds a fixture-level update.
func UpdateFixture(u FixtureUpdate) Action {
	return Action{Kind: KindUpdateFixture, Fixture: &u}
}

// Batch nests actions; they apply depth-first in order.
func Batch(actions ...Action) Action {
	return Action{Kind: KindBatch, Actions: actions}
}

// Transient reports whether the action is a continuous-gesture kind:
// move, facing change, or atomic update. Only transient actions
// targeting the same product may squash into the previous history
// entry.
func (a Action) Transient() bool {
	switch a.Kind {
	case KindMoveProduct, KindUpdateFacings, KindUpdateProduct:
		return true
	}
	return false
}

// TargetProductID returns the product the action edits, or "" for
// actions without a single product target.
func (a Action) TargetProductID() string {
	switch a.Kind {
	case KindAddProduct:
		if a.Product != nil {
			return a.Product.ID
		}
	case KindRemoveProduct, KindMoveProduct, KindUpdateFacings, KindUpdateProduct:
		return a.ProductID
	}
	return ""
}
