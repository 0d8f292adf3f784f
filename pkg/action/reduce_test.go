package action

import (
	"reflect"
	"testing"
	"time"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// failChecker rejects any candidate whose marker func returns issues.
type failChecker struct {
	fn func(candidate planogram.SourceProduct) []planogram.Issue
}

func (c failChecker) CheckPlacement(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, candidate planogram.SourceProduct) []planogram.Issue {
	return c.fn(candidate)
}

func passAll(planogram.SourceProduct) []planogram.Issue { return nil }

func rejectAll(p planogram.SourceProduct) []planogram.Issue {
	return []planogram.Issue{planogram.Errorf(planogram.IssueCollision, p.ID, "blocked")}
}

func baseConfig() planogram.Config {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return planogram.Config{
		ID:        "aisle-1",
		Name:      "Aisle 1",
		CreatedAt: now,
		UpdatedAt: now,
		Fixture: planogram.FixtureConfig{
			Type:             "gondola",
			PlacementModelID: string(planogram.ModelShelfSurface),
			Dimensions:       planogram.Dimensions{Width: 1000, Height: 1800, Depth: 500},
			Shelves: []planogram.ShelfConfig{
				{ID: "s0", Index: 0, BaseHeight: 200},
				{ID: "s1", Index: 1, BaseHeight: 650},
			},
		},
		Products: []planogram.SourceProduct{
			{
				ID:  "p1",
				SKU: "COLA-330",
				Placement: planogram.Placement{
					Position: planogram.NewShelfPosition(100, 0, 0),
					Facings:  planogram.FacingConfig{Horizontal: 2, Vertical: 1},
				},
			},
		},
	}
}

func newProduct(id string, x float64) planogram.SourceProduct {
	return planogram.SourceProduct{
		ID:  id,
		SKU: "WATER-500",
		Placement: planogram.Placement{
			Position: planogram.NewShelfPosition(x, 0, 0),
			Facings:  planogram.FacingConfig{Horizontal: 1, Vertical: 1},
		},
	}
}

func TestReduceIdentity(t *testing.T) {
	base := baseConfig()
	res := NewReducer(failChecker{passAll}, nil, nil).Reduce(base, nil)

	if !reflect.DeepEqual(res.Config, base) {
		t.Fatal("Reduce(base, nil) must deep-equal base")
	}

	// And it must be a copy, not the same backing storage.
	res.Config.Products[0].Placement.Position.Shelf.X = 999
	if base.Products[0].Placement.Position.Shelf.X == 999 {
		t.Fatal("Reduce result shares storage with base")
	}
}

func TestReduceIsDeterministic(t *testing.T) {
	base := baseConfig()
	actions := []Action{
		AddProduct(newProduct("p2", 400)),
		MoveProduct("p1", planogram.NewShelfPosition(250, 1, 0)),
		UpdateFacings("p2", planogram.FacingConfig{Horizontal: 3, Vertical: 1}),
	}
	r := NewReducer(failChecker{passAll}, nil, nil)

	first := r.Reduce(base, actions)
	second := r.Reduce(base, actions)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same base and actions must reduce to identical results")
	}
}

func TestReduceAddProductAlwaysApplies(t *testing.T) {
	base := baseConfig()
	// Even with a checker that rejects everything, add-product lands.
	r := NewReducer(failChecker{rejectAll}, nil, nil)
	res := r.Reduce(base, []Action{AddProduct(newProduct("p2", 120))})

	if len(res.Config.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(res.Config.Products))
	}
	if len(res.Rejected) != 0 {
		t.Fatalf("add-product was rejected: %v", res.Rejected)
	}
}

func TestReduceMoveRollsBackOnRejection(t *testing.T) {
	base := baseConfig()
	r := NewReducer(failChecker{rejectAll}, nil, nil)
	res := r.Reduce(base, []Action{MoveProduct("p1", planogram.NewShelfPosition(500, 1, 0))})

	got := res.Config.Products[0].Placement.Position
	if got.Shelf.X != 100 || got.Shelf.ShelfIndex != 0 {
		t.Fatalf("position = %+v, want rollback to x=100 shelf=0", got.Shelf)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Action.Kind != KindMoveProduct {
		t.Fatalf("rejected = %+v", res.Rejected)
	}
	if len(res.Rejected[0].Issues) == 0 {
		t.Fatal("rejection must carry the issues")
	}
}

func TestReduceRollbackIsPerAction(t *testing.T) {
	base := baseConfig()
	// Reject only moves of p1; everything else passes.
	checker := failChecker{fn: func(p planogram.SourceProduct) []planogram.Issue {
		if p.ID == "p1" {
			return rejectAll(p)
		}
		return nil
	}}
	r := NewReducer(checker, nil, nil)

	res := r.Reduce(base, []Action{
		AddProduct(newProduct("p2", 400)),
		MoveProduct("p1", planogram.NewShelfPosition(700, 0, 0)), // rolled back
		MoveProduct("p2", planogram.NewShelfPosition(600, 1, 0)), // applies
	})

	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %+v, want exactly the p1 move", res.Rejected)
	}
	if res.Config.Products[0].Placement.Position.Shelf.X != 100 {
		t.Error("p1 move not rolled back")
	}
	p2 := res.Config.ProductByID("p2")
	if p2 == nil || p2.Placement.Position.Shelf.ShelfIndex != 1 {
		t.Errorf("p2 = %+v, want moved to shelf 1", p2)
	}
}

func TestReduceRemoveProduct(t *testing.T) {
	base := baseConfig()
	r := NewReducer(failChecker{passAll}, nil, nil)

	res := r.Reduce(base, []Action{RemoveProduct("p1")})
	if len(res.Config.Products) != 0 {
		t.Fatalf("products = %d, want 0", len(res.Config.Products))
	}

	res = r.Reduce(base, []Action{RemoveProduct("ghost")})
	if len(res.Rejected) != 1 {
		t.Fatalf("removing unknown id should be recorded, got %+v", res.Rejected)
	}
}

func TestReduceShelfActions(t *testing.T) {
	base := baseConfig()
	r := NewReducer(failChecker{passAll}, nil, nil)

	t.Run("add shelf", func(t *testing.T) {
		res := r.Reduce(base, []Action{AddShelf(planogram.ShelfConfig{ID: "s2", Index: 2, BaseHeight: 1100})})
		if len(res.Config.Fixture.Shelves) != 3 {
			t.Fatalf("shelves = %d, want 3", len(res.Config.Fixture.Shelves))
		}
	})

	t.Run("duplicate shelf index rejected", func(t *testing.T) {
		res := r.Reduce(base, []Action{AddShelf(planogram.ShelfConfig{ID: "dup", Index: 0, BaseHeight: 50})})
		if len(res.Config.Fixture.Shelves) != 2 || len(res.Rejected) != 1 {
			t.Fatalf("shelves = %d rejected = %d", len(res.Config.Fixture.Shelves), len(res.Rejected))
		}
	})

	t.Run("update shelf", func(t *testing.T) {
		res := r.Reduce(base, []Action{UpdateShelf(planogram.ShelfConfig{ID: "s1", Index: 1, BaseHeight: 700})})
		s, _ := res.Config.Fixture.ShelfByIndex(1)
		if s.BaseHeight != 700 {
			t.Fatalf("baseHeight = %g, want 700", s.BaseHeight)
		}
	})

	t.Run("remove shelf", func(t *testing.T) {
		res := r.Reduce(base, []Action{RemoveShelf("s1")})
		if len(res.Config.Fixture.Shelves) != 1 {
			t.Fatalf("shelves = %d, want 1", len(res.Config.Fixture.Shelves))
		}
	})
}

func TestReduceUpdateFixture(t *testing.T) {
	base := baseConfig()
	r := NewReducer(failChecker{passAll}, nil, nil)

	dims := planogram.Dimensions{Width: 900, Height: 2000, Depth: 450}
	modelID := "pegboard-grid"
	res := r.Reduce(base, []Action{UpdateFixture(FixtureUpdate{Dimensions: &dims, PlacementModelID: &modelID})})

	if res.Config.Fixture.Dimensions != dims {
		t.Errorf("dimensions = %+v", res.Config.Fixture.Dimensions)
	}
	if res.Config.Fixture.PlacementModelID != modelID {
		t.Errorf("placementModelId = %s", res.Config.Fixture.PlacementModelID)
	}
}

func TestReduceBatchIsNotAtomic(t *testing.T) {
	base := baseConfig()
	checker := failChecker{fn: func(p planogram.SourceProduct) []planogram.Issue {
		if p.ID == "p1" {
			return rejectAll(p)
		}
		return nil
	}}
	r := NewReducer(checker, nil, nil)

	res := r.Reduce(base, []Action{Batch(
		AddProduct(newProduct("p2", 400)),
		MoveProduct("p1", planogram.NewShelfPosition(800, 0, 0)),
		MoveProduct("p2", planogram.NewShelfPosition(600, 0, 0)),
	)})

	// The add and the p2 move survive a rejected sibling.
	if res.Config.ProductByID("p2") == nil {
		t.Fatal("batch add dropped")
	}
	if got := res.Config.ProductByID("p2").Placement.Position.Shelf.X; got != 600 {
		t.Errorf("p2 x = %g, want 600", got)
	}
	if len(res.Rejected) != 1 {
		t.Errorf("rejected = %+v, want the p1 move only", res.Rejected)
	}
}

func TestReduceNilCheckerAppliesEverything(t *testing.T) {
	base := baseConfig()
	r := NewReducer(nil, nil, nil)
	res := r.Reduce(base, []Action{MoveProduct("p1", planogram.NewShelfPosition(-500, 0, 0))})
	if got := res.Config.Products[0].Placement.Position.Shelf.X; got != -500 {
		t.Fatalf("x = %g, want -500 (no checker, no rollback)", got)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		a    Action
		want bool
	}{
		{MoveProduct("p", planogram.NewShelfPosition(0, 0, 0)), true},
		{UpdateFacings("p", planogram.FacingConfig{Horizontal: 1, Vertical: 1}), true},
		{UpdateProduct("p", ProductUpdate{}), true},
		{AddProduct(planogram.SourceProduct{}), false},
		{RemoveProduct("p"), false},
		{Batch(), false},
	}
	for _, tt := range tests {
		if got := tt.a.Transient(); got != tt.want {
			t.Errorf("Transient(%s) = %v, want %v", tt.a.Kind, got, tt.want)
		}
	}
}
