package authority

import (
	"fmt"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// SuggestRequest asks for a best-fit empty slot for a SKU.
type SuggestRequest struct {
	SKU string `json:"sku"`

	// PreferredShelf is tried first when set. Ignored when
	// AllowedShelves is non-empty.
	PreferredShelf *int `json:"preferredShelf,omitempty"`

	// AllowedShelves, when non-empty, is the exact try order.
	AllowedShelves []int `json:"allowedShelves,omitempty"`
}

// Suggestion is a proposed placement. Fallback marks the permissive
// last resort: no shelf had room, so the position is x=0 on the first
// candidate shelf even though it likely collides. Callers that want
// strict behavior reject fallback suggestions; display flows can still
// place the product and let validation surface the overlap.
type Suggestion struct {
	Position planogram.SemanticPosition `json:"position"`
	Fallback bool                       `json:"fallback,omitempty"`
}

// SuggestPlacement finds the first shelf, in request order, whose used
// width leaves room for the product at the front depth, and proposes
// x = usedWidth there. Used width on a shelf is the rightmost extent
// (x + width*facings) over the products already on it, at any depth.
//
// It returns an error only when the SKU has no metadata (the product
// cannot be sized) or the fixture has no shelves at all.
func (c *Checker) SuggestPlacement(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, req SuggestRequest) (Suggestion, error) {
	meta, ok := metadata[req.SKU]
	if !ok {
		return Suggestion{}, fmt.Errorf("no metadata for sku %q", req.SKU)
	}
	if len(cfg.Fixture.Shelves) == 0 {
		return Suggestion{}, fmt.Errorf("fixture has no shelves")
	}

	order := shelfTryOrder(cfg, req)
	for _, index := range order {
		used := usedWidth(cfg, metadata, index)
		if used+meta.Dimensions.Width <= cfg.Fixture.Dimensions.Width {
			return Suggestion{Position: planogram.NewShelfPosition(used, index, 0)}, nil
		}
	}

	// Nothing fits. Propose x=0 on the first candidate shelf anyway
	// rather than failing; the caller sees Fallback and decides.
	return Suggestion{
		Position: planogram.NewShelfPosition(0, order[0], 0),
		Fallback: true,
	}, nil
}

// shelfTryOrder resolves the shelf sequence to try: the explicit
// allow-list when given, otherwise the preferred shelf followed by the
// rest in configuration order.
func shelfTryOrder(cfg planogram.Config, req SuggestRequest) []int {
	if len(req.AllowedShelves) > 0 {
		return req.AllowedShelves
	}
	order := make([]int, 0, len(cfg.Fixture.Shelves))
	if req.PreferredShelf != nil {
		order = append(order, *req.PreferredShelf)
	}
	for _, s := range cfg.Fixture.Shelves {
		if req.PreferredShelf != nil && s.Index == *req.PreferredShelf {
			continue
		}
		order = append(order, s.Index)
	}
	return order
}

// usedWidth returns the rightmost occupied extent on a shelf across all
// depth rows. Products without metadata contribute nothing.
func usedWidth(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, shelfIndex int) float64 {
	var used float64
	for _, p := range cfg.Products {
		pos := p.Placement.Position
		if pos.Model != planogram.ModelShelfSurface || pos.Shelf == nil || pos.Shelf.ShelfIndex != shelfIndex {
			continue
		}
		meta, ok := metadata[p.SKU]
		if !ok {
			continue
		}
		right := pos.Shelf.X + meta.Dimensions.Width*float64(p.Placement.Facings.Horizontal)
		if right > used {
			used = right
		}
	}
	return used
}
