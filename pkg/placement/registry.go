package placement

import "github.com/shelfwise/planogram/pkg/planogram"

// Registry holds placement models keyed by id, preserving registration
// order. It is passed explicitly into the processor, the authority, and
// the viewport instead of living as a package global, so tests can run
// isolated registries in parallel.
type Registry struct {
	models map[planogram.PositionModel]Model
	order  []planogram.PositionModel
}

// NewRegistry returns a registry with the four built-in models
// registered: shelf-surface, pegboard-grid, freeform-3d, basket-bin.
func NewRegistry() *Registry {
	r := &Registry{models: make(map[planogram.PositionModel]Model)}
	r.Register(ShelfSurface{})
	r.Register(PegboardGrid{})
	r.Register(Freeform3D{})
	r.Register(BasketBin{})
	return r
}

// Register adds or replaces a model. Re-registering an id keeps its
// original position in registration order.
func (r *Registry) Register(m Model) {
	id := m.ID()
	if _, exists := r.models[id]; !exists {
		r.order = append(r.order, id)
	}
	r.models[id] = m
}

// Get returns the model with the given id, or false if none is
// registered. Callers that want the compatibility default should use
// Resolve instead.
func (r *Registry) Get(id planogram.PositionModel) (Model, bool) {
	m, ok := r.models[id]
	return m, ok
}

// Resolve returns the model for id, falling back to shelf-surface when
// the id is unknown. This is the documented compatibility default for
// configurations written by older tooling. Resolve returns false only
// when not even shelf-surface is registered, which is a programmer
// fault in registry setup, not a data condition.
func (r *Registry) Resolve(id planogram.PositionModel) (Model, bool) {
	if m, ok := r.models[id]; ok {
		return m, true
	}
	m, ok := r.models[planogram.ModelShelfSurface]
	return m, ok
}

// All returns the registered models in registration order.
func (r *Registry) All() []Model {
	out := make([]Model, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}
