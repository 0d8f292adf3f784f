package planogram

// Clone returns a deep copy of the configuration using per-field copy
// constructors rather than a serialization round trip, so non-JSON
// state survives and cloning stays allocation-proportional to size.
// The reducer clones before folding; nothing it does can reach back
// into the original.
func (c Config) Clone() Config {
	out := c
	out.Fixture = c.Fixture.Clone()
	if c.Products != nil {
		out.Products = make([]SourceProduct, len(c.Products))
		for i, p := range c.Products {
			out.Products[i] = p.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the fixture.
func (f FixtureConfig) Clone() FixtureConfig {
	out := f
	if f.Shelves != nil {
		out.Shelves = make([]ShelfConfig, len(f.Shelves))
		copy(out.Shelves, f.Shelves)
	}
	return out
}

// Clone returns a deep copy of the product, including its semantic
// position's variant struct.
func (p SourceProduct) Clone() SourceProduct {
	out := p
	out.Placement.Position = p.Placement.Position.Clone()
	return out
}
