// Package planogram defines the canonical data model for retail fixture
// layouts: the fixture (shelving unit, pegboard, cooler, bin), the products
// placed on it, and the semantic coordinates that describe where each
// product sits before any world-space resolution happens.
//
// # Data levels
//
// The model distinguishes two representations of the same layout:
//
//   - L1, the persisted configuration ([Config]): fixture geometry,
//     shelves, and one [SourceProduct] per placed product with a
//     [SemanticPosition] and a facing count. This is what stores save
//     and what actions mutate.
//   - L4, the drawable projection: one render instance per expanded
//     facing. L4 lives in the processor package and is always fully
//     recomputed from L1 plus reference metadata; it is never persisted.
//
// # Coordinate conventions
//
// World space is fixture-relative millimeters, Y-up, with the origin at
// the fixture's bottom-left-front corner. Semantic positions are
// fixture-type-specific (a shelf x-offset plus shelf index, a pegboard
// grid cell, a free 3D point, a bin slot) and are converted to world
// space by the placement models in the placement package.
//
// # Validation
//
// Domain validity (bounds, collisions, missing metadata) is represented
// as [Issue] values collected into an [IssueList], never as Go errors.
// Go errors are reserved for I/O and missing collaborators. The shape
// contract that persisted configurations must satisfy is enforced by
// [ValidateShape].
package planogram
