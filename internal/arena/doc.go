// Package arena provides the preallocated scratch memory of a sorter.
//
// Every buffer the ranking engine touches during a sort is allocated once,
// when the sorter is constructed, and sized for the maximum number of points
// and dimensions the sorter accepts. A sort never allocates.
//
// # Addressing
//
// Regions are addressed by explicit offsets. The int32 scratch is position
// aligned with the working index array: a call owning indices[from:until]
// owns Scratch[from:until] as well. The float64 temp area is handed down the
// recursion as a (offset, size) pair. Calls that run concurrently own
// disjoint offsets by construction, so no region is ever locked.
//
// # Recursion Depth
//
// Regions are reused level by level, so the footprint does not depend on the
// recursion depth. The depth itself is bounded by
// dimension * log_{4/3}(capacity): every split leaves at most three quarters
// of a range on the same axis.
package arena
