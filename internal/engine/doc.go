// Package engine implements the divide-and-conquer non-dominated sorting
// engine.
//
// # Pipeline
//
// Sort lexicographically orders the points, collapses duplicates and
// transposes the survivors into per-axis columns. A point's identity is its
// position in that order, so a dominator always has a smaller identity. One
// and two axes have direct solutions; otherwise helperA runs over all
// identities with the last axis active.
//
// # Recursion
//
// helperA ranks a range against itself. It splits the range at the median
// of the active axis, ranks the lower part, lets it raise the upper part
// through helperB one axis down, ranks the upper part and merges both back
// into identity order. helperB propagates the final ranks of a good range to
// a weak range and splits both ranges the same way. When two axes remain the
// sweeps finish the work with a rank-query structure.
//
// Every call returns the new end of its live range: points whose rank would
// exceed the ceiling get rank ceiling+1 and are dropped from further
// comparisons.
//
// # Concurrency
//
// Independent helperB calls may run on forked goroutines when a worker slot
// is free. Forked calls touch disjoint positions of the index array and
// disjoint temp regions, so no locks guard the arena.
package engine
