// Package ndsort computes Pareto ranks (non-dominated sorting) of point sets.
//
// A point p dominates q if p is no worse than q in every coordinate and
// strictly better in at least one (smaller is better). The rank of a point is
// the length of the longest dominating chain ending at it; rank 0 holds the
// points no one dominates. Callers that only need the first fronts pass a
// rank ceiling: ranks above it are reported as ceiling+1 and those points
// leave the computation early.
//
// # Quick Start
//
//	s, _ := ndsort.New(1000, 3)
//	ranks := make([]int, len(points))
//	_ = s.Sort(points, ranks, math.MaxInt32)
//
// # Configuration
//
// The sorter runs a divide-and-conquer algorithm whose last step sweeps two
// axes with a rank-query structure. Options select the structure and how the
// algorithm runs:
//
//	s, _ := ndsort.New(100_000, 5,
//	    ndsort.WithBackend(rankquery.KindTree),       // or KindFenwick, KindVanEmdeBoas
//	    ndsort.WithHybrid(hybrid.Quadratic{Threshold: 32}),
//	    ndsort.WithThreads(ndsort.UnlimitedThreads),
//	    ndsort.WithLogger(ndsort.NewTextLogger(slog.LevelDebug)),
//	)
//
// Named configurations are resolved through a Registry:
//
//	reg := ndsort.DefaultRegistry()
//	s, _ := reg.New("jfb.tree.quadratic.t4", 100_000, 5)
//
// # Memory
//
// New allocates all working memory for maxPoints points of maxDimension
// coordinates. WithMemoryLimit and WithBudget bound that allocation; Close
// returns it to a shared budget.
//
// # Concurrency
//
// Sort calls on one Sorter are serialized. With more than one thread a sort
// forks independent subproblems onto goroutines; results are identical for
// every thread count. SortBatch ranks many independent populations in
// parallel.
package ndsort
