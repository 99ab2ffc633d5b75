// Package testutil provides testing utilities for ndsort.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded point generators and a brute-force reference ranking.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(1000, 5)     // uniform [0, 1)
//	points = rng.DiscretePoints(1000, 5, 4)  // many ties and duplicates
//	points = rng.FrontPoints(1000, 5)        // few fronts
//
// # Reference Ranking
//
//	ranks := testutil.BruteForceRanks(points, maxRank)
package testutil
