package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// points allocates num points over a single backing array and fills every
// coordinate with gen.
func points(num, dimension int, gen func() float64) [][]float64 {
	data := make([]float64, num*dimension)
	out := make([][]float64, num)
	for i := range num {
		p := data[i*dimension : (i+1)*dimension : (i+1)*dimension]
		for j := range p {
			p[j] = gen()
		}
		out[i] = p
	}
	return out
}

// UniformPoints generates points with coordinates in range [0, 1).
func (r *RNG) UniformPoints(num, dimension int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return points(num, dimension, r.rand.Float64)
}

// DiscretePoints generates points with integer coordinates in [0, levels).
// Small levels produce many equal coordinates and duplicate points.
func (r *RNG) DiscretePoints(num, dimension, levels int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return points(num, dimension, func() float64 {
		return float64(r.rand.Intn(levels))
	})
}

// FrontPoints generates points close to the hyperplane sum(x) = 1, so most
// of them are mutually non-dominating and only a few fronts exist.
func (r *RNG) FrontPoints(num, dimension int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := points(num, dimension, r.rand.ExpFloat64)
	for _, p := range out {
		var sum float64
		for _, v := range p {
			sum += v
		}
		noise := 1 + 0.01*r.rand.Float64()
		for j := range p {
			p[j] = p[j] / sum * noise
		}
	}
	return out
}

// ChainPoints generates a strictly dominating chain in shuffled order; the
// point at original position i has rank order[i].
func (r *RNG) ChainPoints(num, dimension int) (pts [][]float64, order []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order = r.rand.Perm(num)
	pts = points(num, dimension, func() float64 { return 0 })
	for i, p := range pts {
		for j := range p {
			p[j] = float64(order[i]) + float64(j)
		}
	}
	return pts, order
}

// Dominates reports whether p dominates q: p is no worse in every coordinate
// and better in at least one.
func Dominates(p, q []float64) bool {
	strict := false
	for i := range p {
		if p[i] > q[i] {
			return false
		}
		if p[i] < q[i] {
			strict = true
		}
	}
	return strict
}

// BruteForceRanks computes Pareto ranks by comparing every pair, saturating
// them at maxRank+1.
func BruteForceRanks(pts [][]float64, maxRank int) []int {
	n := len(pts)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// a dominator always precedes in lexicographic order
	slices.SortFunc(order, func(a, b int) int {
		return slices.Compare(pts[a], pts[b])
	})

	ranks := make([]int, n)
	for k, i := range order {
		for _, j := range order[:k] {
			if ranks[j] >= ranks[i] && Dominates(pts[j], pts[i]) {
				ranks[i] = ranks[j] + 1
			}
		}
	}

	limit := maxRank + 1
	if maxRank >= math.MaxInt-1 {
		limit = math.MaxInt
	}
	for i, r := range ranks {
		ranks[i] = min(r, limit)
	}
	return ranks
}
