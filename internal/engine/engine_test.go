package engine

import (
	"fmt"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/internal/resource"
	"github.com/hupe1980/ndsort/rankquery"
	"github.com/hupe1980/ndsort/testutil"
)

func newTestEngine(t *testing.T, maxPoints, maxDim int, kind rankquery.Kind, strategy hybrid.Strategy, workers int64) *Engine {
	t.Helper()

	backend, err := rankquery.New(kind, maxPoints)
	require.NoError(t, err)

	e, err := New(Config{
		MaxPoints:         maxPoints,
		MaxDimension:      maxDim,
		Backend:           backend,
		Hybrid:            strategy,
		Workers:           resource.NewController(resource.Config{MaxWorkers: workers}),
		ParallelThreshold: 10,
		ForkThreshold:     16,
		CheckConsistency:  true,
	})
	require.NoError(t, err)
	return e
}

func sortPoints(e *Engine, points [][]float64, maxRank int) ([]int, Stats) {
	ranks := make([]int, len(points))
	stats := e.Sort(points, ranks, maxRank)
	return ranks, stats
}

func TestNewValidation(t *testing.T) {
	backend, err := rankquery.New(rankquery.KindTree, 10)
	require.NoError(t, err)

	_, err = New(Config{MaxPoints: 0, MaxDimension: 2, Backend: backend})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{MaxPoints: 10, MaxDimension: 2})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{MaxPoints: 11, MaxDimension: 2, Backend: backend})
	require.ErrorIs(t, err, ErrInvalidConfig)

	veb, err := rankquery.New(rankquery.KindVanEmdeBoas, 10)
	require.NoError(t, err)
	_, err = New(Config{
		MaxPoints:    10,
		MaxDimension: 4,
		Backend:      veb,
		Workers:      resource.NewController(resource.Config{MaxWorkers: 2}),
	})
	require.ErrorIs(t, err, ErrSingleThreadedBackend)

	e, err := New(Config{MaxPoints: 10, MaxDimension: 4, Backend: veb})
	require.NoError(t, err)
	assert.Equal(t, 10, e.MaxPoints())
	assert.Equal(t, 4, e.MaxDimension())
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name      string
		points    [][]float64
		maxRank   int
		want      []int
		saturated int
	}{
		{"chain", [][]float64{{0, 0}, {1, 1}, {2, 2}}, 10, []int{0, 1, 2}, 0},
		{"incomparable", [][]float64{{0, 1}, {1, 0}}, 10, []int{0, 0}, 0},
		{"duplicates", [][]float64{{0, 0}, {0, 0}}, 10, []int{0, 0}, 0},
		{"saturated", [][]float64{{0, 0}, {1, 1}, {2, 2}}, 0, []int{0, 1, 1}, 1},
		{"one axis", [][]float64{{3}, {1}, {2}, {1}}, 1, []int{2, 0, 1, 0}, 1},
		{"one axis saturated", [][]float64{{3}, {1}, {2}}, 0, []int{1, 0, 1}, 2},
		{"signed zero", [][]float64{{0, 1, 2}, {math.Copysign(0, -1), 1, 2}, {1, 1, 2}}, 5, []int{0, 0, 1}, 0},
		{"infinities", [][]float64{{math.Inf(1), 0, 0}, {math.Inf(-1), 0, 0}, {0, 0, 0}}, 5, []int{2, 0, 1}, 0},
	}
	for _, kind := range rankquery.Kinds() {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", kind, tt.name), func(t *testing.T) {
				e := newTestEngine(t, 8, 3, kind, nil, 0)
				ranks, stats := sortPoints(e, tt.points, tt.maxRank)

				assert.Equal(t, tt.want, ranks)
				assert.Equal(t, len(tt.points), stats.Points)
				assert.Equal(t, tt.saturated, stats.Saturated)
			})
		}
	}
}

func TestEmptyInput(t *testing.T) {
	e := newTestEngine(t, 4, 3, rankquery.KindTree, nil, 0)
	ranks, stats := sortPoints(e, nil, 3)

	assert.Empty(t, ranks)
	assert.Equal(t, Stats{}, stats)
}

func TestCrossValidation(t *testing.T) {
	rng := testutil.NewRNG(42)
	strategies := []hybrid.Strategy{hybrid.None{}, hybrid.Quadratic{Threshold: 6}}

	generators := []struct {
		name string
		gen  func(n, dim int) [][]float64
	}{
		{"uniform", rng.UniformPoints},
		{"discrete", func(n, dim int) [][]float64 { return rng.DiscretePoints(n, dim, 3) }},
		{"front", rng.FrontPoints},
	}

	for _, kind := range rankquery.Kinds() {
		for _, strategy := range strategies {
			e := newTestEngine(t, 400, 20, kind, strategy, 0)
			for _, g := range generators {
				for _, dim := range []int{1, 2, 3, 4, 5, 7, 12, 20} {
					for _, maxRank := range []int{0, 2, 7, math.MaxInt32} {
						name := fmt.Sprintf("%s/%s/%s/d%d/r%d", kind, strategy.Name(), g.name, dim, maxRank)
						n := 1 + rng.Intn(400)
						points := g.gen(n, dim)

						ranks, stats := sortPoints(e, points, maxRank)
						require.Equal(t, testutil.BruteForceRanks(points, maxRank), ranks, name)
						require.Equal(t, n, stats.Points, name)
						require.LessOrEqual(t, stats.Unique, n, name)
					}
				}
			}
		}
	}
}

func TestEqualPointsShareRank(t *testing.T) {
	rng := testutil.NewRNG(7)
	e := newTestEngine(t, 500, 4, rankquery.KindFenwick, nil, 0)

	points := rng.DiscretePoints(500, 4, 2)
	ranks, stats := sortPoints(e, points, 100)

	assert.LessOrEqual(t, stats.Unique, 16)
	seen := map[[4]float64]int{}
	for i, p := range points {
		k := [4]float64(p)
		if r, ok := seen[k]; ok {
			assert.Equal(t, r, ranks[i])
		}
		seen[k] = ranks[i]
	}
}

func TestThreadInvariance(t *testing.T) {
	rng := testutil.NewRNG(99)
	const n = 3000

	for _, dim := range []int{4, 6} {
		for name, points := range map[string][][]float64{
			"uniform":  rng.UniformPoints(n, dim),
			"discrete": rng.DiscretePoints(n, dim, 5),
		} {
			t.Run(fmt.Sprintf("%s/d%d", name, dim), func(t *testing.T) {
				want := testutil.BruteForceRanks(points, 15)

				for _, workers := range []int64{0, 1, 3, int64(runtime.GOMAXPROCS(0))} {
					for _, kind := range []rankquery.Kind{rankquery.KindFenwick, rankquery.KindTree} {
						e := newTestEngine(t, n, dim, kind, nil, workers)
						ranks, _ := sortPoints(e, points, 15)
						require.Equal(t, want, ranks, "workers %d backend %s", workers, kind)
					}
				}
			})
		}
	}
}

func TestForkUsesWorkers(t *testing.T) {
	rng := testutil.NewRNG(5)
	points := rng.UniformPoints(2000, 5)

	workers := resource.NewController(resource.Config{MaxWorkers: 4})
	backend, err := rankquery.New(rankquery.KindTree, 2000)
	require.NoError(t, err)
	e, err := New(Config{
		MaxPoints:         2000,
		MaxDimension:      5,
		Backend:           backend,
		Workers:           workers,
		ParallelThreshold: 10,
		ForkThreshold:     16,
	})
	require.NoError(t, err)

	ranks, _ := sortPoints(e, points, math.MaxInt32)
	assert.Equal(t, testutil.BruteForceRanks(points, math.MaxInt32), ranks)
	assert.Positive(t, workers.Forked())
}

func TestRepeatedSortsReuseArena(t *testing.T) {
	rng := testutil.NewRNG(3)
	e := newTestEngine(t, 300, 5, rankquery.KindVanEmdeBoas, nil, 0)

	for i := 0; i < 20; i++ {
		points := rng.UniformPoints(1+rng.Intn(300), 1+rng.Intn(5))
		ranks, _ := sortPoints(e, points, rng.Intn(6))
		again, _ := sortPoints(e, points, rng.Intn(6)+100)
		require.Equal(t, testutil.BruteForceRanks(points, 100), again)
		require.Len(t, ranks, len(points))
	}
}

// acceptAll claims every helperA subproblem without ranking it.
type acceptAll struct {
	hybrid.None
}

func (acceptAll) HelperAHookCondition(int, int) bool { return true }

func (acceptAll) HelperAHook(_ *hybrid.Problem, from, _, _ int) int { return from }

func TestBrokenHookPanics(t *testing.T) {
	e := newTestEngine(t, 10, 3, rankquery.KindTree, acceptAll{}, 0)
	points := [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 0, 1}, {0, 2, 2}}

	var got *InternalError
	func() {
		defer func() {
			if r := recover(); r != nil {
				got, _ = r.(*InternalError)
			}
		}()
		sortPoints(e, points, 3)
	}()

	require.NotNil(t, got)
	assert.Contains(t, got.Error(), "hook evicted identity")
}
