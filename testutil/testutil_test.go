package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.UniformPoints(8, 3)

	assert.Equal(t, 8, len(p))
	assert.Equal(t, 3, len(p[0]))
	assert.Less(t, p[0][0], 1.0)
	assert.GreaterOrEqual(t, p[1][0], 0.0)
}

func TestDiscretePoints(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.DiscretePoints(100, 4, 3)

	for _, row := range p {
		for _, v := range row {
			assert.Contains(t, []float64{0, 1, 2}, v)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.UniformPoints(1, 10)

	rng.Reset()
	p2 := rng.UniformPoints(1, 10)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestDominates(t *testing.T) {
	assert.True(t, Dominates([]float64{0, 0}, []float64{0, 1}))
	assert.False(t, Dominates([]float64{0, 1}, []float64{0, 1}))
	assert.False(t, Dominates([]float64{0, 1}, []float64{1, 0}))
}

func TestBruteForceRanks(t *testing.T) {
	tests := []struct {
		name    string
		points  [][]float64
		maxRank int
		want    []int
	}{
		{"chain", [][]float64{{0, 0}, {1, 1}, {2, 2}}, 10, []int{0, 1, 2}},
		{"incomparable", [][]float64{{0, 1}, {1, 0}}, 10, []int{0, 0}},
		{"duplicates", [][]float64{{0, 0}, {0, 0}}, 10, []int{0, 0}},
		{"saturated", [][]float64{{0, 0}, {1, 1}, {2, 2}}, 0, []int{0, 1, 1}},
		{"shuffled", [][]float64{{2, 2}, {0, 0}, {1, 3}, {1, 1}}, 10, []int{2, 0, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BruteForceRanks(tt.points, tt.maxRank))
		})
	}
}

func TestChainPoints(t *testing.T) {
	rng := NewRNG(1)
	pts, order := rng.ChainPoints(50, 3)

	require.Equal(t, order, BruteForceRanks(pts, 100))
}

func TestFrontPoints(t *testing.T) {
	rng := NewRNG(2)
	pts := rng.FrontPoints(200, 3)

	ranks := BruteForceRanks(pts, 1000)
	zero := 0
	for _, r := range ranks {
		if r == 0 {
			zero++
		}
	}
	assert.Greater(t, zero, 20)
}
