package engine

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/internal/arena"
	"github.com/hupe1980/ndsort/internal/partition"
	"github.com/hupe1980/ndsort/internal/resource"
	"github.com/hupe1980/ndsort/rankquery"
)

const (
	// DefaultParallelThreshold is the number of unique points above which
	// forking is considered.
	DefaultParallelThreshold = 1000
	// DefaultForkThreshold is the smallest helperB subproblem (good plus
	// weak points) that is forked.
	DefaultForkThreshold = 400

	// forking also needs more than this many axes
	parallelMinDimension = 3
)

// Config configures an Engine.
type Config struct {
	MaxPoints    int
	MaxDimension int

	Backend rankquery.Backend
	// Hybrid is consulted before each recursive step. Nil means hybrid.None.
	Hybrid hybrid.Strategy
	// Workers bounds forked calls. Nil or zero worker slots run sequentially.
	Workers *resource.Controller

	ParallelThreshold int
	ForkThreshold     int

	// CheckConsistency keeps a ledger of saturated identities and verifies
	// it after every sort.
	CheckConsistency bool
}

// Stats summarizes one sort.
type Stats struct {
	Points    int
	Unique    int
	Saturated int
}

// Engine ranks batches of points. It is not safe for concurrent use; Sort
// manages its own goroutines.
type Engine struct {
	arena   *arena.Arena
	split   *partition.Helper
	backend rankquery.Backend
	hybrid  hybrid.Strategy
	workers *resource.Controller

	parallelThreshold int
	forkThreshold     int

	indices []int32
	ranks   []int32
	columns [][]float64
	problem hybrid.Problem

	// per sort
	maxRank  int32
	parallel bool
	evicted  atomic.Int64

	ledgerMu sync.Mutex
	ledger   *roaring.Bitmap
}

// New creates an engine and allocates its arena.
func New(cfg Config) (*Engine, error) {
	if cfg.MaxPoints <= 0 || cfg.MaxPoints >= math.MaxInt32 || cfg.MaxDimension <= 0 {
		return nil, fmt.Errorf("%w: max points %d, max dimension %d", ErrInvalidConfig, cfg.MaxPoints, cfg.MaxDimension)
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidConfig)
	}
	if cfg.Backend.Capacity() < cfg.MaxPoints {
		return nil, fmt.Errorf("%w: backend capacity %d below max points %d", ErrInvalidConfig, cfg.Backend.Capacity(), cfg.MaxPoints)
	}
	if !cfg.Backend.Concurrent() && cfg.Workers.MaxWorkers() > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSingleThreadedBackend, cfg.Backend.Kind())
	}

	a, err := arena.New(cfg.MaxPoints, cfg.MaxDimension)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		arena:             a,
		split:             partition.New(a.Scratch),
		backend:           cfg.Backend,
		hybrid:            cfg.Hybrid,
		workers:           cfg.Workers,
		parallelThreshold: cfg.ParallelThreshold,
		forkThreshold:     cfg.ForkThreshold,
		indices:           a.Indices,
		ranks:             a.Ranks,
		columns:           a.Columns,
	}
	if e.hybrid == nil {
		e.hybrid = hybrid.None{}
	}
	if e.parallelThreshold <= 0 {
		e.parallelThreshold = DefaultParallelThreshold
	}
	if e.forkThreshold <= 0 {
		e.forkThreshold = DefaultForkThreshold
	}
	if cfg.CheckConsistency {
		e.ledger = roaring.New()
	}

	e.problem = hybrid.Problem{
		Indices: a.Indices,
		Ranks:   a.Ranks,
		Columns: a.Columns,
		Scratch: a.Scratch,
	}
	return e, nil
}

// MaxPoints returns the point capacity.
func (e *Engine) MaxPoints() int { return e.arena.Capacity() }

// MaxDimension returns the dimension capacity.
func (e *Engine) MaxDimension() int { return e.arena.Dimension() }

// Sort writes the rank of points[i] to ranks[i], saturating at maxRank+1.
//
// The caller guarantees len(ranks) == len(points), at most MaxPoints rows of
// one common length between 1 and MaxDimension, no NaN coordinates and
// maxRank >= 0. Sort panics with *InternalError if an invariant breaks.
func (e *Engine) Sort(points [][]float64, ranks []int, maxRank int) Stats {
	stats := Stats{Points: len(points)}
	if len(points) == 0 {
		return stats
	}

	dim := len(points[0])
	unique := e.prepare(points, dim)
	e.begin(unique, dim, maxRank)

	switch dim {
	case 1:
		e.rankChain(unique)
	case 2:
		e.rankPlane(unique)
	default:
		live := e.helperA(0, unique, dim-1)
		if evicted := e.evicted.Load(); int64(live)+evicted != int64(unique) {
			internalf("%d live and %d evicted of %d unique points", live, evicted, unique)
		}
	}
	if e.ledger != nil {
		e.verifyLedger(unique)
	}

	for i := range ranks {
		ranks[i] = int(e.ranks[e.arena.Reindex[i]])
	}

	stats.Unique = unique
	stats.Saturated = int(e.evicted.Load())
	return stats
}

// prepare sorts the points lexicographically, collapses duplicates into one
// identity, fills the columns and the reindex map and returns the number of
// identities.
func (e *Engine) prepare(points [][]float64, dim int) int {
	order := e.arena.Scratch[:len(points)]
	for i := range order {
		order[i] = int32(i)
	}
	slices.SortFunc(order, func(a, b int32) int {
		return compareLex(points[a], points[b])
	})

	reindex := e.arena.Reindex
	u := -1
	for k, id := range order {
		if k == 0 || compareLex(points[order[k-1]], points[id]) != 0 {
			u++
			for d, v := range points[id][:dim] {
				e.columns[d][u] = v
			}
		}
		reindex[id] = int32(u)
	}
	return u + 1
}

// compareLex orders rows by their first differing coordinate. -0 and +0
// compare equal.
func compareLex(p, q []float64) int {
	for d := range p {
		switch {
		case p[d] < q[d]:
			return -1
		case p[d] > q[d]:
			return 1
		}
	}
	return 0
}

func (e *Engine) begin(unique, dim, maxRank int) {
	e.arena.Reset(unique)
	// true ranks stay below unique, so a larger ceiling never saturates
	e.maxRank = int32(min(maxRank, unique))
	e.problem.MaxRank = e.maxRank
	e.evicted.Store(0)
	e.parallel = e.workers.MaxWorkers() > 0 && unique > e.parallelThreshold && dim > parallelMinDimension
	if e.ledger != nil {
		e.ledger.Clear()
	}
}
