package ndsort

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/hupe1980/ndsort/internal/arena"
	"github.com/hupe1980/ndsort/internal/engine"
	"github.com/hupe1980/ndsort/internal/resource"
	"github.com/hupe1980/ndsort/rankquery"
)

// SortStats describes one sort call.
type SortStats struct {
	Points    int
	Unique    int
	Dimension int
	MaxRank   int
	Saturated int
	Duration  time.Duration
}

// Sorter computes Pareto ranks for up to MaxPoints points of up to
// MaxDimension coordinates. All working memory is allocated by New.
//
// Sort calls are serialized; a Sorter may be shared between goroutines.
type Sorter struct {
	mu     sync.Mutex
	closed bool

	name         string
	maxPoints    int
	maxDimension int
	threads      int

	engine  *engine.Engine
	budget  *Budget
	memory  int64
	logger  *Logger
	metrics MetricsCollector

	last SortStats
}

// New creates a sorter for up to maxPoints points of up to maxDimension
// coordinates.
func New(maxPoints, maxDimension int, optFns ...Option) (*Sorter, error) {
	if maxPoints <= 0 || maxDimension <= 0 {
		return nil, fmt.Errorf("%w: max points %d, max dimension %d", ErrInvalidArgument, maxPoints, maxDimension)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	threads, err := resolveThreads(opts.threads)
	if err != nil {
		return nil, err
	}

	budget := opts.budget
	if budget == nil {
		budget = NewBudget(opts.memoryLimit)
	}

	// built-in backends are reserved before they allocate, custom ones after
	memory := arena.Footprint(maxPoints, maxDimension)
	if opts.backendFactory == nil {
		bm, err := rankquery.Footprint(opts.backendKind, maxPoints, threads)
		if err != nil {
			return nil, translateError(err)
		}
		memory += bm
	}
	if err := reserve(budget, memory); err != nil {
		return nil, err
	}

	backend, err := newBackend(opts, maxPoints)
	if err != nil {
		budget.rc.ReleaseMemory(memory)
		return nil, translateError(err)
	}
	if !backend.Concurrent() && threads > 1 {
		budget.rc.ReleaseMemory(memory)
		return nil, fmt.Errorf("%w: backend %s supports one thread, %d requested", ErrUnsupportedConfiguration, backend.Kind(), threads)
	}
	if opts.backendFactory != nil {
		bm := backend.Footprint(threads)
		if err := reserve(budget, bm); err != nil {
			budget.rc.ReleaseMemory(memory)
			return nil, err
		}
		memory += bm
	}

	eng, err := engine.New(engine.Config{
		MaxPoints:         maxPoints,
		MaxDimension:      maxDimension,
		Backend:           backend,
		Hybrid:            opts.hybrid,
		Workers:           resource.NewController(resource.Config{MaxWorkers: int64(threads - 1)}),
		ParallelThreshold: opts.parallelThreshold,
		ForkThreshold:     opts.forkThreshold,
		CheckConsistency:  opts.consistencyChecks,
	})
	if err != nil {
		budget.rc.ReleaseMemory(memory)
		return nil, translateError(err)
	}

	name := configName(backend.Kind(), opts.hybrid.Name(), opts.threads)
	s := &Sorter{
		name:         name,
		maxPoints:    maxPoints,
		maxDimension: maxDimension,
		threads:      threads,
		engine:       eng,
		budget:       budget,
		memory:       memory,
		logger:       opts.logger.WithName(name),
		metrics:      opts.metricsCollector,
	}
	s.logger.LogCreated(context.Background(), maxPoints, maxDimension, threads)
	return s, nil
}

func reserve(b *Budget, bytes int64) error {
	if err := b.rc.AcquireMemory(bytes); err != nil {
		return fmt.Errorf("%w: sorter needs %d bytes, %d of %d in use", translateError(err), bytes, b.Used(), b.Limit())
	}
	return nil
}

func resolveThreads(threads int) (int, error) {
	switch {
	case threads == UnlimitedThreads:
		return runtime.GOMAXPROCS(0), nil
	case threads < 1:
		return 0, fmt.Errorf("%w: threads %d", ErrInvalidArgument, threads)
	}
	return threads, nil
}

func newBackend(opts options, capacity int) (rankquery.Backend, error) {
	if opts.backendFactory != nil {
		b, err := opts.backendFactory(capacity)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: backend factory returned nil", ErrInvalidArgument)
		}
		return b, nil
	}
	return rankquery.New(opts.backendKind, capacity)
}

// configName renders the registry identifier of a configuration.
func configName(kind rankquery.Kind, hybridName string, threads int) string {
	name := "jfb." + string(kind)
	if hybridName != "" && hybridName != "none" {
		name += "." + hybridName
	}
	switch {
	case threads == UnlimitedThreads:
		name += ".tmax"
	case threads > 1:
		name += ".t" + strconv.Itoa(threads)
	}
	return name
}

// Name returns the configuration identifier, e.g. "jfb.tree.quadratic.t4".
func (s *Sorter) Name() string { return s.name }

// MaxPoints returns the point capacity.
func (s *Sorter) MaxPoints() int { return s.maxPoints }

// MaxDimension returns the dimension capacity.
func (s *Sorter) MaxDimension() int { return s.maxDimension }

// Threads returns the resolved number of threads.
func (s *Sorter) Threads() int { return s.threads }

// LastStats returns the statistics of the most recent accepted sort.
func (s *Sorter) LastStats() SortStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Sort writes the Pareto rank of points[i] to ranks[i]. Ranks above maxRank
// are reported as maxRank+1. points is never modified; equal points get
// equal ranks.
//
// Invalid input is rejected before ranks is touched.
func (s *Sorter) Sort(points [][]float64, ranks []int, maxRank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := SortStats{Points: len(points), MaxRank: maxRank}
	if len(points) > 0 {
		stats.Dimension = len(points[0])
	}

	if err := s.validate(points, ranks, maxRank); err != nil {
		s.logger.LogSort(ctx, stats, err)
		s.metrics.RecordSort(stats.Points, 0, stats.Dimension, 0, 0, err)
		return err
	}

	start := time.Now()
	es := s.engine.Sort(points, ranks, maxRank)
	stats.Duration = time.Since(start)
	stats.Unique = es.Unique
	stats.Saturated = es.Saturated
	s.last = stats

	s.logger.LogSort(ctx, stats, nil)
	s.metrics.RecordSort(stats.Points, stats.Unique, stats.Dimension, stats.Saturated, stats.Duration, nil)
	return nil
}

func (s *Sorter) validate(points [][]float64, ranks []int, maxRank int) error {
	switch {
	case s.closed:
		return ErrClosed
	case len(ranks) != len(points):
		return &ErrRankLength{Expected: len(points), Actual: len(ranks)}
	case len(points) > s.maxPoints:
		return &ErrCapacity{Kind: "points", Limit: s.maxPoints, Actual: len(points)}
	case maxRank < 0:
		return fmt.Errorf("%w: negative maximal meaningful rank %d", ErrInvalidArgument, maxRank)
	case len(points) == 0:
		return nil
	}

	dim := len(points[0])
	switch {
	case dim == 0:
		return fmt.Errorf("%w: points have no coordinates", ErrInvalidArgument)
	case dim > s.maxDimension:
		return &ErrCapacity{Kind: "dimension", Limit: s.maxDimension, Actual: dim}
	}
	for i, p := range points {
		if len(p) != dim {
			return &ErrDimensionMismatch{Row: i, Expected: dim, Actual: len(p)}
		}
		for j, v := range p {
			if math.IsNaN(v) {
				return fmt.Errorf("%w: point %d coordinate %d is NaN", ErrInvalidArgument, i, j)
			}
		}
	}
	return nil
}

// Close releases the memory reservation of the sorter. Later sorts fail with
// ErrClosed.
func (s *Sorter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.budget.rc.ReleaseMemory(s.memory)
	return nil
}
