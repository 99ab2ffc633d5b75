package ndsort

import (
	"log/slog"

	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/rankquery"
)

// UnlimitedThreads runs one thread per available CPU (runtime.GOMAXPROCS).
const UnlimitedThreads = -1

// BackendFactory creates the rank-query backend of a sorter for up to
// capacity keys per handle.
type BackendFactory func(capacity int) (rankquery.Backend, error)

type options struct {
	threads           int
	backendKind       rankquery.Kind
	backendFactory    BackendFactory
	hybrid            hybrid.Strategy
	logger            *Logger
	metricsCollector  MetricsCollector
	consistencyChecks bool
	budget            *Budget
	memoryLimit       int64
	parallelThreshold int
	forkThreshold     int
}

func defaultOptions() options {
	return options{
		threads:          1,
		backendKind:      rankquery.KindFenwick,
		hybrid:           hybrid.None{},
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures a Sorter.
type Option func(*options)

// WithThreads sets the number of threads one sort may use. 1 (the default)
// sorts on the calling goroutine; n > 1 allows n-1 forked goroutines;
// UnlimitedThreads uses one thread per available CPU.
//
// The bounded-universe backend supports a single thread only.
func WithThreads(threads int) Option {
	return func(o *options) {
		o.threads = threads
	}
}

// WithBackend selects a built-in rank-query backend. Default is
// rankquery.KindFenwick.
func WithBackend(kind rankquery.Kind) Option {
	return func(o *options) {
		o.backendKind = kind
		o.backendFactory = nil
	}
}

// WithBackendFactory installs a custom rank-query backend.
func WithBackendFactory(f BackendFactory) Option {
	return func(o *options) {
		o.backendFactory = f
	}
}

// WithHybrid installs the strategy consulted before each recursive step.
// If nil is passed, hybrid.None is used.
func WithHybrid(s hybrid.Strategy) Option {
	return func(o *options) {
		if s == nil {
			s = hybrid.None{}
		}
		o.hybrid = s
	}
}

// WithLogger configures structured logging.
// If nil is passed, NoopLogger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel logs as text to stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring sorts.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &ndsort.BasicMetricsCollector{}
//	s, _ := ndsort.New(1000, 3, ndsort.WithMetricsCollector(metrics))
//	// ... sort
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithConsistencyChecks records every saturated point in a bitmap ledger and
// verifies it against the computed ranks after each sort. A failed check
// panics.
func WithConsistencyChecks(enabled bool) Option {
	return func(o *options) {
		o.consistencyChecks = enabled
	}
}

// WithMemoryLimit bounds the preallocated working memory of the sorter: the
// arena plus the rank-query backend with one handle per thread. New fails
// with ErrMemoryLimitExceeded if it does not fit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
		o.budget = nil
	}
}

// WithBudget reserves the working memory of the sorter from a budget shared
// with other sorters. Close returns the reservation.
func WithBudget(b *Budget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithParallelThresholds tunes when sorts fork: only inputs with more than
// points distinct points and subproblems of at least fork points are
// parallelized. Non-positive values keep the defaults.
func WithParallelThresholds(points, fork int) Option {
	return func(o *options) {
		o.parallelThreshold = points
		o.forkThreshold = fork
	}
}
