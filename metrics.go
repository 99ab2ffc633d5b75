package ndsort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordSort is called after each sort call. points, unique and
	// saturated count the input points, the distinct points and the
	// distinct points clamped to the rank ceiling. err is nil if the call
	// was accepted.
	RecordSort(points, unique, dimension, saturated int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

// RecordSort implements MetricsCollector.
func (NoopMetricsCollector) RecordSort(int, int, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SortCount      atomic.Int64
	SortErrors     atomic.Int64
	SortTotalNanos atomic.Int64
	Points         atomic.Int64
	UniquePoints   atomic.Int64
	Saturated      atomic.Int64
}

// RecordSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSort(points, unique, _ int, saturated int, duration time.Duration, err error) {
	b.SortCount.Add(1)
	if err != nil {
		b.SortErrors.Add(1)
		return
	}
	b.SortTotalNanos.Add(duration.Nanoseconds())
	b.Points.Add(int64(points))
	b.UniquePoints.Add(int64(unique))
	b.Saturated.Add(int64(saturated))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SortCount:    b.SortCount.Load(),
		SortErrors:   b.SortErrors.Load(),
		SortAvgNanos: b.getAvgSortNanos(),
		Points:       b.Points.Load(),
		UniquePoints: b.UniquePoints.Load(),
		Saturated:    b.Saturated.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSortNanos() int64 {
	count := b.SortCount.Load() - b.SortErrors.Load()
	if count <= 0 {
		return 0
	}
	return b.SortTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SortCount    int64
	SortErrors   int64
	SortAvgNanos int64
	Points       int64
	UniquePoints int64
	Saturated    int64
}
