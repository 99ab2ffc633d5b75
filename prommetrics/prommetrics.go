// Package prommetrics exports sorter metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/ndsort"
)

// Collector implements ndsort.MetricsCollector on Prometheus counters and
// histograms.
type Collector struct {
	sorts     *prometheus.CounterVec
	duration  prometheus.Histogram
	points    prometheus.Counter
	unique    prometheus.Counter
	saturated prometheus.Counter
	dimension prometheus.Histogram
}

var _ ndsort.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg under the given
// namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		sorts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sorts_total",
			Help:      "Number of sort calls by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_duration_seconds",
			Help:      "Duration of accepted sort calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Points ranked",
		}),
		unique: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unique_points_total",
			Help:      "Distinct points ranked",
		}),
		saturated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saturated_points_total",
			Help:      "Distinct points whose rank was clamped to the ceiling",
		}),
		dimension: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_dimension",
			Help:      "Number of objectives per sort call",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32},
		}),
	}

	for _, col := range []prometheus.Collector{c.sorts, c.duration, c.points, c.unique, c.saturated, c.dimension} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordSort implements ndsort.MetricsCollector.
func (c *Collector) RecordSort(points, unique, dimension, saturated int, duration time.Duration, err error) {
	if err != nil {
		c.sorts.WithLabelValues("rejected").Inc()
		return
	}
	c.sorts.WithLabelValues("ok").Inc()
	c.duration.Observe(duration.Seconds())
	c.points.Add(float64(points))
	c.unique.Add(float64(unique))
	c.saturated.Add(float64(saturated))
	c.dimension.Observe(float64(dimension))
}
