package prommetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ndsort"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "ndsort")
	require.NoError(t, err)

	s, err := ndsort.New(8, 2, ndsort.WithMetricsCollector(c))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Sort([][]float64{{0, 0}, {0, 0}, {1, 1}, {2, 2}}, make([]int, 4), 0))
	require.Error(t, s.Sort([][]float64{{0, 0}}, nil, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.sorts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sorts.WithLabelValues("rejected")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.points))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.unique))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.saturated))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "ndsort")
	require.NoError(t, err)

	_, err = New(reg, "ndsort")
	require.Error(t, err)
}
