package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	const arena = 48
	c := NewController(Config{MemoryLimitBytes: 2*arena + 10})

	steps := []struct {
		name    string
		acquire int64
		release int64
		usage   int64
		err     error
	}{
		{name: "FirstSorter", acquire: arena, usage: arena},
		{name: "SecondSorter", acquire: arena, usage: 2 * arena},
		{name: "ThirdSorterRejected", acquire: arena, usage: 2 * arena, err: ErrMemoryLimitExceeded},
		{name: "FirstSorterClosed", release: arena, usage: arena},
		{name: "ThirdSorterFits", acquire: arena, usage: 2 * arena},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if step.release > 0 {
				c.ReleaseMemory(step.release)
			}
			if step.acquire > 0 {
				err := c.AcquireMemory(step.acquire)
				if step.err != nil {
					require.ErrorIs(t, err, step.err)
				} else {
					require.NoError(t, err)
				}
			}
			assert.Equal(t, step.usage, c.MemoryUsage())
		})
	}
	assert.Equal(t, int64(2*arena+10), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.True(t, c.TryAcquireWorker())
	require.True(t, c.TryAcquireWorker())
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()

	assert.True(t, c.TryAcquireWorker())
	assert.Equal(t, int64(3), c.Forked())
}

func TestController_NoWorkers(t *testing.T) {
	c := NewController(Config{})
	assert.False(t, c.TryAcquireWorker())
	assert.Equal(t, int64(0), c.MaxWorkers())

	c = NewController(Config{MaxWorkers: -3})
	assert.False(t, c.TryAcquireWorker())
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10) // Should not panic
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.False(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	assert.Equal(t, int64(0), c.Forked())
}
