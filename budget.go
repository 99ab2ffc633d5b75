package ndsort

import "github.com/hupe1980/ndsort/internal/resource"

// Budget is a memory limit shared by several sorters.
type Budget struct {
	rc *resource.Controller
}

// NewBudget creates a budget of limitBytes. A limit <= 0 only tracks usage.
func NewBudget(limitBytes int64) *Budget {
	return &Budget{rc: resource.NewController(resource.Config{MemoryLimitBytes: limitBytes})}
}

// Used returns the reserved bytes.
func (b *Budget) Used() int64 {
	return b.rc.MemoryUsage()
}

// Limit returns the configured limit (0 if unlimited).
func (b *Budget) Limit() int64 {
	return b.rc.MemoryLimit()
}
