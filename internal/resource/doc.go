// Package resource implements the Controller that bounds what a sorter may consume.
//
// The Controller manages two resource types:
//
//   - Memory: accounting of the preallocated scratch arenas (non-blocking, fail-fast)
//   - Workers: slots for forked recursive calls of the parallel scheduler
//
// # Memory Management
//
// Arenas are sized once when a sorter is constructed. Their footprint is
// reserved here so an oversized configuration fails at construction time
// rather than during a sort:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(arenaBytes); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(arenaBytes)
//
// # Worker Slots
//
// The scheduler never blocks waiting for a slot. A task is forked only if
// TryAcquireWorker succeeds and is otherwise executed by the caller:
//
//	if rc.TryAcquireWorker() {
//	    go func() {
//	        defer rc.ReleaseWorker()
//	        task()
//	    }()
//	} else {
//	    task()
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully. A nil Controller tracks no
// memory and never grants a worker slot, which makes every caller sequential.
package resource
