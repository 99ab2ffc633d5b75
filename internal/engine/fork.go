package engine

import "github.com/sourcegraph/conc"

// fork runs independent tasks. When forking is enabled and the subproblem is
// large enough, every task but the last runs on its own goroutine if a worker
// slot is free; the last always runs on the caller. fork returns after all
// tasks finished and re-panics a panic raised by any of them.
func (e *Engine) fork(size int, tasks ...func()) {
	if !e.parallel || size < e.forkThreshold {
		for _, task := range tasks {
			task()
		}
		return
	}

	var wg conc.WaitGroup
	last := len(tasks) - 1
	for _, task := range tasks[:last] {
		if !e.workers.TryAcquireWorker() {
			task()
			continue
		}
		wg.Go(func() {
			defer e.workers.ReleaseWorker()
			task()
		})
	}
	tasks[last]()
	wg.Wait()
}
