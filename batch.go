package ndsort

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Job is one population ranked by SortBatch.
type Job struct {
	Points  [][]float64
	Ranks   []int
	MaxRank int
}

// SortBatch ranks independent populations on up to workers goroutines, each
// owning one sorter from newSorter. Jobs are claimed in order. The first
// error stops further jobs from starting and is returned; a running sort is
// never interrupted. workers <= 0 uses one worker per CPU.
func SortBatch(ctx context.Context, jobs []Job, workers int, newSorter func() (*Sorter, error)) error {
	if len(jobs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	var next atomic.Int64
	for range workers {
		g.Go(func() error {
			s, err := newSorter()
			if err != nil {
				return err
			}
			defer s.Close()

			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= len(jobs) {
					return nil
				}
				j := jobs[i]
				if err := s.Sort(j.Points, j.Ranks, j.MaxRank); err != nil {
					return fmt.Errorf("job %d: %w", i, err)
				}
			}
		})
	}
	return g.Wait()
}
