package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// task is one unit of pool work and its outcome.
type task[T any, R any] struct {
	Input  T
	Result R
	Err    error
	Done   bool // false when cancellation stopped the task from running
}

// processFunc processes a single input.
type processFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// pool is a bounded worker pool. Results come back in input order
// regardless of completion order.
type pool[T any, R any] struct {
	workers int
	process processFunc[T, R]
}

func newPool[T any, R any](workers int, fn processFunc[T, R]) *pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// execute runs all inputs through the pool. On cancellation, inputs not yet
// started are left with Done == false.
func (p *pool[T, R]) execute(ctx context.Context, inputs []T) []task[T, R] {
	results := make([]task[T, R], len(inputs))
	inputCh := make(chan int, len(inputs))

	workers := p.workers
	if workers > len(inputs) {
		workers = len(inputs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = task[T, R]{
						Input:  inputs[idx],
						Result: result,
						Err:    err,
						Done:   true,
					}
					if err != nil {
						log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("task failed")
					}
				}
			}
		}(w)
	}

	for i := range inputs {
		inputCh <- i
	}
	close(inputCh)

	wg.Wait()
	return results
}
