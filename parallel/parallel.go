// Package parallel - concurrent index loops for scanline processing.
//
// The engine drives its scanline loops (type promotion, transfer curves,
// resample passes) through For or ForCancel: a static pool of
// goroutines claims indices from a shared atomic counter until the range is
// exhausted. There is no ordering guarantee between indices and the caller
// blocks until every worker has finished, so a completed call establishes a
// happens-before edge for the next processing pass.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MaxWorkers caps the pool size regardless of hardware concurrency.
const MaxWorkers = 64

// workerCount returns the pool size for a range of the given span.
func workerCount(span int) int {
	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > span {
		workers = span
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// For invokes body(index) for every index in the half-open range
// [start, end), distributing indices across a worker pool via an atomic
// fetch-and-add claim loop. body must be safe to call from any worker and
// for any subset of indices. The call returns once all workers have joined.
func For(start, end int, body func(index int)) {
	span := end - start
	if span <= 0 {
		return
	}

	workers := workerCount(span)
	if workers == 1 {
		for i := start; i < end; i++ {
			body(i)
		}
		return
	}

	var next atomic.Int64
	next.Store(int64(start))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				index := next.Add(1) - 1
				if index >= int64(end) {
					return
				}
				body(int(index))
			}
		}()
	}
	wg.Wait()
}

// ForCancel behaves like For but stops claiming new indices once cancel has
// been set. Indices claimed before cancellation always run to completion, so
// a cancelled pass drains instead of tearing down mid-row. Returns true if
// the whole range was processed and cancel was never set.
func ForCancel(start, end int, cancel *atomic.Bool, body func(index int)) bool {
	span := end - start
	if span <= 0 {
		return true
	}

	var next atomic.Int64
	next.Store(int64(start))

	workers := workerCount(span)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				if cancel.Load() {
					return
				}
				index := next.Add(1) - 1
				if index >= int64(end) {
					return
				}
				body(int(index))
			}
		}()
	}
	wg.Wait()

	return !cancel.Load() && next.Load() >= int64(end)
}
