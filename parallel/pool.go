// Package parallel runs per-tile shading work on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines that execute tile jobs.
//
// All workers pull from one queue, so a frame whose tiles take uneven time
// (the lens area costs far more than the untouched image) keeps every worker
// busy until the queue is empty.
//
// WorkerPool is safe for concurrent use. Close waits for any ExecuteAll
// already in progress.
type WorkerPool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts a pool with the given number of workers. A value of
// zero or less uses GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan func(), max(workers*4, 8)),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// ExecuteAll queues jobs and returns when every one has run. It does nothing
// once the pool is closed.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || len(jobs) == 0 {
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(jobs))
	for _, fn := range jobs {
		p.jobs <- func() {
			defer pending.Done()
			if fn != nil {
				fn()
			}
		}
	}
	pending.Wait()
}

// Close stops the workers. It is safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}
