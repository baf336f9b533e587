// Package workerpool runs per-chunk codec work on a bounded set of workers.
// Chunk jobs are independent, so the pool imposes no ordering; callers join
// on a Batch and write results into index-keyed slots, which keeps the final
// merge deterministic regardless of completion order.
package workerpool

import (
	"runtime"
	"sync"
)

const defaultQueueDepth = 1024

type Pool struct {
	tasks     chan func()
	workers   int
	closeOnce sync.Once
}

// New starts a pool with the given worker count. A count below one selects
// three workers per CPU.
func New(workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU() * 3
	}

	p := &Pool{
		tasks:   make(chan func(), defaultQueueDepth),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for task := range p.tasks {
		task()
	}
}

// Workers returns the number of running workers.
func (p *Pool) Workers() int { return p.workers }

// Close stops the workers once queued tasks drain. Submitting after Close
// panics, as with any closed channel.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}

// Batch groups tasks belonging to one encode or decode call.
type Batch struct {
	pool *Pool
	wg   sync.WaitGroup
}

// NewBatch creates an empty batch bound to the pool.
func (p *Pool) NewBatch() *Batch {
	return &Batch{pool: p}
}

// Submit queues one task, blocking while the global queue is full.
func (b *Batch) Submit(task func()) {
	b.wg.Add(1)
	b.pool.tasks <- func() {
		defer b.wg.Done()
		task()
	}
}

// Wait blocks until every task submitted to the batch has finished.
func (b *Batch) Wait() {
	b.wg.Wait()
}
