// Package workerpool runs independent analysis tasks on a fixed set of
// workers. Drag sweeps are embarrassingly parallel: every pair reads
// only immutable data, so tasks never synchronize beyond the result
// channel.
package workerpool

import (
	"runtime"
	"sync"
)

type task struct {
	run   func() interface{}
	batch *Batch
}

// Pool owns the worker goroutines and the shared task queue.
type Pool struct {
	tasks     chan task
	closeOnce sync.Once
}

// Config sizes the pool. Zero values pick defaults.
type Config struct {
	// Workers is the number of goroutines. Defaults to runtime.NumCPU().
	Workers int
	// QueueDepth is the shared task buffer. Defaults to 1024.
	QueueDepth int
}

// New starts the workers and returns the pool. Close releases them.
func New(conf Config) *Pool {
	if conf.Workers < 1 {
		conf.Workers = runtime.NumCPU()
	}
	if conf.QueueDepth < 1 {
		conf.QueueDepth = 1024
	}
	p := &Pool{tasks: make(chan task, conf.QueueDepth)}
	for i := 0; i < conf.Workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.tasks {
		t.batch.results <- t.run()
		t.batch.wg.Done()
	}
}

// Close stops the workers once all submitted tasks have drained.
// Submitting after Close panics.
func (p *Pool) Close() {
	p.closeOnce.Do(func() { close(p.tasks) })
}

// Batch groups the tasks of one sweep so their results can be collected
// together. Not safe for concurrent Submit/Collect from multiple
// goroutines; one batch belongs to one query.
type Batch struct {
	pool    *Pool
	results chan interface{}
	wg      sync.WaitGroup
}

// NewBatch returns a batch able to buffer size results without
// blocking the workers.
func (p *Pool) NewBatch(size int) *Batch {
	if size < 1 {
		size = 1
	}
	return &Batch{
		pool:    p,
		results: make(chan interface{}, size),
	}
}

// Submit queues one task. Blocks when the shared queue is full.
func (b *Batch) Submit(job func() interface{}) {
	b.wg.Add(1)
	b.pool.tasks <- task{run: job, batch: b}
}

// Collect waits for every submitted task and returns the results in
// completion order. Callers needing a deterministic order tag their
// results and sort afterwards.
func (b *Batch) Collect() []interface{} {
	go func() {
		b.wg.Wait()
		close(b.results)
	}()
	out := make([]interface{}, 0, cap(b.results))
	for r := range b.results {
		out = append(out, r)
	}
	return out
}
