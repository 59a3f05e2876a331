// Package worker runs jobs on a fixed set of goroutines.
package worker

import "sync"

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

// Pool executes submitted jobs and publishes their outputs on Results.
// Results must be drained, otherwise workers block once the buffer fills.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			JobID:  job.id,
			Output: output,
		}
	}
}

// Submit queues a job, blocking while the queue is full. It reports false
// if the pool is already closed.
func (p *Pool[T]) Submit(id string, fn Job[T]) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
	return true
}

// TrySubmit queues a job only if there is room. It never blocks.
func (p *Pool[T]) TrySubmit(id string, fn Job[T]) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- jobWrapper[T]{id: id, fn: fn}:
		return true
	default:
		return false
	}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs, waits for queued jobs to finish and then
// closes Results. Safe to call more than once.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.results)
}
