// Package worker runs filesystem work off the UI loop and hands results
// back to it.
package worker

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs tasks on a bounded number of goroutines
type Pool struct {
	g    errgroup.Group
	size int
}

// DefaultWorkers is one more than the number of CPUs
func DefaultWorkers() int {
	return runtime.NumCPU() + 1
}

// NewPool creates a pool of size workers, DefaultWorkers when size <= 0
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultWorkers()
	}
	p := &Pool{size: size}
	p.g.SetLimit(size)
	return p
}

// Sequential creates a pool that runs one task at a time, in submission
// order.
func Sequential() *Pool {
	return NewPool(1)
}

// Size returns the worker limit
func (p *Pool) Size() int {
	return p.size
}

// Go runs task on a free worker, blocking while all workers are busy
func (p *Pool) Go(task func() error) {
	p.g.Go(task)
}

// TryGo runs task only if a worker is free
func (p *Pool) TryGo(task func() error) bool {
	return p.g.TryGo(task)
}

// Wait blocks until every submitted task returned and reports the first
// error.
func (p *Pool) Wait() error {
	return p.g.Wait()
}
