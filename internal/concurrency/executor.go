// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cooperative worker pool built on eapache/queue's ring-buffer queue.
// This is the executor that runs spawn_and_abort_on_reset tasks off
// the inbound dispatcher goroutine: a Request handler that wants to do
// real work submits it here instead of blocking the dispatcher, and
// the cancellation registry can still observe/abort it independently.

package concurrency

import (
	"log"
	"sync"

	"github.com/eapache/queue"
)

// TaskFunc is a unit of work submitted to an Executor.
type TaskFunc func()

// PinFunc pins the calling OS thread for the worker at workerIndex.
// Returning an error is non-fatal: the worker logs it and keeps
// running unpinned.
type PinFunc func(workerIndex int) error

// UnpinFunc releases a binding previously established by PinFunc for
// the worker at workerIndex.
type UnpinFunc func(workerIndex int) error

// Executor is a fixed-or-resizable pool of goroutines pulling tasks
// off a single shared FIFO queue. numaNode is recorded for diagnostics
// and passed through to PinCurrentThread by callers that opt into CPU
// pinning; the pool itself makes no NUMA-locality guarantees beyond
// whatever pin/unpin does.
type Executor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	q        *queue.Queue
	numaNode int
	workers  []chan struct{} // each worker's stop channel
	nextIdx  int
	closed   bool

	pin   PinFunc
	unpin UnpinFunc
}

// NewExecutor starts an Executor with numWorkers goroutines draining a
// shared task queue, with no CPU pinning.
func NewExecutor(numWorkers, numaNode int) *Executor {
	return NewPinnedExecutor(numWorkers, numaNode, nil, nil)
}

// NewPinnedExecutor starts an Executor whose workers each call pin
// before entering their run loop and unpin right before exiting, one
// call per worker index in [0, numWorkers). Either may be nil to skip
// pinning.
func NewPinnedExecutor(numWorkers, numaNode int, pin PinFunc, unpin UnpinFunc) *Executor {
	e := &Executor{
		q:        queue.New(),
		numaNode: numaNode,
		pin:      pin,
		unpin:    unpin,
	}
	e.cond = sync.NewCond(&e.mu)
	for i := 0; i < numWorkers; i++ {
		e.startWorker()
	}
	return e
}

func (e *Executor) startWorker() {
	stop := make(chan struct{})
	idx := e.nextIdx
	e.nextIdx++
	e.workers = append(e.workers, stop)
	go e.runWorker(stop, idx)
}

func (e *Executor) runWorker(stop chan struct{}, idx int) {
	if e.pin != nil {
		if err := e.pin(idx); err != nil {
			log.Printf("concurrency: worker %d pin failed, running unpinned: %v", idx, err)
		} else if e.unpin != nil {
			defer func() {
				if err := e.unpin(idx); err != nil {
					log.Printf("concurrency: worker %d unpin failed: %v", idx, err)
				}
			}()
		}
	}
	stopped := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}
	for {
		e.mu.Lock()
		for e.q.Length() == 0 && !e.closed && !stopped() {
			e.cond.Wait()
		}
		if stopped() || (e.closed && e.q.Length() == 0) {
			e.mu.Unlock()
			return
		}
		item := e.q.Remove()
		e.mu.Unlock()

		if task, ok := item.(TaskFunc); ok {
			task()
		}
	}
}

// Submit enqueues task for execution by one of the pool's workers.
// Returns ErrExecutorClosed once Close has been called.
func (e *Executor) Submit(task TaskFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	e.q.Add(task)
	e.cond.Signal()
	return nil
}

// NumWorkers reports the current number of worker goroutines.
func (e *Executor) NumWorkers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workers)
}

// Resize adjusts the worker pool to newCount goroutines, starting new
// workers or stopping excess ones. Stopped workers finish their
// current task (if any) before exiting.
func (e *Executor) Resize(newCount int) {
	e.mu.Lock()
	if newCount < 0 {
		newCount = 0
	}
	current := len(e.workers)
	if newCount > current {
		e.mu.Unlock()
		for i := current; i < newCount; i++ {
			e.mu.Lock()
			e.startWorker()
			e.mu.Unlock()
		}
		return
	}
	toStop := e.workers[newCount:]
	e.workers = e.workers[:newCount]
	e.mu.Unlock()
	for _, stop := range toStop {
		close(stop)
	}
	e.mu.Lock()
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Close signals every worker to exit once the queue drains and makes
// later Submit calls return ErrExecutorClosed. It returns immediately
// and does not wait for the workers to exit.
func (e *Executor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
}
