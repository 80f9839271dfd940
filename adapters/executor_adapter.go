// File: adapters/executor_adapter.go
// Package adapters provides glue between internal concurrency and api.Executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ExecutorAdapter implements the api.Executor interface by delegating to the internal
// concurrency.Executor. It provides asynchronous task submission, dynamic resizing,
// and per-worker CPU pinning through AffinityAdapter handles.

package adapters

import (
	"sync"

	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/concurrency"
)

// ExecutorAdapter wraps an internal concurrency.Executor to satisfy the api.Executor contract.
// Each worker goroutine owns its own AffinityAdapter so CPU pinning can be
// inspected per worker via Affinities. Adapters are minted lazily as
// workers start (including ones added later by Resize), guarded by mu.
type ExecutorAdapter struct {
	exec *concurrency.Executor

	mu         sync.Mutex
	affinities []api.Affinity
}

// NewExecutorAdapter constructs an api.Executor with the given number of worker goroutines.
// Worker i pins its OS thread to CPU i (indices past runtime.NumCPU()
// fall back to CPU 0); numaNode is passed to each Pin call, but with the
// single pseudo-node topology of internal/concurrency it does not steer
// the pin.
func NewExecutorAdapter(workers int, numaNode int) api.Executor {
	ea := &ExecutorAdapter{}
	pin := func(idx int) error {
		return ea.affinityFor(idx).Pin(idx, numaNode)
	}
	unpin := func(idx int) error {
		return ea.affinityFor(idx).Unpin()
	}
	ea.exec = concurrency.NewPinnedExecutor(workers, numaNode, pin, unpin)
	return ea
}

// affinityFor returns the AffinityAdapter for worker idx, minting one on
// first use so Resize-grown workers are covered too.
func (ea *ExecutorAdapter) affinityFor(idx int) api.Affinity {
	ea.mu.Lock()
	defer ea.mu.Unlock()
	for len(ea.affinities) <= idx {
		ea.affinities = append(ea.affinities, NewAffinityAdapter())
	}
	return ea.affinities[idx]
}

// Affinities reports a snapshot of the per-worker CPU/NUMA binding
// handles, for status/debug introspection (see Server.Control's
// "executor.affinity" probe).
func (ea *ExecutorAdapter) Affinities() []api.Affinity {
	ea.mu.Lock()
	defer ea.mu.Unlock()
	out := make([]api.Affinity, len(ea.affinities))
	copy(out, ea.affinities)
	return out
}

// Submit dispatches a task function to be executed asynchronously.
// Returns an error if the executor has been closed.
func (ea *ExecutorAdapter) Submit(task func()) error {
	// Delegates to internal Executor.Submit, which enqueues under the executor's mutex.
	return ea.exec.Submit(task)
}

// NumWorkers returns the current number of active worker goroutines.
// Under the hood, this reads the length of the worker slice managed by the internal Executor.
func (ea *ExecutorAdapter) NumWorkers() int {
	return ea.exec.NumWorkers()
}

// Resize dynamically adjusts the size of the worker pool.
// New workers pin their threads by worker index, as in NewExecutorAdapter.
func (ea *ExecutorAdapter) Resize(newCount int) {
	ea.exec.Resize(newCount)
}

// Close shuts down the executor, signaling all workers to exit once the queue drains.
// Tasks already queued still run; later Submit calls return an error. Close does not
// wait for the workers to exit.
func (ea *ExecutorAdapter) Close() {
	ea.exec.Close()
}
