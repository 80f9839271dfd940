// File: internal/session/cancel.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Server-side cancellation registry: maps a call id to an abort
// trigger so a Reset frame can cancel the task computing that call's
// response. Entries are removed on whichever happens first — task
// completion or Reset — so a Reset arriving after completion is a
// silent no-op.

package session

import "sync"

// AbortTrigger is polled by a long-running task at its suspension
// points; Fire makes Aborted() return true from then on.
type AbortTrigger struct {
	mu    sync.Mutex
	fired bool
	ch    chan struct{}
}

func newAbortTrigger() *AbortTrigger {
	return &AbortTrigger{ch: make(chan struct{})}
}

// Fire signals the trigger; idempotent.
func (t *AbortTrigger) Fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.fired {
		t.fired = true
		close(t.ch)
	}
}

// Aborted reports whether Fire has been called.
func (t *AbortTrigger) Aborted() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the trigger fires, usable in a
// select alongside other suspension points (e.g. time.After).
func (t *AbortTrigger) Done() <-chan struct{} {
	return t.ch
}

// CancellationRegistry maps in-flight call ids to their abort triggers.
type CancellationRegistry struct {
	mu      sync.Mutex
	handles map[uint32]*AbortTrigger
}

// NewCancellationRegistry constructs an empty registry.
func NewCancellationRegistry() *CancellationRegistry {
	return &CancellationRegistry{handles: make(map[uint32]*AbortTrigger)}
}

// Register creates and stores a trigger for id, returning it so the
// caller can spawn the task with it wired in. Overwrites any stale
// entry for the same id (ids are not reused while live).
func (r *CancellationRegistry) Register(id uint32) *AbortTrigger {
	t := newAbortTrigger()
	r.mu.Lock()
	r.handles[id] = t
	r.mu.Unlock()
	return t
}

// Reset triggers and removes the handle for id, if any. Returns false
// if id had no registered handle (a Reset arriving after completion is
// a silent no-op).
func (r *CancellationRegistry) Reset(id uint32) bool {
	r.mu.Lock()
	t, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
	}
	r.mu.Unlock()
	if ok {
		t.Fire()
	}
	return ok
}

// Complete removes the handle for id without firing it — called when
// the task finishes on its own before any Reset arrives.
func (r *CancellationRegistry) Complete(id uint32) {
	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()
}

// Len reports the number of in-flight cancellation handles, exposed
// for Control().Stats().
func (r *CancellationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
