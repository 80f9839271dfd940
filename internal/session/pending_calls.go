// File: internal/session/pending_calls.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Client-side pending call table: correlates Response frames with the
// call that is awaiting one. Every completer is fulfilled exactly once
// across {Response, local abort, connection close}.

package session

import "sync"

// Completer is the one-shot sink a pending call blocks on. Exactly one
// of Resolve/Reject is ever called for a given Completer.
type Completer struct {
	result chan callResult
}

type callResult struct {
	payload []byte
	err     error
}

func newCompleter() *Completer {
	return &Completer{result: make(chan callResult, 1)}
}

// Resolve fulfills the completer with a successful payload.
func (c *Completer) Resolve(payload []byte) {
	c.result <- callResult{payload: payload}
}

// Reject fulfills the completer with an error.
func (c *Completer) Reject(err error) {
	c.result <- callResult{err: err}
}

// Wait blocks until the completer is fulfilled and returns its result.
func (c *Completer) Wait() ([]byte, error) {
	r := <-c.result
	return r.payload, r.err
}

// PendingCallTable maps call id -> Completer. At most one entry exists
// per id at any time.
type PendingCallTable struct {
	mu      sync.Mutex
	entries map[uint32]*Completer
}

// NewPendingCallTable constructs an empty table.
func NewPendingCallTable() *PendingCallTable {
	return &PendingCallTable{entries: make(map[uint32]*Completer)}
}

// Insert registers a new completer for id. Precondition: id absent.
func (t *PendingCallTable) Insert(id uint32) *Completer {
	c := newCompleter()
	t.mu.Lock()
	t.entries[id] = c
	t.mu.Unlock()
	return c
}

// Complete removes id's entry and resolves it with payload. Returns
// false if id had no entry (late/duplicate Response — dropped silently
// by the caller).
func (t *PendingCallTable) Complete(id uint32, payload []byte) bool {
	t.mu.Lock()
	c, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()
	if ok {
		c.Resolve(payload)
	}
	return ok
}

// Abort removes id's entry and rejects it with err, used for
// user-initiated cancellation. Returns false if id was already gone.
func (t *PendingCallTable) Abort(id uint32, err error) bool {
	t.mu.Lock()
	c, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()
	if ok {
		c.Reject(err)
	}
	return ok
}

// Drain rejects every remaining entry with err and empties the table;
// used on connection close.
func (t *PendingCallTable) Drain(err error) {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[uint32]*Completer)
	t.mu.Unlock()
	for _, c := range entries {
		c.Reject(err)
	}
}

// Len reports the number of in-flight calls, exposed for status()/Stats().
func (t *PendingCallTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// IDs returns a snapshot of the ids currently pending, for status().
func (t *PendingCallTable) IDs() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uint32, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	return ids
}
