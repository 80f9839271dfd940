// File: internal/session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core session implementation: one connection's worth of RPC state —
// pending call table, event stream registry, cancellation registry —
// plus generic context/deadline/cancel bookkeeping shared by both
// server connections and client sessions.

package session

import (
	"sync"
	"time"

	"github.com/momentics/wsrpc/api"
)

// sessionImpl holds per-connection state: context, cancellation, and
// the three RPC registries described in the package doc.
type sessionImpl struct {
	id       string
	ctx      api.Context
	done     chan struct{}
	once     sync.Once
	deadline time.Time

	pending *PendingCallTable
	events  *EventStreamRegistry
	cancels *CancellationRegistry
}

// newSession creates a new session with the given unique identifier
// and event-queue capacity (see EventStreamRegistry). cf mints the
// session's Context; nil falls back to a plain contextStore.
func newSession(id string, eventQueueCapacity int, cf api.ContextFactory) *sessionImpl {
	var ctx api.Context
	if cf != nil {
		ctx = cf.NewContext()
	} else {
		ctx = NewContextStore()
	}
	return &sessionImpl{
		id:      id,
		ctx:     ctx,
		done:    make(chan struct{}),
		pending: NewPendingCallTable(),
		events:  NewEventStreamRegistry(eventQueueCapacity),
		cancels: NewCancellationRegistry(),
	}
}

// ID returns the unique session identifier.
func (s *sessionImpl) ID() string {
	return s.id
}

// Context returns the underlying api.Context, used for application
// metadata unrelated to the RPC registries (e.g. per-connection auth
// principal, room membership).
func (s *sessionImpl) Context() api.Context {
	return s.ctx
}

// Pending returns the session's pending call table (client role).
func (s *sessionImpl) Pending() *PendingCallTable {
	return s.pending
}

// Events returns the session's event stream registry (either role).
func (s *sessionImpl) Events() *EventStreamRegistry {
	return s.events
}

// Cancels returns the session's cancellation registry (server role).
func (s *sessionImpl) Cancels() *CancellationRegistry {
	return s.cancels
}

// Cancel signals session teardown; idempotent. Draining the RPC
// registries is the caller's responsibility (the dispatcher calls
// Pending().Drain/Events().CloseAll with the close cause) since only
// it knows the right error to drain with.
func (s *sessionImpl) Cancel() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Done returns a channel closed upon cancellation.
func (s *sessionImpl) Done() <-chan struct{} {
	return s.done
}

// Deadline returns the session expiration if set.
func (s *sessionImpl) Deadline() (time.Time, bool) {
	if s.deadline.IsZero() {
		return time.Time{}, false
	}
	return s.deadline, true
}

// WithDeadline sets an absolute deadline for the session.
func (s *sessionImpl) WithDeadline(t time.Time) {
	s.deadline = t
}
