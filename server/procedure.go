// File: server/procedure.go
// Package server
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The procedure surface: the two shapes of inbound traffic a server
// application drains from Connection.Recv — one-way Notify and
// request/response Call, the latter carrying a one-shot response
// sender and a cancellation controller wired to Reset.

package server

import (
	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/session"
)

// Procedure is either a *Notify or a *Call.
type Procedure interface {
	isProcedure()
}

// Notify is a fire-and-forget inbound message; there is nothing to
// reply to and no id to track.
type Notify struct {
	Event   string
	Payload []byte
}

func (*Notify) isProcedure() {}

// Call is a request awaiting exactly one Response. Respond sends at
// most once; later calls return api.ErrAlreadyExists. Abort is wired to
// a peer Reset for this id: once fired, Done() is closed and Respond is
// still safe but sends nothing.
type Call struct {
	Event   string
	Payload []byte

	id     uint32
	conn   *Connection
	abort  *session.AbortTrigger
	replied bool
}

func (*Call) isProcedure() {}

// Respond sends exactly one Response frame for this call. Subsequent
// calls return api.ErrAlreadyExists.
func (c *Call) Respond(payload []byte) error {
	if c.replied {
		return api.ErrAlreadyExists
	}
	if c.abort.Aborted() {
		c.replied = true
		return nil
	}
	c.replied = true
	c.conn.session.Cancels().Complete(c.id)
	return c.conn.sendResponse(c.id, payload)
}

// Done returns a channel closed when the peer resets this call's id.
// Long-running handlers should select on it to stop early.
func (c *Call) Done() <-chan struct{} {
	return c.abort.Done()
}

// Aborted reports whether the peer has already reset this call.
func (c *Call) Aborted() bool {
	return c.abort.Aborted()
}

// SpawnAndAbortOnReset submits fn to the connection's executor and
// lets it observe c.Done() for cooperative cancellation. fn must poll
// c.Done() at its own suspension points; SpawnAndAbortOnReset does not
// preempt a running task.
func (c *Call) SpawnAndAbortOnReset(fn func(*Call)) error {
	return c.conn.executor.Submit(func() { fn(c) })
}
