// File: client/procedure.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/session"
)

// Procedure is either a *Notify or a *Call the peer sent to this client.
type Procedure interface {
	isProcedure()
}

// Notify is a fire-and-forget inbound message from the peer.
type Notify struct {
	Event   string
	Payload []byte
}

func (*Notify) isProcedure() {}

// Call is a peer request awaiting exactly one Response.
type Call struct {
	Event   string
	Payload []byte

	id      uint32
	client  *Client
	abort   *session.AbortTrigger
	replied bool
}

func (*Call) isProcedure() {}

// Respond sends exactly one Response frame for this call.
func (c *Call) Respond(payload []byte) error {
	if c.replied {
		return api.ErrAlreadyExists
	}
	if c.abort.Aborted() {
		c.replied = true
		return nil
	}
	c.replied = true
	c.client.session.Cancels().Complete(c.id)
	return c.client.sendResponse(c.id, payload)
}

// Done returns a channel closed when the peer resets this call's id.
func (c *Call) Done() <-chan struct{} {
	return c.abort.Done()
}

// Aborted reports whether the peer already reset this call.
func (c *Call) Aborted() bool {
	return c.abort.Aborted()
}
