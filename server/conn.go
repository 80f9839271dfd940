// File: server/conn.go
// Package server
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection wires one accepted api.Transport to the inbound
// dispatcher, the outbound sender, and the per-session RPC registries.
// The dispatcher never blocks on application code: it only decodes a
// frame and enqueues it onto the procedure channel, the event stream
// registry, or the cancellation registry.

package server

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/wsrpc/adapters"
	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/session"
	"github.com/momentics/wsrpc/protocol"
	"github.com/momentics/wsrpc/rpcerr"
)

// Connection is one live WebSocket peer on the server side.
type Connection struct {
	transport api.Transport
	session   session.Session
	executor  api.Executor
	nextID    atomic.Uint32

	recvCh chan Procedure

	sendMu sync.Mutex // serializes writes; no frame interleaving

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error

	handler api.Handler
}

func newConnection(t api.Transport, sess session.Session, exec api.Executor, cfg *Config) *Connection {
	c := &Connection{
		transport: t,
		session:   sess,
		executor:  exec,
		recvCh:    make(chan Procedure, cfg.ProcedureChanCapacity),
		closed:    make(chan struct{}),
	}
	terminal := adapters.HandlerFunc(func(data any) error {
		p := data.(Procedure)
		select {
		case c.recvCh <- p:
			return nil
		case <-c.closed:
			return rpcerr.ConnectionClosed(c.closeErr)
		}
	})
	mw := adapters.NewMiddlewareHandler(terminal)
	for _, m := range cfg.middleware {
		mw.Use(m)
	}
	c.handler = mw
	return c
}

// Recv returns the channel of inbound Notify/Call procedures. It is
// closed once the connection finishes closing and has delivered every
// procedure already queued.
func (c *Connection) Recv() <-chan Procedure {
	return c.recvCh
}

// Notifier returns a cheap, copyable handle for pushing events to this
// connection from any goroutine.
func (c *Connection) Notifier() Notifier {
	return Notifier{conn: c}
}

// Subscribe opens an event stream for name on this connection's own
// event registry — used when a server also issues calls/notifies to
// the peer and wants to consume the peer's Notify traffic for a given
// event name directly instead of via Recv.
func (c *Connection) Subscribe(name string, strict bool) (*session.Stream, bool) {
	return c.session.Events().Subscribe(name, strict)
}

// ID returns the stable session identifier for this connection.
func (c *Connection) ID() string {
	return c.session.ID()
}

// Context exposes this connection's application-scoped key/value store
// (e.g. an auth principal set after a handshake, or room membership),
// independent of the RPC registries.
func (c *Connection) Context() api.Context {
	return c.session.Context()
}

// Close tears the connection down: closes the transport, drains the
// pending call table and event registry with cause, and cancels the
// session.
func (c *Connection) Close(cause error) error {
	c.closeOnce.Do(func() {
		if cause == nil {
			cause = rpcerr.ConnectionClosed(nil)
		}
		c.closeErr = cause
		close(c.closed)
		c.session.Pending().Drain(cause)
		c.session.Events().CloseAll()
		c.session.Cancel()
		_ = c.transport.Close()
	})
	return nil
}

// run is the inbound dispatcher loop: one goroutine per connection,
// decoding frames and routing them, never blocking on application code
// beyond the bounded procedure channel. It is the sole sender on and
// sole closer of recvCh, so closing it here (after the loop has truly
// stopped sending) can never race a concurrent Close from another
// goroutine into a send-on-closed-channel panic.
func (c *Connection) run() {
	defer func() {
		c.Close(nil)
		close(c.recvCh)
	}()
	for {
		msg, err := c.transport.Recv()
		if err != nil {
			c.Close(rpcerr.ConnectionClosed(err))
			return
		}
		frame, err := protocol.Decode(msg)
		if err != nil {
			continue // malformed frame from the peer; drop and keep reading
		}
		switch frame.Opcode {
		case protocol.OpNotify:
			c.session.Events().Enqueue(frame.Event, frame.Payload)
			_ = c.handler.Handle(Procedure(&Notify{Event: frame.Event, Payload: frame.Payload}))
		case protocol.OpRequest:
			trigger := c.session.Cancels().Register(frame.ID)
			call := &Call{Event: frame.Event, Payload: frame.Payload, id: frame.ID, conn: c, abort: trigger}
			_ = c.handler.Handle(Procedure(call))
		case protocol.OpReset:
			c.session.Cancels().Reset(frame.ID)
		case protocol.OpResponse:
			c.session.Pending().Complete(frame.ID, frame.Payload)
		}
	}
}

func (c *Connection) send(msg []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	select {
	case <-c.closed:
		return c.closeErr
	default:
	}
	return c.transport.Send(msg)
}

func (c *Connection) sendNotify(event string, payload []byte) error {
	msg, err := protocol.EncodeNotify(event, payload)
	if err != nil {
		return err
	}
	return c.send(msg)
}

func (c *Connection) sendResponse(id uint32, payload []byte) error {
	return c.send(protocol.EncodeResponse(id, payload))
}

// NextCallID allocates the next monotonic call id for server-initiated
// requests on this connection.
func (c *Connection) NextCallID() uint32 {
	return c.nextID.Add(1)
}

// Call issues a request to the peer, identified by id (see NextCallID),
// and blocks until a Response arrives or the connection closes.
func (c *Connection) Call(event string, payload []byte, id uint32) ([]byte, error) {
	completer := c.session.Pending().Insert(id)
	msg, err := protocol.EncodeRequest(id, event, payload)
	if err != nil {
		c.session.Pending().Abort(id, err)
		return nil, err
	}
	if err := c.send(msg); err != nil {
		c.session.Pending().Abort(id, err)
		return nil, err
	}
	return completer.Wait()
}

// CancelCall sends a Reset for id, telling the peer to abandon the
// matching in-flight request.
func (c *Connection) CancelCall(id uint32) error {
	return c.send(protocol.EncodeReset(id))
}
