// File: client/client.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/wsrpc/adapters"
	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/session"
	"github.com/momentics/wsrpc/pool"
	"github.com/momentics/wsrpc/protocol"
	"github.com/momentics/wsrpc/rpcerr"
)

// Client is one RPC connection over an already-established
// api.Transport (see transport/wstransport for the WebSocket-backed
// implementation). It is symmetric: it both issues calls/notifies to
// the peer and drains calls/notifies the peer issues back.
type Client struct {
	cfg       *Config
	transport api.Transport
	session   session.Session
	bufPool   api.BufferPool
	nextID    atomic.Uint32

	recvCh chan Procedure
	sendMu sync.Mutex

	state     atomic.Int32
	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error

	mu       sync.Mutex
	handlers []ConnEventHandler
}

// New wraps t, starts the inbound dispatcher, and reports Open once
// the dispatcher goroutine is running.
func New(t api.Transport, opts ...ClientOption) *Client {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	mgr := session.NewSessionManager(1, adapters.NewContextAdapter())
	c := &Client{
		cfg:       cfg,
		transport: t,
		session:   mgr.CreateNew(cfg.EventQueueCapacity),
		bufPool:   pool.DefaultManager().GetPool(cfg.BufferSize, -1),
		recvCh:    make(chan Procedure, cfg.ProcedureChanCapacity),
		closed:    make(chan struct{}),
	}
	c.state.Store(int32(api.SessionConnecting))
	go c.run()
	return c
}

// BufferPool exposes the NUMA-aware pool application code may borrow
// scratch buffers from instead of allocating for every call payload.
func (c *Client) BufferPool() api.BufferPool {
	return c.bufPool
}

// Context exposes this connection's application-scoped key/value store
// (e.g. an auth principal learned from the peer), independent of the
// RPC registries.
func (c *Client) Context() api.Context {
	return c.session.Context()
}

// RegisterHandler subscribes h to lifecycle transitions. If the
// connection is already open, OnOpen fires immediately in a new
// goroutine.
func (c *Client) RegisterHandler(h ConnEventHandler) {
	c.mu.Lock()
	c.handlers = append(c.handlers, h)
	open := api.SessionStatus(c.state.Load()) == api.SessionActive
	c.mu.Unlock()
	if open {
		go h.OnOpen()
	}
}

// Status reports the lifecycle phase.
func (c *Client) Status() api.SessionStatus {
	return api.SessionStatus(c.state.Load())
}

// StatusSnapshot is the {pending_ids, active_event_names} introspection
// payload a debug endpoint can expose.
type StatusSnapshot struct {
	PendingIDs       []uint32
	ActiveEventNames []string
}

// Snapshot returns the current pending call ids and subscribed event
// names.
func (c *Client) Snapshot() StatusSnapshot {
	return StatusSnapshot{
		PendingIDs:       c.session.Pending().IDs(),
		ActiveEventNames: c.session.Events().Names(),
	}
}

// Recv returns the channel of inbound Notify/Call procedures sent by
// the peer. Closed once the client finishes closing.
func (c *Client) Recv() <-chan Procedure {
	return c.recvCh
}

// On subscribes to an event stream under name. strict controls
// duplicate-subscribe behavior: true returns AlreadySubscribed while a
// stream for name is live, false replaces it. Config.SubscribeStrict is
// not consulted.
func (c *Client) On(name string, strict bool) (*session.Stream, error) {
	s, ok := c.session.Events().Subscribe(name, strict)
	if !ok {
		return nil, rpcerr.AlreadySubscribed(name)
	}
	return s, nil
}

// RemoveEvent tears down the subscription for name, if any.
func (c *Client) RemoveEvent(name string) bool {
	return c.session.Events().Unsubscribe(name)
}

// Notify sends a fire-and-forget event to the peer.
func (c *Client) Notify(event string, payload []byte) error {
	msg, err := protocol.EncodeNotify(event, payload)
	if err != nil {
		return err
	}
	return c.send(msg)
}

// Call issues a request and blocks until a Response arrives, the
// connection closes, or signal (if non-nil) fires — in which case a
// Reset is sent for the allocated id and ErrAborted-flavored error is
// returned.
func (c *Client) Call(event string, payload []byte, signal *CancelSignal) ([]byte, error) {
	if api.SessionStatus(c.state.Load()) != api.SessionActive {
		return nil, rpcerr.NotConnected()
	}
	id := c.nextID.Add(1)
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

	if signal == nil {
		return completer.Wait()
	}

	result := make(chan struct{})
	var payloadOut []byte
	var errOut error
	go func() {
		payloadOut, errOut = completer.Wait()
		close(result)
	}()
	select {
	case <-result:
		return payloadOut, errOut
	case <-signal.Done():
		_ = c.send(protocol.EncodeReset(id))
		c.session.Pending().Abort(id, rpcerr.Aborted(signal.Reason()))
		<-result
		return payloadOut, errOut
	}
}

// Close idempotently tears the client down, notifying handlers.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.state.Store(int32(api.SessionClosing))
		cause := rpcerr.ConnectionClosed(nil)
		c.closeErr = cause
		close(c.closed)
		c.session.Pending().Drain(cause)
		c.session.Events().CloseAll()
		c.session.Cancel()
		_ = c.transport.Close()
		c.state.Store(int32(api.SessionClosed))

		c.mu.Lock()
		handlers := append([]ConnEventHandler(nil), c.handlers...)
		c.mu.Unlock()
		for _, h := range handlers {
			h.OnClose(cause)
		}
	})
	return nil
}

func (c *Client) run() {
	c.state.Store(int32(api.SessionActive))
	c.mu.Lock()
	handlers := append([]ConnEventHandler(nil), c.handlers...)
	c.mu.Unlock()
	for _, h := range handlers {
		h.OnOpen()
	}

	// run is the sole sender on and sole closer of recvCh; closing it
	// only after the loop truly stops sending rules out a concurrent
	// external Close racing a send into a panic.
	defer func() {
		c.Close()
		close(c.recvCh)
	}()
	for {
		msg, err := c.transport.Recv()
		if err != nil {
			return
		}
		frame, err := protocol.Decode(msg)
		if err != nil {
			continue
		}
		switch frame.Opcode {
		case protocol.OpNotify:
			c.session.Events().Enqueue(frame.Event, frame.Payload)
			c.deliver(&Notify{Event: frame.Event, Payload: frame.Payload})
		case protocol.OpRequest:
			trigger := c.session.Cancels().Register(frame.ID)
			c.deliver(&Call{Event: frame.Event, Payload: frame.Payload, id: frame.ID, client: c, abort: trigger})
		case protocol.OpReset:
			c.session.Cancels().Reset(frame.ID)
		case protocol.OpResponse:
			c.session.Pending().Complete(frame.ID, frame.Payload)
		}
	}
}

func (c *Client) deliver(p Procedure) {
	select {
	case c.recvCh <- p:
	case <-c.closed:
	}
}

func (c *Client) send(msg []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	select {
	case <-c.closed:
		return c.closeErr
	default:
	}
	return c.transport.Send(msg)
}

func (c *Client) sendResponse(id uint32, payload []byte) error {
	return c.send(protocol.EncodeResponse(id, payload))
}
