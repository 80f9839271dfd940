// File: transport/wstransport/transport.go
// Package wstransport implements api.Transport over a real WebSocket
// connection using gorilla/websocket, negotiating the engine's
// subprotocol token on both the listening and dialing sides.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wstransport

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/momentics/wsrpc/api"
)

// Subprotocol is the WebSocket subprotocol token negotiated by both
// peers; a connection that did not negotiate it is still usable (the
// wire format is opaque to WebSocket itself) but peers should verify
// it before trusting the framing.
const Subprotocol = "websocket.io-rpc-v0.1"

// Transport adapts a *websocket.Conn to api.Transport. Every frame of
// the engine's wire format is carried as one binary WebSocket message;
// Recv/Send never split or coalesce messages.
type Transport struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	features api.TransportFeatures
}

// New wraps an already-upgraded/dialed *websocket.Conn.
func New(conn *websocket.Conn) *Transport {
	return &Transport{
		conn: conn,
		features: api.TransportFeatures{
			Name:           "wstransport",
			PerMessageZlib: false,
			OS:             []string{"linux", "darwin", "windows"},
		},
	}
}

// Send writes msg as one binary WebSocket message. Safe for concurrent
// use; writes never interleave.
func (t *Transport) Send(msg []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.BinaryMessage, msg)
}

// Recv blocks until one complete WebSocket message arrives. Only one
// goroutine may call Recv at a time, matching gorilla/websocket's
// single-reader contract.
func (t *Transport) Recv() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close closes the underlying connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// Features reports the transport's capabilities.
func (t *Transport) Features() api.TransportFeatures {
	return t.features
}

// NegotiatedSubprotocol reports the subprotocol the handshake settled
// on, for callers that want to assert it equals Subprotocol.
func (t *Transport) NegotiatedSubprotocol() string {
	return t.conn.Subprotocol()
}
