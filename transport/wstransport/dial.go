// File: transport/wstransport/dial.go
// Package wstransport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wstransport

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/momentics/wsrpc/api"
)

// DialOption customizes the gorilla/websocket.Dialer used to connect.
type DialOption func(*websocket.Dialer)

// WithHandshakeTimeout bounds the upgrade handshake.
func WithHandshakeTimeout(d time.Duration) DialOption {
	return func(dialer *websocket.Dialer) { dialer.HandshakeTimeout = d }
}

// Dial connects to url (ws:// or wss://), negotiates Subprotocol, and
// returns the connection as an api.Transport ready for client.New.
func Dial(ctx context.Context, url string, opts ...DialOption) (api.Transport, error) {
	dialer := &websocket.Dialer{
		Subprotocols:     []string{Subprotocol},
		HandshakeTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(dialer)
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}
