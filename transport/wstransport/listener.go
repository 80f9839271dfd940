// File: transport/wstransport/listener.go
// Package wstransport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wstransport

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/momentics/wsrpc/api"
)

// UpgraderOption customizes the gorilla/websocket.Upgrader used to
// accept incoming connections.
type UpgraderOption func(*websocket.Upgrader)

// WithCheckOrigin overrides the default allow-all origin check.
func WithCheckOrigin(fn func(*http.Request) bool) UpgraderOption {
	return func(u *websocket.Upgrader) { u.CheckOrigin = fn }
}

// WithBufferSizes sets the upgrader's read/write buffer sizes.
func WithBufferSizes(read, write int) UpgraderOption {
	return func(u *websocket.Upgrader) {
		u.ReadBufferSize = read
		u.WriteBufferSize = write
	}
}

// NewUpgrader builds an upgrader that negotiates Subprotocol.
func NewUpgrader(opts ...UpgraderOption) *websocket.Upgrader {
	u := &websocket.Upgrader{
		Subprotocols: []string{Subprotocol},
		CheckOrigin:  func(*http.Request) bool { return true },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Accept upgrades one incoming HTTP request to a WebSocket connection
// and returns it as an api.Transport. Callers hand the result to
// server.Server.Accept.
func Accept(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader) (api.Transport, error) {
	if upgrader == nil {
		upgrader = NewUpgrader()
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Handler adapts Accept into an http.Handler, invoking onAccept with
// every successfully upgraded transport. onAccept is expected to call
// server.Server.Accept and then drain Connection.Recv in its own
// goroutine if it wants to keep serving other upgrades immediately.
func Handler(upgrader *websocket.Upgrader, onAccept func(api.Transport)) http.HandlerFunc {
	if upgrader == nil {
		upgrader = NewUpgrader()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := Accept(w, r, upgrader)
		if err != nil {
			return
		}
		onAccept(t)
	}
}
