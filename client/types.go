// File: client/types.go
// Package client implements the client-side half of the framed RPC
// engine over a single api.Transport: issuing calls/notifies to the
// peer, and (symmetrically) draining Call/Notify procedures the peer
// issues back, since either side may act as caller or callee.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import "github.com/momentics/wsrpc/internal/session"

// Config holds client-side tuning knobs. Reconnection is out of scope:
// a Client wraps exactly one already-established api.Transport and
// reports ConnectionClosed once it fails, leaving redial policy to the
// caller.
type Config struct {
	// EventQueueCapacity bounds each event stream's consumer queue.
	EventQueueCapacity int

	// SubscribeStrict records the preferred duplicate-subscribe behavior
	// (true: reject a second live subscription with AlreadySubscribed,
	// false: replace the prior stream). Client.On does not read it; its
	// own strict argument alone decides.
	SubscribeStrict bool

	// ProcedureChanCapacity bounds the inbound procedure channel for
	// Call/Notify frames the peer sends to this client.
	ProcedureChanCapacity int

	// BufferSize sizes the scratch buffers handed out by BufferPool.
	BufferSize int
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		EventQueueCapacity:    session.DefaultEventQueueCapacity,
		SubscribeStrict:       true,
		ProcedureChanCapacity: 64,
		BufferSize:            4096,
	}
}
