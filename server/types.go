// File: server/types.go
// Package server implements the server-side half of the framed RPC
// engine: the inbound dispatcher, procedure surface, cancellation
// registry, and outbound sender for one or many WebSocket connections.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"runtime"
	"time"

	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/internal/session"
)

// Config holds server-side tuning knobs. Everything here is optional;
// DefaultConfig returns values good enough to start a server.
type Config struct {
	// EventQueueCapacity bounds each event stream's consumer queue;
	// Enqueue blocks once it fills, propagating back-pressure to the
	// dispatcher. Default 16.
	EventQueueCapacity int

	// SubscribeStrict records the preferred duplicate-subscribe behavior
	// (true: reject a second live subscription, false: replace the prior
	// stream). Connection.Subscribe does not read it; its own strict
	// argument alone decides.
	SubscribeStrict bool

	// ProcedureChanCapacity bounds the inbound-procedure channel the
	// dispatcher enqueues onto and recv() drains.
	ProcedureChanCapacity int

	// ExecutorWorkers sizes the worker pool backing
	// spawn_and_abort_on_reset tasks.
	ExecutorWorkers int

	// NUMANode is the preferred NUMA node passed to the executor's
	// worker pinning and to the buffer pool lookup; -1 lets the runtime
	// choose (see internal/normalize).
	NUMANode int

	// SessionShards is the number of SessionManager shards.
	SessionShards int

	// BufferSize sizes the scratch buffers handed out by BufferPool.
	BufferSize int

	// ShutdownTimeout bounds how long Close waits for the connections'
	// Close calls to return. In-flight procedures are not waited for.
	ShutdownTimeout time.Duration

	middleware []func(api.Handler) api.Handler
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		EventQueueCapacity:    session.DefaultEventQueueCapacity,
		SubscribeStrict:       true,
		ProcedureChanCapacity: 64,
		ExecutorWorkers:       runtime.NumCPU(),
		NUMANode:              -1,
		SessionShards:         16,
		BufferSize:            4096,
		ShutdownTimeout:       10 * time.Second,
	}
}
