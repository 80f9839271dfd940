// File: server/server.go
// Package server
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/wsrpc/adapters"
	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/control"
	"github.com/momentics/wsrpc/internal/session"
	"github.com/momentics/wsrpc/pool"
)

// Server owns the pieces shared by every accepted Connection: the
// control/metrics facade, the executor backing cancellable tasks, the
// session manager tracking per-connection RPC state, and a NUMA-aware
// buffer pool applications may borrow from when building responses.
type Server struct {
	cfg      *Config
	control  api.Control
	executor api.Executor
	sessions session.SessionManager
	bufPool  api.BufferPool

	mu    sync.Mutex
	conns map[string]*Connection
}

// NewServer builds a Server from cfg (DefaultConfig() if nil) and opts.
func NewServer(cfg *Config, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, o := range opts {
		o(cfg)
	}
	ctl := adapters.NewControlAdapter()
	executor := adapters.NewExecutorAdapter(cfg.ExecutorWorkers, cfg.NUMANode)
	if aff, ok := executor.(interface{ Affinities() []api.Affinity }); ok {
		ctl.RegisterDebugProbe("executor.affinity", func() any {
			descs := make([]api.AffinityDescriptor, 0)
			for _, a := range aff.Affinities() {
				descs = append(descs, a.ImmutableDescriptor())
			}
			return descs
		})
	}
	s := &Server{
		cfg:      cfg,
		control:  ctl,
		executor: executor,
		sessions: session.NewSessionManager(cfg.SessionShards, adapters.NewContextAdapter()),
		bufPool:  pool.DefaultManager().GetPool(cfg.BufferSize, cfg.NUMANode),
		conns:    make(map[string]*Connection),
	}

	ctl.RegisterDebugProbe("rpc.pending_calls", func() any { return s.pendingCallsTotal() })
	ctl.RegisterDebugProbe("rpc.open_streams", func() any { return s.openStreamsTotal() })
	ctl.RegisterDebugProbe("rpc.cancellations", func() any { return s.cancellationsTotal() })
	ctl.RegisterDebugProbe("rpc.connections", func() any { return s.connectionCount() })

	return s
}

// connectionCount reports how many connections are currently tracked.
func (s *Server) connectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// pendingCallsTotal sums in-flight server-initiated calls across every
// live session, exposed via the "rpc.pending_calls" debug probe and
// surfaced through PrometheusGatherer.
func (s *Server) pendingCallsTotal() int {
	total := 0
	s.sessions.Range(func(sess session.Session) {
		total += sess.Pending().Len()
	})
	return total
}

// openStreamsTotal sums actively subscribed event streams across every
// live session.
func (s *Server) openStreamsTotal() int {
	total := 0
	s.sessions.Range(func(sess session.Session) {
		total += len(sess.Events().Names())
	})
	return total
}

// cancellationsTotal sums in-flight cancellation handles (calls that
// could still be aborted by a Reset) across every live session.
func (s *Server) cancellationsTotal() int {
	total := 0
	s.sessions.Range(func(sess session.Session) {
		total += sess.Cancels().Len()
	})
	return total
}

// PrometheusGatherer exposes pending call counts, open event stream
// counts, cancellation counts, connection counts, and every other
// Control().Stats() entry as Prometheus gauges, for an embedding
// application to serve over its own HTTP mux (e.g. via promhttp).
func (s *Server) PrometheusGatherer() prometheus.Gatherer {
	return control.NewPrometheusExporter(s.control.Stats, "wsrpc").Gatherer()
}

// Accept wraps a freshly-established transport in a Connection, mints
// its session, and starts the inbound dispatcher loop. Callers drain
// Connection.Recv() for Notify/Call procedures.
func (s *Server) Accept(t api.Transport) *Connection {
	sess := s.sessions.CreateNew(s.cfg.EventQueueCapacity)
	conn := newConnection(t, sess, s.executor, s.cfg)

	s.mu.Lock()
	s.conns[sess.ID()] = conn
	s.mu.Unlock()

	go func() {
		conn.run()
		s.mu.Lock()
		delete(s.conns, sess.ID())
		s.mu.Unlock()
		s.sessions.Delete(sess.ID())
	}()
	return conn
}

// Broadcast calls fn for every currently connected session's Notifier;
// fn typically calls Notifier.Notify. Connections that close mid-range
// are simply skipped on their next call.
func (s *Server) Broadcast(fn func(Notifier)) {
	s.mu.Lock()
	handles := make([]Notifier, 0, len(s.conns))
	for _, c := range s.conns {
		handles = append(handles, c.Notifier())
	}
	s.mu.Unlock()
	for _, n := range handles {
		fn(n)
	}
}

// Connection looks up a currently tracked connection by session id.
func (s *Server) Connection(id string) (*Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	return c, ok
}

// Control exposes runtime configuration, metrics, and debug probes.
func (s *Server) Control() api.Control {
	return s.control
}

// Executor exposes the worker pool backing spawn_and_abort_on_reset.
func (s *Server) Executor() api.Executor {
	return s.executor
}

// BufferPool exposes the NUMA-aware pool application handlers may
// borrow scratch buffers from instead of allocating for every response.
func (s *Server) BufferPool() api.BufferPool {
	return s.bufPool
}

// Close closes all connections at once, waiting up to
// cfg.ShutdownTimeout for those Close calls to return, then closes the
// executor. In-flight procedures are not waited for.
func (s *Server) Close() error {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, c := range conns {
			wg.Add(1)
			go func(c *Connection) {
				defer wg.Done()
				c.Close(nil)
			}(c)
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.cfg.ShutdownTimeout):
	}
	if closer, ok := s.executor.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}
