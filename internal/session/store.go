// File: internal/session/store.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Sharded, thread-safe SessionManager. Sharding parallelizes across
// connections — each shard guards a map of whole sessions; state
// within one session (its pending/event/cancellation registries) is
// never split across shards.

package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momentics/wsrpc/api"
)

// SessionManager creates and looks up per-connection Sessions.
type SessionManager interface {
	// CreateNew mints a fresh uuid-keyed session.
	CreateNew(eventQueueCapacity int) Session
	// Create returns the existing session for id, or creates one.
	Create(id string, eventQueueCapacity int) Session
	Get(id string) (Session, bool)
	Delete(id string)
	Range(func(Session))
}

// Session abstracts one connection's worth of RPC + context state.
type Session interface {
	ID() string
	Context() api.Context
	Pending() *PendingCallTable
	Events() *EventStreamRegistry
	Cancels() *CancellationRegistry
	Cancel()
	Done() <-chan struct{}
	Deadline() (time.Time, bool)
}

// sessionManager implements sharded storage for sessions.
type sessionManager struct {
	shards     []*sessionShard
	mask       uint32
	ctxFactory api.ContextFactory
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[string]*sessionImpl
}

// NewSessionManager constructs a sharded manager with shardCount shards.
// cf mints each session's api.Context; nil falls back to a plain
// in-memory contextStore (see newSession).
func NewSessionManager(shardCount int, cf api.ContextFactory) SessionManager {
	if shardCount <= 0 {
		shardCount = 16
	}
	m := nextPowerOfTwo(uint32(shardCount))
	shards := make([]*sessionShard, m)
	for i := range shards {
		shards[i] = &sessionShard{sessions: make(map[string]*sessionImpl)}
	}
	return &sessionManager{shards: shards, mask: m - 1, ctxFactory: cf}
}

func (m *sessionManager) shard(id string) *sessionShard {
	h := fnv32(id)
	return m.shards[h&m.mask]
}

// CreateNew mints a uuid for the session id — the default path used by
// a server accepting a new WebSocket connection.
func (m *sessionManager) CreateNew(eventQueueCapacity int) Session {
	return m.Create(uuid.NewString(), eventQueueCapacity)
}

// Create returns the existing session for id, or creates one.
func (m *sessionManager) Create(id string, eventQueueCapacity int) Session {
	sh := m.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if s, ok := sh.sessions[id]; ok {
		return s
	}
	s := newSession(id, eventQueueCapacity, m.ctxFactory)
	sh.sessions[id] = s
	return s
}

// Get fetches a session if present.
func (m *sessionManager) Get(id string) (Session, bool) {
	sh := m.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	return s, ok
}

// Delete cancels and removes the session.
func (m *sessionManager) Delete(id string) {
	sh := m.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if s, ok := sh.sessions[id]; ok {
		s.Cancel()
		delete(sh.sessions, id)
	}
}

// Range applies fn to all sessions.
func (m *sessionManager) Range(fn func(Session)) {
	for _, sh := range m.shards {
		sh.mu.RLock()
		for _, s := range sh.sessions {
			fn(s)
		}
		sh.mu.RUnlock()
	}
}

// fnv32 hashes a string to uint32.
func fnv32(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// nextPowerOfTwo returns the next power-of-two >= v.
func nextPowerOfTwo(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
