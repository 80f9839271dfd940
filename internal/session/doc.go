// File: internal/session/doc.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Per-connection RPC state: the pending call table, event stream
// registry, and cancellation registry that back one WebSocket
// connection, plus a generic propagation-aware context store for
// application metadata. SessionManager shards sessions by connection
// id so lookups scale with connection count without contending on a
// single lock.
package session
