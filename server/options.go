// File: server/options.go
// Package server
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "github.com/momentics/wsrpc/api"

// ServerOption mutates a Config before a Server is constructed.
type ServerOption func(*Config)

// WithEventQueueCapacity overrides the per-event-stream queue capacity.
func WithEventQueueCapacity(n int) ServerOption {
	return func(c *Config) { c.EventQueueCapacity = n }
}

// WithSubscribeStrict toggles strict duplicate-subscribe rejection.
func WithSubscribeStrict(strict bool) ServerOption {
	return func(c *Config) { c.SubscribeStrict = strict }
}

// WithExecutorWorkers sizes the worker pool behind spawn-and-abort tasks.
func WithExecutorWorkers(n int) ServerOption {
	return func(c *Config) { c.ExecutorWorkers = n }
}

// WithAffinityScope sets Config.NUMANode, the preferred NUMA node for
// executor workers and the buffer pool.
func WithAffinityScope(numaNode int) ServerOption {
	return func(c *Config) { c.NUMANode = numaNode }
}

// WithSessionShards sets the SessionManager shard count.
func WithSessionShards(n int) ServerOption {
	return func(c *Config) { c.SessionShards = n }
}

// WithProcedureChanCapacity bounds the inbound procedure channel.
func WithProcedureChanCapacity(n int) ServerOption {
	return func(c *Config) { c.ProcedureChanCapacity = n }
}

// WithMiddleware attaches request middleware applied to every inbound
// Call/Notify before it reaches application code.
func WithMiddleware(mw ...func(api.Handler) api.Handler) ServerOption {
	return func(c *Config) { c.middleware = append(c.middleware, mw...) }
}
