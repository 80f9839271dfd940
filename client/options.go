// File: client/options.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

// ClientOption mutates a Config before a Client is constructed.
type ClientOption func(*Config)

// WithEventQueueCapacity overrides the per-event-stream queue capacity.
func WithEventQueueCapacity(n int) ClientOption {
	return func(c *Config) { c.EventQueueCapacity = n }
}

// WithSubscribeStrict toggles strict duplicate-subscribe rejection.
func WithSubscribeStrict(strict bool) ClientOption {
	return func(c *Config) { c.SubscribeStrict = strict }
}

// WithProcedureChanCapacity bounds the inbound procedure channel.
func WithProcedureChanCapacity(n int) ClientOption {
	return func(c *Config) { c.ProcedureChanCapacity = n }
}

// ConnEventHandler reports connection lifecycle transitions. Implementers
// that only care about a subset can embed NoopConnEventHandler.
type ConnEventHandler interface {
	OnOpen()
	OnClose(cause error)
}

// NoopConnEventHandler provides empty implementations so callers can
// embed it and override only the events they care about.
type NoopConnEventHandler struct{}

func (NoopConnEventHandler) OnOpen()        {}
func (NoopConnEventHandler) OnClose(error) {}
