// File: api/context_factory.go
package api

// ContextFactory mints a Context; the concrete implementation is
// supplied by the facade (server.NewServer / client.New) rather than
// hardcoded here, so callers can swap in a different Context backend.
type ContextFactory interface {
	NewContext() Context
}
