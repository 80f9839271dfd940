// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Transport is the single collaborator the RPC engine needs from the
// outside world: something that can send and receive whole WebSocket
// binary messages. Framing, TLS, and reconnection are the caller's
// concern; this package only ever sees opaque message bytes.

package api

// Transport sends and receives whole binary WebSocket messages. Recv
// blocks until the next message arrives, the peer closes the
// connection, or Close is called from another goroutine, in which
// case Recv returns a non-nil error (fake.Transport returns
// ErrTransportClosed; wstransport returns the gorilla/websocket error).
//
// Send must only be called from the single writer goroutine that owns
// a Transport — the outbound sender serializes all writes itself;
// implementations are not required to tolerate concurrent Send calls.
type Transport interface {
	Send(msg []byte) error
	Recv() ([]byte, error)
	Close() error
	Features() TransportFeatures
}

// TransportFeatures advertises optional traits of a concrete Transport.
// The RPC engine never requires any of these; they exist so
// diagnostics and the control surface can report what is actually
// backing a connection.
type TransportFeatures struct {
	Name           string // e.g. "wstransport", "fake"
	PerMessageZlib bool
	OS             []string
}
