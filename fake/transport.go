// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development. Provides
// predictable, controllable behavior for api.Transport without opening
// any real socket.

package fake

import (
	"sync"

	"github.com/momentics/wsrpc/api"
)

// Transport is a fake, in-memory api.Transport. Messages queued with
// AddRecvData are handed out one at a time by Recv, in FIFO order;
// Recv blocks until a message is available or the transport is
// closed.
type Transport struct {
	mu         sync.Mutex
	cond       *sync.Cond
	sendBuffer [][]byte
	recvBuffer [][]byte
	closed     bool
	sendError  error
	recvError  error
	closeError error
	features   api.TransportFeatures
}

// NewTransport creates a new fake transport with default settings.
func NewTransport() *Transport {
	t := &Transport{
		sendBuffer: make([][]byte, 0),
		recvBuffer: make([][]byte, 0),
		features:   api.TransportFeatures{Name: "fake", OS: []string{"any"}},
	}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Send implements api.Transport.
func (t *Transport) Send(msg []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return api.ErrTransportClosed
	}
	if t.sendError != nil {
		return t.sendError
	}
	cp := make([]byte, len(msg))
	copy(cp, msg)
	t.sendBuffer = append(t.sendBuffer, cp)
	return nil
}

// Recv implements api.Transport. It blocks until a message queued via
// AddRecvData is available or the transport is closed.
func (t *Transport) Recv() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for len(t.recvBuffer) == 0 && !t.closed && t.recvError == nil {
		t.cond.Wait()
	}
	if t.recvError != nil {
		return nil, t.recvError
	}
	if len(t.recvBuffer) == 0 {
		return nil, api.ErrTransportClosed
	}
	msg := t.recvBuffer[0]
	t.recvBuffer = t.recvBuffer[1:]
	return msg, nil
}

// Close implements api.Transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closeError != nil {
		return t.closeError
	}
	t.closed = true
	t.cond.Broadcast()
	return nil
}

// Features implements api.Transport.
func (t *Transport) Features() api.TransportFeatures {
	return t.features
}

// SetSendError configures the transport to return an error on Send.
func (t *Transport) SetSendError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendError = err
}

// SetRecvError configures the transport to return an error on Recv and
// wakes any blocked Recv call.
func (t *Transport) SetRecvError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recvError = err
	t.cond.Broadcast()
}

// SetCloseError configures the transport to return an error on Close.
func (t *Transport) SetCloseError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeError = err
}

// AddRecvData queues a message to be returned by a future Recv call.
func (t *Transport) AddRecvData(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	t.recvBuffer = append(t.recvBuffer, cp)
	t.cond.Broadcast()
}

// GetSentData returns all data that has been sent via Send, in order.
func (t *Transport) GetSentData() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	sent := make([][]byte, len(t.sendBuffer))
	copy(sent, t.sendBuffer)
	return sent
}

// ClearSentData clears the internal send buffer.
func (t *Transport) ClearSentData() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendBuffer = t.sendBuffer[:0]
}
