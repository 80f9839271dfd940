// File: internal/session/event_registry.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Event stream registry: one bounded queue per event name per
// connection. The Inbound Dispatcher enqueues Notify payloads here;
// consumers drain them via Stream.Next, observing FIFO order and
// end-of-stream on Unsubscribe/connection close.

package session

import "sync"

// DefaultEventQueueCapacity is used when a Config does not override it.
const DefaultEventQueueCapacity = 16

// Stream is the consumer-facing handle returned by Subscribe.
type Stream struct {
	queue  chan []byte
	closed chan struct{}
	once   sync.Once
}

func newStream(capacity int) *Stream {
	return &Stream{
		queue:  make(chan []byte, capacity),
		closed: make(chan struct{}),
	}
}

// Next blocks until a payload is available or the stream ends,
// reporting ok=false on end-of-stream (Unsubscribe or connection close).
func (s *Stream) Next() (payload []byte, ok bool) {
	select {
	case p, open := <-s.queue:
		if !open {
			return nil, false
		}
		return p, true
	case <-s.closed:
		// Drain anything already queued before signaling end-of-stream.
		select {
		case p, open := <-s.queue:
			if open {
				return p, true
			}
		default:
		}
		return nil, false
	}
}

func (s *Stream) close() {
	s.once.Do(func() { close(s.closed) })
}

// enqueue blocks until there is room in the queue or the stream is
// closed, applying the back-pressure the dispatcher relies on.
func (s *Stream) enqueue(payload []byte) {
	select {
	case s.queue <- payload:
	case <-s.closed:
	}
}

// EventStreamRegistry maps event name -> at most one live Stream.
type EventStreamRegistry struct {
	mu       sync.Mutex
	streams  map[string]*Stream
	capacity int
}

// NewEventStreamRegistry constructs a registry whose queues have the
// given capacity (DefaultEventQueueCapacity if capacity <= 0).
func NewEventStreamRegistry(capacity int) *EventStreamRegistry {
	if capacity <= 0 {
		capacity = DefaultEventQueueCapacity
	}
	return &EventStreamRegistry{
		streams:  make(map[string]*Stream),
		capacity: capacity,
	}
}

// Subscribe registers name's queue, returning its Stream. strict
// controls the duplicate-subscribe behavior: when strict is true a
// second live subscription returns ok=false (AlreadySubscribed is the
// caller's to raise); when false the prior stream is silently closed
// and replaced.
func (r *EventStreamRegistry) Subscribe(name string, strict bool) (*Stream, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.streams[name]; ok {
		if strict {
			return nil, false
		}
		existing.close()
	}
	s := newStream(r.capacity)
	r.streams[name] = s
	return s, true
}

// Unsubscribe drops name's queue, if any, unblocking any in-flight
// Enqueue and Next calls. Returns whether a stream was present.
func (r *EventStreamRegistry) Unsubscribe(name string) bool {
	r.mu.Lock()
	s, ok := r.streams[name]
	if ok {
		delete(r.streams, name)
	}
	r.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

// Enqueue delivers payload to name's consumer, if one exists. Drops
// silently when there is no live subscriber. Blocks when the queue is
// full, propagating back-pressure to the dispatcher.
func (r *EventStreamRegistry) Enqueue(name string, payload []byte) {
	r.mu.Lock()
	s, ok := r.streams[name]
	r.mu.Unlock()
	if !ok {
		return
	}
	s.enqueue(payload)
}

// CloseAll closes every registered stream, used on connection close so
// consumers observe end-of-stream.
func (r *EventStreamRegistry) CloseAll() {
	r.mu.Lock()
	streams := r.streams
	r.streams = make(map[string]*Stream)
	r.mu.Unlock()
	for _, s := range streams {
		s.close()
	}
}

// Names returns a snapshot of actively subscribed event names, for
// status()/Stats().
func (r *EventStreamRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.streams))
	for n := range r.streams {
		names = append(names, n)
	}
	return names
}
