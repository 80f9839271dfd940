package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/wsrpc/internal/session"
)

func TestPendingCallTableExactlyOnce(t *testing.T) {
	tbl := session.NewPendingCallTable()
	c := tbl.Insert(1)
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 pending entry, got %d", tbl.Len())
	}
	if !tbl.Complete(1, []byte("ok")) {
		t.Fatal("Complete should find the entry")
	}
	if tbl.Complete(1, []byte("late")) {
		t.Fatal("second Complete for the same id must be a no-op")
	}
	payload, err := c.Wait()
	if err != nil || string(payload) != "ok" {
		t.Fatalf("unexpected result: %q %v", payload, err)
	}
}

func TestPendingCallTableDrain(t *testing.T) {
	tbl := session.NewPendingCallTable()
	c1 := tbl.Insert(1)
	c2 := tbl.Insert(2)
	cause := errors.New("closed")
	tbl.Drain(cause)
	if tbl.Len() != 0 {
		t.Fatal("Drain must empty the table")
	}
	if _, err := c1.Wait(); err != cause {
		t.Fatalf("expected drain cause, got %v", err)
	}
	if _, err := c2.Wait(); err != cause {
		t.Fatalf("expected drain cause, got %v", err)
	}
}

func TestEventStreamRegistrySubscribeStrict(t *testing.T) {
	r := session.NewEventStreamRegistry(4)
	_, ok := r.Subscribe("pong", true)
	if !ok {
		t.Fatal("first subscribe must succeed")
	}
	if _, ok := r.Subscribe("pong", true); ok {
		t.Fatal("second strict subscribe to a live stream must fail")
	}
}

func TestEventStreamRegistrySubscribeOverwrite(t *testing.T) {
	r := session.NewEventStreamRegistry(4)
	first, _ := r.Subscribe("pong", false)
	second, ok := r.Subscribe("pong", false)
	if !ok {
		t.Fatal("non-strict subscribe must always succeed")
	}
	if _, ok := first.Next(); ok {
		t.Fatal("replaced stream should observe end-of-stream")
	}
	r.Enqueue("pong", []byte("hi"))
	payload, ok := second.Next()
	if !ok || string(payload) != "hi" {
		t.Fatalf("new stream should receive the payload, got %q %v", payload, ok)
	}
}

func TestEventStreamRegistryDropsWithoutSubscriber(t *testing.T) {
	r := session.NewEventStreamRegistry(4)
	r.Enqueue("unheard", []byte("x")) // must not block or panic
}

func TestEventStreamRegistryCloseAll(t *testing.T) {
	r := session.NewEventStreamRegistry(4)
	s, _ := r.Subscribe("pong", true)
	r.CloseAll()
	if _, ok := s.Next(); ok {
		t.Fatal("closed stream must observe end-of-stream")
	}
}

func TestCancellationRegistryResetAfterCompleteIsNoop(t *testing.T) {
	r := session.NewCancellationRegistry()
	trigger := r.Register(1)
	r.Complete(1)
	if r.Reset(1) {
		t.Fatal("Reset after Complete must report no handle found")
	}
	if trigger.Aborted() {
		t.Fatal("trigger must not fire once the task already completed")
	}
}

func TestCancellationRegistryResetFiresTrigger(t *testing.T) {
	r := session.NewCancellationRegistry()
	trigger := r.Register(7)
	if !r.Reset(7) {
		t.Fatal("Reset must find the registered handle")
	}
	select {
	case <-trigger.Done():
	case <-time.After(time.Second):
		t.Fatal("trigger did not fire")
	}
	if r.Len() != 0 {
		t.Fatal("Reset must remove the handle")
	}
}

func TestCancellationRegistryUnknownIDIsNoop(t *testing.T) {
	r := session.NewCancellationRegistry()
	if r.Reset(42) {
		t.Fatal("Reset for an unregistered id must report false")
	}
}
