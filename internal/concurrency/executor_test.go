// File: internal/concurrency/executor_test.go
package concurrency_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/momentics/wsrpc/internal/concurrency"
)

func TestPinnedExecutorCallsPinAndUnpinPerWorker(t *testing.T) {
	var mu sync.Mutex
	pinned := make(map[int]bool)
	unpinned := make(map[int]bool)

	pin := func(idx int) error {
		mu.Lock()
		pinned[idx] = true
		mu.Unlock()
		return nil
	}
	unpin := func(idx int) error {
		mu.Lock()
		unpinned[idx] = true
		mu.Unlock()
		return nil
	}

	e := concurrency.NewPinnedExecutor(3, 0, pin, unpin)
	done := make(chan struct{})
	if err := e.Submit(func() { close(done) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	e.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(unpinned)
		mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(pinned) != 3 {
		t.Fatalf("expected 3 workers pinned, got %d", len(pinned))
	}
	if len(unpinned) != 3 {
		t.Fatalf("expected 3 workers unpinned after close, got %d", len(unpinned))
	}
}

func TestPinErrorDoesNotPreventWorkerFromRunning(t *testing.T) {
	pin := func(int) error { return errors.New("affinity: not supported on this platform") }
	e := concurrency.NewPinnedExecutor(1, 0, pin, nil)
	defer e.Close()

	done := make(chan struct{})
	if err := e.Submit(func() { close(done) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker never ran a task despite a failed pin")
	}
}
