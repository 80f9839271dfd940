package adapters_test

import (
	"testing"
	"time"

	"github.com/momentics/wsrpc/adapters"
	"github.com/momentics/wsrpc/api"
)

func TestExecutorAdapterRunsTasksAndReportsAffinities(t *testing.T) {
	exec := adapters.NewExecutorAdapter(2, 0)

	done := make(chan struct{})
	if err := exec.Submit(func() { close(done) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submitted task never ran")
	}

	aff, ok := exec.(interface{ Affinities() []api.Affinity })
	if !ok {
		t.Fatal("expected ExecutorAdapter to expose Affinities()")
	}

	deadline := time.Now().Add(time.Second)
	var handles []api.Affinity
	for time.Now().Before(deadline) {
		handles = aff.Affinities()
		if len(handles) == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 worker affinity handles, got %d", len(handles))
	}
	for i, h := range handles {
		desc := h.ImmutableDescriptor()
		if desc.Scope != api.ScopeThread {
			t.Fatalf("worker %d: expected ScopeThread, got %v", i, desc.Scope)
		}
	}
}
