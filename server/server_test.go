// File: server/server_test.go
package server_test

import (
	"testing"
	"time"

	"github.com/momentics/wsrpc/fake"
	"github.com/momentics/wsrpc/protocol"
	"github.com/momentics/wsrpc/server"
)

func TestPrometheusGathererReportsLiveConnectionCount(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr := fake.NewTransport()
	s.Accept(tr)

	families, err := s.PrometheusGatherer().Gather()
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, fam := range families {
		if fam.GetName() != "wsrpc_debug_rpc_connections" {
			continue
		}
		found = true
		if len(fam.Metric) != 1 || fam.Metric[0].GetGauge().GetValue() != 1 {
			t.Fatalf("expected rpc.connections gauge of 1, got %+v", fam.Metric)
		}
	}
	if !found {
		t.Fatal("expected wsrpc_debug_rpc_connections metric to be exported")
	}
}

func TestAcceptDeliversNotify(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr := fake.NewTransport()
	conn := s.Accept(tr)

	msg, err := protocol.EncodeNotify("ping", []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	tr.AddRecvData(msg)

	select {
	case p := <-conn.Recv():
		n, ok := p.(*server.Notify)
		if !ok {
			t.Fatalf("expected *server.Notify, got %T", p)
		}
		if n.Event != "ping" || string(n.Payload) != "hi" {
			t.Fatalf("unexpected notify: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notify")
	}
}

func TestCallRespond(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr := fake.NewTransport()
	conn := s.Accept(tr)

	msg, err := protocol.EncodeRequest(1, "uppercase", []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	tr.AddRecvData(msg)

	var call *server.Call
	select {
	case p := <-conn.Recv():
		var ok bool
		call, ok = p.(*server.Call)
		if !ok {
			t.Fatalf("expected *server.Call, got %T", p)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for call")
	}

	if err := call.Respond([]byte("ABC")); err != nil {
		t.Fatal(err)
	}
	if err := call.Respond([]byte("again")); err == nil {
		t.Fatal("second Respond must fail")
	}

	sent := tr.GetSentData()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one outbound frame, got %d", len(sent))
	}
	frame, err := protocol.Decode(sent[0])
	if err != nil {
		t.Fatal(err)
	}
	if frame.Opcode != protocol.OpResponse || frame.ID != 1 || string(frame.Payload) != "ABC" {
		t.Fatalf("unexpected response frame: %+v", frame)
	}
}

func TestResetAbortsCall(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr := fake.NewTransport()
	conn := s.Accept(tr)

	reqMsg, _ := protocol.EncodeRequest(9, "slow", nil)
	tr.AddRecvData(reqMsg)

	var call *server.Call
	select {
	case p := <-conn.Recv():
		call = p.(*server.Call)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for call")
	}

	tr.AddRecvData(protocol.EncodeReset(9))

	select {
	case <-call.Done():
	case <-time.After(time.Second):
		t.Fatal("reset did not abort the call")
	}
	if !call.Aborted() {
		t.Fatal("Aborted() should report true")
	}
}

func TestBroadcastReachesAllConnections(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr1 := fake.NewTransport()
	tr2 := fake.NewTransport()
	s.Accept(tr1)
	s.Accept(tr2)

	s.Broadcast(func(n server.Notifier) {
		if err := n.Notify("room:msg", []byte("hello")); err != nil {
			t.Fatal(err)
		}
	})

	for _, tr := range []*fake.Transport{tr1, tr2} {
		sent := tr.GetSentData()
		if len(sent) != 1 {
			t.Fatalf("expected one broadcast frame, got %d", len(sent))
		}
		frame, err := protocol.Decode(sent[0])
		if err != nil {
			t.Fatal(err)
		}
		if frame.Opcode != protocol.OpNotify || frame.Event != "room:msg" {
			t.Fatalf("unexpected frame: %+v", frame)
		}
	}
}

func TestConnectionContextStoresApplicationMetadata(t *testing.T) {
	s := server.NewServer(nil)
	defer s.Close()

	tr := fake.NewTransport()
	conn := s.Accept(tr)

	if _, ok := conn.Context().Get("principal"); ok {
		t.Fatal("expected no principal before it is set")
	}
	conn.Context().Set("principal", "alice", false)
	v, ok := conn.Context().Get("principal")
	if !ok || v != "alice" {
		t.Fatalf("unexpected context value: %v %v", v, ok)
	}
}

func TestCloseDrainsPendingCalls(t *testing.T) {
	s := server.NewServer(nil)
	tr := fake.NewTransport()
	conn := s.Accept(tr)

	id := conn.NextCallID()
	done := make(chan error, 1)
	go func() {
		_, err := conn.Call("echo", []byte("x"), id)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond) // let the call register before closing
	s.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error once the connection closes with a pending call")
		}
	case <-time.After(time.Second):
		t.Fatal("pending call was never drained")
	}
}
