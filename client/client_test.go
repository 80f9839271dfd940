// File: client/client_test.go
package client_test

import (
	"testing"
	"time"

	"github.com/momentics/wsrpc/client"
	"github.com/momentics/wsrpc/fake"
	"github.com/momentics/wsrpc/protocol"
)

func TestCallRoundTrip(t *testing.T) {
	tr := fake.NewTransport()
	c := client.New(tr)
	defer c.Close()

	time.Sleep(10 * time.Millisecond) // let the dispatcher mark Active

	done := make(chan struct{})
	var payload []byte
	var callErr error
	go func() {
		payload, callErr = c.Call("echo", []byte("hi"), nil)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	var sent [][]byte
	for time.Now().Before(deadline) {
		sent = tr.GetSentData()
		if len(sent) > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if len(sent) == 0 {
		t.Fatal("client never sent a request frame")
	}
	frame, err := protocol.Decode(sent[0])
	if err != nil {
		t.Fatal(err)
	}
	if frame.Opcode != protocol.OpRequest || frame.Event != "echo" {
		t.Fatalf("unexpected frame: %+v", frame)
	}

	tr.AddRecvData(protocol.EncodeResponse(frame.ID, []byte("HI")))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("call never completed")
	}
	if callErr != nil || string(payload) != "HI" {
		t.Fatalf("unexpected result: %q %v", payload, callErr)
	}
}

func TestCallCancelSendsReset(t *testing.T) {
	tr := fake.NewTransport()
	c := client.New(tr)
	defer c.Close()
	time.Sleep(10 * time.Millisecond)

	signal := client.NewCancelSignal()
	done := make(chan error, 1)
	go func() {
		_, err := c.Call("slow", nil, signal)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	signal.Cancel("user gave up")

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an aborted error")
		}
	case <-time.After(time.Second):
		t.Fatal("cancel never unblocked the call")
	}

	var sawReset bool
	for _, msg := range tr.GetSentData() {
		frame, err := protocol.Decode(msg)
		if err != nil {
			continue
		}
		if frame.Opcode == protocol.OpReset {
			sawReset = true
		}
	}
	if !sawReset {
		t.Fatal("expected a Reset frame to be sent")
	}
}

func TestOnDeliversNotify(t *testing.T) {
	tr := fake.NewTransport()
	c := client.New(tr)
	defer c.Close()
	time.Sleep(10 * time.Millisecond)

	stream, err := c.On("tick", true)
	if err != nil {
		t.Fatal(err)
	}

	msg, err := protocol.EncodeNotify("tick", []byte("1"))
	if err != nil {
		t.Fatal(err)
	}
	tr.AddRecvData(msg)

	payload, ok := stream.Next()
	if !ok || string(payload) != "1" {
		t.Fatalf("unexpected stream read: %q %v", payload, ok)
	}
}

func TestCloseDrainsPendingCall(t *testing.T) {
	tr := fake.NewTransport()
	c := client.New(tr)
	time.Sleep(10 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := c.Call("echo", nil, nil)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected the pending call to be drained with an error")
		}
	case <-time.After(time.Second):
		t.Fatal("pending call was never drained")
	}
}
