// File: transport/wstransport/wstransport_test.go
package wstransport_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/transport/wstransport"
)

func TestDialUpgradeRoundTrip(t *testing.T) {
	acceptedCh := make(chan api.Transport, 1)
	srv := httptest.NewServer(wstransport.Handler(nil, func(t api.Transport) {
		acceptedCh <- t
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := wstransport.Dial(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	var serverSide api.Transport
	select {
	case serverSide = <-acceptedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
	}
	defer serverSide.Close()

	if err := client.Send([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	msg, err := serverSide.Recv()
	if err != nil || string(msg) != "hello" {
		t.Fatalf("unexpected recv: %q %v", msg, err)
	}

	if ws, ok := client.(*wstransport.Transport); ok {
		if ws.NegotiatedSubprotocol() != wstransport.Subprotocol {
			t.Fatalf("expected negotiated subprotocol %q, got %q", wstransport.Subprotocol, ws.NegotiatedSubprotocol())
		}
	}
}
