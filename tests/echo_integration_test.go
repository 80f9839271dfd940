// Copyright momentics@gmail.com
// Licensed under the Apache License, Version 2.0.
//
// End-to-end test of a notify/call round trip over a real loopback
// WebSocket connection (httptest server + gorilla dialer via
// transport/wstransport), exercising the full server+client+protocol
// stack rather than any single package in isolation.

package tests

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/momentics/wsrpc/api"
	"github.com/momentics/wsrpc/client"
	"github.com/momentics/wsrpc/server"
	"github.com/momentics/wsrpc/transport/wstransport"
)

func startEchoServer(t *testing.T) (*httptest.Server, *server.Server) {
	t.Helper()
	s := server.NewServer(nil)
	h := wstransport.Handler(wstransport.NewUpgrader(), func(tr api.Transport) {
		conn := s.Accept(tr)
		go func() {
			for p := range conn.Recv() {
				switch proc := p.(type) {
				case *server.Notify:
					if proc.Event == "ping" {
						_ = conn.Notifier().Notify("pong", proc.Payload)
					}
				case *server.Call:
					_ = proc.Respond(append([]byte("echo:"), proc.Payload...))
				}
			}
		}()
	})
	return httptest.NewServer(h), s
}

func dialClient(t *testing.T, httpURL string) *client.Client {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	tr, err := wstransport.Dial(ctx, wsURL)
	if err != nil {
		t.Fatal(err)
	}
	return client.New(tr)
}

func TestNotifyDeliveredOverRealSocket(t *testing.T) {
	srv, s := startEchoServer(t)
	defer srv.Close()
	defer s.Close()

	c := dialClient(t, srv.URL)
	defer c.Close()

	stream, err := c.On("pong", true)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Notify("ping", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	payload, ok := stream.Next()
	if !ok || string(payload) != "hello" {
		t.Fatalf("unexpected pong payload: %q %v", payload, ok)
	}
}

func TestCallRoundTripOverRealSocket(t *testing.T) {
	srv, s := startEchoServer(t)
	defer srv.Close()
	defer s.Close()

	c := dialClient(t, srv.URL)
	defer c.Close()

	result, err := c.Call("echo", []byte("abc"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(result) != "echo:abc" {
		t.Fatalf("unexpected result: %q", result)
	}
}

func TestEmptyPayloadCallRoundTrip(t *testing.T) {
	srv, s := startEchoServer(t)
	defer srv.Close()
	defer s.Close()

	c := dialClient(t, srv.URL)
	defer c.Close()

	result, err := c.Call("echo", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(result) != "echo:" {
		t.Fatalf("unexpected result: %q", result)
	}
}
