package protocol_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/momentics/wsrpc/protocol"
)

func TestRoundTripNotify(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"", nil},
		{"a", []byte("x")},
		{strings.Repeat("e", 255), []byte("hello world")},
	}
	for _, c := range cases {
		msg, err := protocol.EncodeNotify(c.name, c.payload)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		f, err := protocol.Decode(msg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if f.Opcode != protocol.OpNotify || f.Event != c.name || !bytes.Equal(f.Payload, c.payload) {
			t.Fatalf("round trip mismatch: got %+v", f)
		}
	}
}

func TestRoundTripRequestResponseReset(t *testing.T) {
	msg, err := protocol.EncodeRequest(42, "uppercase", []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := protocol.Decode(msg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Opcode != protocol.OpRequest || f.ID != 42 || f.Event != "uppercase" || string(f.Payload) != "hi" {
		t.Fatalf("unexpected decode: %+v", f)
	}

	rmsg := protocol.EncodeResponse(42, []byte("HI"))
	rf, err := protocol.Decode(rmsg)
	if err != nil {
		t.Fatal(err)
	}
	if rf.Opcode != protocol.OpResponse || rf.ID != 42 || string(rf.Payload) != "HI" {
		t.Fatalf("unexpected response decode: %+v", rf)
	}

	cmsg := protocol.EncodeReset(42)
	cf, err := protocol.Decode(cmsg)
	if err != nil {
		t.Fatal(err)
	}
	if cf.Opcode != protocol.OpReset || cf.ID != 42 {
		t.Fatalf("unexpected reset decode: %+v", cf)
	}
}

func TestEventNameTooLong(t *testing.T) {
	if _, err := protocol.EncodeNotify(strings.Repeat("a", 256), nil); err == nil {
		t.Fatal("expected EventNameTooLong error")
	}
	if _, err := protocol.EncodeRequest(1, strings.Repeat("a", 256), nil); err == nil {
		t.Fatal("expected EventNameTooLong error")
	}
}

func TestDecodeUnknownFrame(t *testing.T) {
	if _, err := protocol.Decode([]byte{9}); err == nil {
		t.Fatal("expected UnknownFrame error")
	}
}

func TestDecodeTruncated(t *testing.T) {
	cases := [][]byte{
		{},
		{byte(protocol.OpResponse), 0, 0, 0},
		{byte(protocol.OpReset), 0, 0},
		{byte(protocol.OpNotify), 5, 'h', 'i'},
	}
	for _, c := range cases {
		if _, err := protocol.Decode(c); err == nil {
			t.Fatalf("expected Truncated error for %v", c)
		}
	}
}

func TestDecodeBadEventName(t *testing.T) {
	msg := []byte{byte(protocol.OpNotify), 2, 0xFF, 0xFE}
	if _, err := protocol.Decode(msg); err == nil {
		t.Fatal("expected BadEventName error")
	}
}

func TestFieldOrderIsIDBeforeEventForRequest(t *testing.T) {
	msg, err := protocol.EncodeRequest(1, "m", nil)
	if err != nil {
		t.Fatal(err)
	}
	// opcode(1) id(4) event_len(1) == byte 5 is the length prefix
	if msg[5] != 1 {
		t.Fatalf("expected event_len byte at offset 5, wire layout changed: %v", msg)
	}
}
