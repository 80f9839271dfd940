// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Wire codec for the four RPC frame types carried one-per-WebSocket-
// binary-message. Pure functions over byte slices: no I/O, no
// allocation beyond the returned Frame/buffer.

package protocol

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/momentics/wsrpc/rpcerr"
)

// Opcode identifies which of the four frame variants a message holds.
type Opcode byte

const (
	OpNotify   Opcode = 1
	OpRequest  Opcode = 2
	OpReset    Opcode = 3
	OpResponse Opcode = 4
)

// MaxEventNameLen is the largest UTF-8 byte length an event name may
// have; the length prefix is a single byte.
const MaxEventNameLen = 255

// Frame is the decoded form of one WebSocket binary message. Only the
// fields relevant to Opcode are meaningful; callers switch on Opcode
// before reading Event/ID/Payload.
type Frame struct {
	Opcode  Opcode
	ID      uint32
	Event   string
	Payload []byte
}

// EncodeNotify produces `opcode | event_len(1) | event | payload`.
func EncodeNotify(event string, payload []byte) ([]byte, error) {
	if len(event) > MaxEventNameLen {
		return nil, rpcerr.EventNameTooLong(event)
	}
	buf := make([]byte, 1+1+len(event)+len(payload))
	buf[0] = byte(OpNotify)
	buf[1] = byte(len(event))
	n := copy(buf[2:], event)
	copy(buf[2+n:], payload)
	return buf, nil
}

// EncodeRequest produces `opcode | id(4) | event_len(1) | event | payload`.
func EncodeRequest(id uint32, event string, payload []byte) ([]byte, error) {
	if len(event) > MaxEventNameLen {
		return nil, rpcerr.EventNameTooLong(event)
	}
	buf := make([]byte, 1+4+1+len(event)+len(payload))
	buf[0] = byte(OpRequest)
	binary.BigEndian.PutUint32(buf[1:5], id)
	buf[5] = byte(len(event))
	n := copy(buf[6:], event)
	copy(buf[6+n:], payload)
	return buf, nil
}

// EncodeReset produces `opcode | id(4)`.
func EncodeReset(id uint32) []byte {
	buf := make([]byte, 1+4)
	buf[0] = byte(OpReset)
	binary.BigEndian.PutUint32(buf[1:5], id)
	return buf
}

// EncodeResponse produces `opcode | id(4) | payload`.
func EncodeResponse(id uint32, payload []byte) []byte {
	buf := make([]byte, 1+4+len(payload))
	buf[0] = byte(OpResponse)
	binary.BigEndian.PutUint32(buf[1:5], id)
	copy(buf[5:], payload)
	return buf
}

// Decode parses one WebSocket binary message into a Frame. Rejects
// unknown opcodes as UnknownFrame and undersized messages as
// Truncated; rejects malformed UTF-8 event names as BadEventName.
func Decode(msg []byte) (Frame, error) {
	if len(msg) < 1 {
		return Frame{}, rpcerr.Truncated()
	}
	op := Opcode(msg[0])
	switch op {
	case OpNotify:
		return decodeNamed(op, msg[1:], false)
	case OpRequest:
		return decodeNamed(op, msg[1:], true)
	case OpReset:
		if len(msg) < 1+4 {
			return Frame{}, rpcerr.Truncated()
		}
		id := binary.BigEndian.Uint32(msg[1:5])
		return Frame{Opcode: OpReset, ID: id}, nil
	case OpResponse:
		if len(msg) < 1+4 {
			return Frame{}, rpcerr.Truncated()
		}
		id := binary.BigEndian.Uint32(msg[1:5])
		payload := msg[5:]
		return Frame{Opcode: OpResponse, ID: id, Payload: payload}, nil
	default:
		return Frame{}, rpcerr.UnknownFrame(msg[0])
	}
}

// decodeNamed decodes the shared Notify/Request tail. rest is the
// message with the opcode byte already stripped; withID additionally
// expects a leading 4-byte id before the event-name length byte, per
// the Request wire order (id precedes event_len).
func decodeNamed(op Opcode, rest []byte, withID bool) (Frame, error) {
	var id uint32
	if withID {
		if len(rest) < 4 {
			return Frame{}, rpcerr.Truncated()
		}
		id = binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
	}
	if len(rest) < 1 {
		return Frame{}, rpcerr.Truncated()
	}
	nameLen := int(rest[0])
	rest = rest[1:]
	if len(rest) < nameLen {
		return Frame{}, rpcerr.Truncated()
	}
	nameBytes := rest[:nameLen]
	if !utf8.Valid(nameBytes) {
		return Frame{}, rpcerr.BadEventName()
	}
	payload := rest[nameLen:]
	return Frame{Opcode: op, ID: id, Event: string(nameBytes), Payload: payload}, nil
}
