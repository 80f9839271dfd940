// Package rpcerr
// Author: momentics <momentics@gmail.com>
//
// RPC-specific error values, built on api.Error/api.ErrorCode the same
// way the rest of the codebase structures its errors: a code plus a
// context map, rather than a flat sentinel per condition.

package rpcerr

import "github.com/momentics/wsrpc/api"

// Error codes specific to the framed RPC engine, continuing the
// api.ErrorCode enumeration.
const (
	CodeEventNameTooLong api.ErrorCode = 100 + iota
	CodeNotConnected
	CodeConnectionClosed
	CodeAborted
	CodeAlreadySubscribed
	CodeBadEventName
	CodeUnknownFrame
	CodeTruncated
)

// EventNameTooLong is raised synchronously at the call site when an
// event name exceeds 255 UTF-8 bytes.
func EventNameTooLong(name string) *api.Error {
	return api.NewError(CodeEventNameTooLong, "event name too long").
		WithContext("event", name)
}

// NotConnected is raised when an operation requires an Open connection
// that has not yet been established.
func NotConnected() *api.Error {
	return api.NewError(CodeNotConnected, "not connected")
}

// ConnectionClosed resolves every pending caller and event stream when
// the underlying transport closes.
func ConnectionClosed(cause error) *api.Error {
	e := api.NewError(CodeConnectionClosed, "connection closed")
	if cause != nil {
		e = e.WithContext("cause", cause.Error())
	}
	return e
}

// Aborted carries the user-supplied cancellation reason verbatim.
func Aborted(reason string) *api.Error {
	return api.NewError(CodeAborted, "aborted").WithContext("reason", reason)
}

// AlreadySubscribed is returned by Subscribe when a live consumer
// already exists for the event name.
func AlreadySubscribed(name string) *api.Error {
	return api.NewError(CodeAlreadySubscribed, "already subscribed").
		WithContext("event", name)
}

// BadEventName is a decode error: the event-name bytes are not valid UTF-8.
func BadEventName() *api.Error {
	return api.NewError(CodeBadEventName, "bad event name")
}

// UnknownFrame is a decode error: the opcode byte is outside 1..=4.
func UnknownFrame(opcode byte) *api.Error {
	return api.NewError(CodeUnknownFrame, "unknown frame opcode").
		WithContext("opcode", opcode)
}

// Truncated is a decode error: the message is shorter than its
// opcode's minimum length.
func Truncated() *api.Error {
	return api.NewError(CodeTruncated, "truncated frame")
}

// Is reports whether err is an *api.Error carrying the given code.
func Is(err error, code api.ErrorCode) bool {
	e, ok := err.(*api.Error)
	return ok && e.Code == code
}
