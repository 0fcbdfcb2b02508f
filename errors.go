// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"errors"
	"fmt"
)

// ErrorKind is a server-side error code. The ordinals match
// pa_error_code_t exactly.
type ErrorKind uint32

const (
	ErrorOK ErrorKind = iota
	ErrorAccess
	ErrorCommand
	ErrorInvalid
	ErrorExist
	ErrorNoEntity
	ErrorConnectionRefused
	ErrorProtocol
	ErrorTimeout
	ErrorAuthKey
	ErrorInternal
	ErrorConnectionTerminated
	ErrorKilled
	ErrorInvalidServer
	ErrorModInitFailed
	ErrorBadState
	ErrorNoData
	ErrorVersion
	ErrorTooLarge
	ErrorNotSupported
	ErrorUnknown
	ErrorNoExtension
	ErrorObsolete
	ErrorNotImplemented
	ErrorForked
	ErrorIO
	ErrorBusy
)

var errorKindNames = []string{
	"ok", "access denied", "unknown command", "invalid argument",
	"entity exists", "no such entity", "connection refused",
	"protocol error", "timeout", "no authentication key",
	"internal error", "connection terminated", "entity killed",
	"invalid server", "module initialization failed", "bad state",
	"no data", "incompatible protocol version", "data too large",
	"operation not supported", "unknown error code",
	"no such extension", "obsolete functionality", "not implemented",
	"client forked", "input/output error", "device or resource busy",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("error code %d", uint32(k))
}

// ServerError is a failure the server reported for one request. The
// connection stays usable.
type ServerError struct {
	Kind ErrorKind
}

func (e *ServerError) Error() string {
	return "server error: " + e.Kind.String()
}

// ProtocolErrorKind classifies client-side protocol violations.
type ProtocolErrorKind uint8

const (
	// ProtoUnknownTag is an unknown type tag byte in a tag struct,
	// or a reply correlator the client never issued.
	ProtoUnknownTag ProtocolErrorKind = iota
	// ProtoUnknownCommand is a command the server may not send.
	ProtoUnknownCommand
	// ProtoDecode is a malformed tag-struct or command payload.
	ProtoDecode
	// ProtoPayloadTooLarge is a frame or value over the wire limits.
	ProtoPayloadTooLarge
)

// ProtocolError reports a violation of the wire protocol. On the read
// path it is fatal for the connection; on the submission path it only
// fails the offending request.
type ProtocolError struct {
	Kind    ProtocolErrorKind
	Byte    byte        // offending type tag, for ProtoUnknownTag
	Tag     uint32      // offending request tag, for ProtoUnknownTag
	Command CommandKind // offending command, for ProtoUnknownCommand
	msg     string
}

func (e *ProtocolError) Error() string {
	switch e.Kind {
	case ProtoUnknownTag:
		if e.Byte != 0 {
			return fmt.Sprintf("protocol error: unknown type tag %#x", e.Byte)
		}
		return fmt.Sprintf("protocol error: reply for unknown tag %d", e.Tag)
	case ProtoUnknownCommand:
		return fmt.Sprintf("protocol error: unexpected command %s", e.Command)
	case ProtoPayloadTooLarge:
		return "protocol error: payload too large"
	}
	return "protocol error: " + e.msg
}

// ConnectionClosedError is returned for every operation on a broker
// that has shut down, and completes every request that was in flight
// when it did. Cause is the fatal event that closed the connection.
type ConnectionClosedError struct {
	Cause error
}

func (e *ConnectionClosedError) Error() string {
	if e.Cause == nil {
		return "connection closed"
	}
	return "connection closed: " + e.Cause.Error()
}

func (e *ConnectionClosedError) Unwrap() error {
	return e.Cause
}

var (
	// ErrQueueFull reports that the outbound frame queue is at
	// capacity. The caller may retry or back off; the connection
	// stays usable.
	ErrQueueFull = errors.New("outbound queue full")

	// ErrTagSpaceExhausted reports that every request tag is taken
	// by an in-flight request.
	ErrTagSpaceExhausted = errors.New("tag space exhausted")

	// errBrokerClosed is the close cause of an orderly Close call.
	errBrokerClosed = errors.New("broker closed")
)
