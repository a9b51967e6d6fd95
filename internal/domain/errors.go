package domain

import (
	"errors"
	"fmt"
)

// ErrConnectionLost signals that the change-source transport dropped
// mid-stream. It escalates to the supervisor, which reconnects.
var ErrConnectionLost = errors.New("change source connection lost")

// ErrUnknownTenant is returned when a tenant identifier is not part of
// the configured tenant set.
var ErrUnknownTenant = errors.New("unknown tenant")

// ConnectError wraps a failure to establish the change-source
// connection. Fatal to the current attempt; the supervisor retries.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to change source: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// DecodeError describes a malformed or incomplete notification
// payload. It is logged and the event dropped; it never escalates
// past the dispatch loop.
type DecodeError struct {
	Reason     string
	RawPayload string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding notification: %s", e.Reason)
}
