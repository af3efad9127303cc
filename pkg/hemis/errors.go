package hemis

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnknownTool      = errors.New("hemis: unknown tool")
	ErrInvalidArguments = errors.New("hemis: invalid arguments")
	ErrAuthFailed       = errors.New("hemis: authentication failed")
	ErrUpstream         = errors.New("hemis: upstream returned a failure")
	ErrTransport        = errors.New("hemis: transport failure")
)

// Kind mirrors the sentinels as a label attached to normalized results
// and log events.
type Kind string

const (
	KindUnknownTool      Kind = "unknown_tool"
	KindInvalidArguments Kind = "invalid_arguments"
	KindAuthFailed       Kind = "authentication_failed"
	KindUpstream         Kind = "upstream_error"
	KindTransport        Kind = "transport_error"
)

// Error is a rich error type that wraps the sentinel errors with context.
type Error struct {
	Sentinel  error
	Operation string // tool name or "login"
	Status    int    // HTTP status when a response was received
	Message   string // upstream-provided message, if any
	Err       error  // nested lower-level error (e.g. net.Error)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}

// KindOf classifies err against the taxonomy. Unrecognized errors map to
// KindTransport: if the bridge cannot name the failure, the safest claim
// is that the call did not complete.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return KindUnknownTool
	case errors.Is(err, ErrInvalidArguments):
		return KindInvalidArguments
	case errors.Is(err, ErrAuthFailed):
		return KindAuthFailed
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindTransport
	}
}
