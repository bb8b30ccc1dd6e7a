package voice

import (
	"errors"
	"fmt"
)

// ErrCode is a behavioral error kind, not a type name, per the taxonomy in
// this package's design notes.
type ErrCode string

const (
	ErrCodeInvalidTransition ErrCode = "invalid_transition"
	ErrCodeMalformedPCM      ErrCode = "malformed_pcm"
	ErrCodeTransportSend     ErrCode = "transport_send"
	ErrCodeSessionNotFound   ErrCode = "session_not_found"
	ErrCodeTransportFatal    ErrCode = "transport_fatal"
	ErrCodeInvalidConfig     ErrCode = "invalid_config"
	ErrCodeResponderFailed   ErrCode = "responder_failed"
)

// Error is the structured error type returned by this package and its
// providers. Code carries the behavioral kind; Err, when set, wraps the
// underlying cause.
type Error struct {
	Op      string
	Code    ErrCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error without a wrapped cause.
func NewError(op string, code ErrCode, message string) *Error {
	return &Error{Op: op, Code: code, Message: message}
}

// WrapError builds an Error around an existing cause.
func WrapError(op string, code ErrCode, message string, err error) *Error {
	return &Error{Op: op, Code: code, Message: message, Err: err}
}

// IsError reports whether err is an *Error of the given code.
func IsError(err error, code ErrCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ErrSessionNotFound is returned by the registry when a session id is
// unknown, surfaced as a 404-equivalent at the observability boundary.
var ErrSessionNotFound = NewError("Registry.Get", ErrCodeSessionNotFound, "session not found")
