package adminapi

import (
	"errors"
	"fmt"
)

// NetworkError means no usable response arrived: the request could not be sent,
// the connection failed, or the context ended first.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectionError means the server answered but refused the request: a non-2xx
// status, a success:false body, or a body that could not be understood.
type RejectionError struct {
	Op         string
	StatusCode int
	Message    string // server-supplied message, may be empty
	Err        error
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// HTTPFailure reports whether the server answered with a non-2xx status.
func (e *RejectionError) HTTPFailure() bool {
	return e.StatusCode < 200 || e.StatusCode > 299
}

// UserMessage returns the text an operator should see for err: the server's own
// message when it sent one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var rej *RejectionError
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	return fallback
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
