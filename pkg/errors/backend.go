package errors

import (
	"errors"
	"fmt"
)

// FailureKind separates failures with an interpretable body from bare transport failures.
type FailureKind string

const (
	// FailureTransport covers network errors and responses without a failure envelope.
	FailureTransport FailureKind = "transport"
	// FailureDomain covers responses carrying {error_code, error_message}.
	FailureDomain FailureKind = "domain"
)

// BackendFailure is the uniform error returned by the user store client.
// ErrorCode is forwarded verbatim; callers decide what a code means.
type BackendFailure struct {
	Op           string
	Status       int
	Body         []byte
	ErrorCode    int
	ErrorMessage string
	Err          error
}

// Error implements the error interface.
func (f *BackendFailure) Error() string {
	if f == nil {
		return "<nil>"
	}
	msg := f.Op
	if f.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, f.Status)
	}
	if f.ErrorCode != 0 {
		msg = fmt.Sprintf("%s: error_code %d: %s", msg, f.ErrorCode, f.ErrorMessage)
	}
	if f.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

// Unwrap returns the underlying transport or decode error.
func (f *BackendFailure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Kind classifies the failure.
func (f *BackendFailure) Kind() FailureKind {
	if f != nil && f.ErrorCode != 0 {
		return FailureDomain
	}
	return FailureTransport
}

// AsBackendFailure extracts a *BackendFailure from an error chain.
func AsBackendFailure(err error) (*BackendFailure, bool) {
	var f *BackendFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
