package client

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a network or backend failure for one remote
// operation: the backend was unreachable or answered non-2xx. The feed
// recovers locally wherever an optimistic value exists; nothing in the
// core treats a TransportError as fatal.
type TransportError struct {
	// Op names the remote operation, e.g. "submit_like".
	Op string

	// StatusCode is the HTTP status, or 0 when the backend was
	// unreachable.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport returns true if the error is a transport failure.
// Uses errors.As to handle wrapped errors.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAuthFailure returns true if the error is a transport failure caused
// by a rejected or missing credential.
func IsAuthFailure(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == http.StatusUnauthorized || te.StatusCode == http.StatusForbidden
}
