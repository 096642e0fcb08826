package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNoSession = errors.New("no active session")

// NetworkError means the request never reached the service. Always
// recoverable by retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "unable to reach the task service, you appear to be offline"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError means the service answered with a non-success status.
type APIError struct {
	Status  int
	Message string
	Detail  any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API Error: %d", e.Status)
}

// IsAuth reports whether the error is the universal credential-rejected
// signal.
func (e *APIError) IsAuth() bool { return e.Status == http.StatusUnauthorized }

// ValidationError is raised client-side before any request is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsAPIError returns the APIError carried by err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
