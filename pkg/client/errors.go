package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network, timeout, and malformed-body errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassRemote represents an application-level error reported in the
	// response body. The request succeeded at the transport level.
	ErrorClassRemote ErrorClass = "remote"
)

// RemoteError is an application error reported by the Springboard API inside
// an otherwise well-formed response body. Retrying it is futile, so the
// client surfaces it immediately without consuming further attempts.
type RemoteError struct {
	Subdomain string
	Path      string
	Page      int
	Message   string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("springboard %s: %s page %d: %s",
		e.Subdomain, e.Path, e.Page, e.Message)
}

// TransportError is a transport-level failure: the request never produced a
// usable response body. For retryable classes it wraps the last failure
// observed after all attempts were exhausted.
type TransportError struct {
	Subdomain string
	Path      string
	Page      int
	Class     ErrorClass
	Attempts  int
	Err       error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("springboard %s: %s page %d: %s error after %d attempt(s): %v",
		e.Subdomain, e.Path, e.Page, e.Class, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// statusError carries an HTTP status that did not yield a usable page.
type statusError struct {
	StatusCode int
	Status     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// shouldRetry determines if an error class is worth another attempt.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassNetwork:
		return true
	case ErrorClassClient, ErrorClassRemote:
		// 4xx will keep failing, and a body-level error is semantic.
		return false
	default:
		return false
	}
}
