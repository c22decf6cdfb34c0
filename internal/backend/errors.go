package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrStudioNotFound is returned when the backend does not know the studio slug.
	ErrStudioNotFound = errors.New("backend: studio not found")
	// ErrInvalidPayload is returned when a response body cannot be decoded or fails validation.
	ErrInvalidPayload = errors.New("backend: invalid payload")
	// ErrUnavailable is returned once retries are exhausted on network errors or 5xx responses.
	ErrUnavailable = errors.New("backend: unavailable")
	// ErrInvalidRequest is returned when ListSessions is called with a malformed slug or date.
	ErrInvalidRequest = errors.New("backend: invalid request")
)

// StatusError reports a non-retryable client error returned by the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend: unexpected status %d: %s", e.StatusCode, e.Body)
}

// PayloadError carries the offending item index alongside ErrInvalidPayload.
type PayloadError struct {
	Index int
	Err   error
}

func (e *PayloadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v", ErrInvalidPayload, e.Err)
	}
	return fmt.Sprintf("%v: session %d: %v", ErrInvalidPayload, e.Index, e.Err)
}

func (e *PayloadError) Unwrap() []error {
	return []error{ErrInvalidPayload, e.Err}
}
