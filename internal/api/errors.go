package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL indicates a request URL could not be constructed. With
	// validated configuration this should be unreachable.
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrInvalidRequest indicates a caller precondition was violated
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoMatch indicates a search returned zero results. This is a normal
	// outcome, never an error banner.
	ErrNoMatch = errors.New("no match found")
)

// StatusError reports a non-2xx HTTP status from the upstream API.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// DecodeError reports a JSON shape mismatch, carrying the path of the field
// that failed so callers can log it.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
