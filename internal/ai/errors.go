package ai

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when the upstream answered successfully but offered no reply text
var ErrNoContent = errors.New("no content generated")

// RequestError indicates that the upstream could not be reached or the exchange was interrupted
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusError indicates that the upstream answered with a non-success HTTP status
type StatusError struct {
	StatusCode int
	Status     string // e.g. "500 Internal Server Error"
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %s: %s", e.Status, e.Body)
}

// ParseError indicates that a success response body could not be decoded
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
