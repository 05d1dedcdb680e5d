package workouts

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no workout has the requested id.
var ErrNotFound = errors.New("workout not found")

// ServerError means the remote endpoint answered with a non-2xx status.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// ParseError means a 2xx response body was not a valid JSON document of the
// expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// NetworkError wraps a transport-level failure unchanged.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsUpstream reports whether err came from the remote source taxonomy.
func IsUpstream(err error) bool {
	var se *ServerError
	var pe *ParseError
	var ne *NetworkError
	return errors.As(err, &se) || errors.As(err, &pe) || errors.As(err, &ne)
}
