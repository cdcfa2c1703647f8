package api

import "errors"

// ErrNotArray is returned when a POST /tasks body is not a JSON array.
var ErrNotArray = errors.New("body must be a JSON array of tasks")

// DecodeError wraps a JSON decoding failure of a posted collection.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "invalid task collection: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
