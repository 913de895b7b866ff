package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrValidation is a generic sentinel for malformed or kind-mismatched input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict signals a serialization failure between concurrent writers.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
)
