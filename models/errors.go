// File: /models/errors.go
package models

import "errors"

// Engine error taxonomy. Controllers map these onto HTTP status codes;
// everything else wraps one of them with fmt.Errorf("...: %w", err).
var (
	// ErrValidation marks malformed or empty required input. User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced event, user or connection that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an idempotency short-circuit. Callers treat it as
	// success with no-op semantics, not as a failure.
	ErrConflict = errors.New("already exists")

	// ErrPersistence marks an underlying store failure. Never retried
	// automatically.
	ErrPersistence = errors.New("persistence failure")
)
