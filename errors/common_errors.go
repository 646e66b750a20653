package errors

import "errors"

var (
	ErrInternalServer    = errors.New("internal server error")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")

	// ErrConcurrentModification is returned when a resource-level lock
	// could not be acquired within its TTL window.
	ErrConcurrentModification = errors.New("resource is being modified concurrently")
)
