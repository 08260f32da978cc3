package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrPreconditionNotMet = errors.New("precondition not met")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
)

// persistenceError tags a store adapter error so callers can treat it as
// retryable.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, op, err)
}
