package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when no post exists with the requested ID
	ErrNotFound = errors.New("post not found")

	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	// Callers may retry; the service never retries on its own.
	ErrStoreUnavailable = errors.New("post store unavailable")

	// ErrInvariantViolation is returned when a mutation produced a post whose
	// counters disagree with its membership sets. Stores refuse to commit it.
	ErrInvariantViolation = errors.New("post invariant violated")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// NotFoundError carries the ID of the post that was looked up.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post not found: %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(id string) error {
	return &NotFoundError{ID: id}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStoreUnavailable checks if the backing store could not be reached
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
