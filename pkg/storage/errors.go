package storage

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrNotFound indicates the requested object was not found
	ErrNotFound = errors.New("storage: object not found")

	// ErrAccessDenied indicates access was denied
	ErrAccessDenied = errors.New("storage: access denied")

	// ErrNotStoreLocation indicates a location that must point into the
	// object store resolved to a local path instead
	ErrNotStoreLocation = errors.New("storage: not an object store location")

	// ErrNoContext indicates a batch operation was invoked without a
	// working context
	ErrNoContext = errors.New("storage: no working context configured")

	// ErrNilFunc indicates a nil user function was supplied
	ErrNilFunc = errors.New("storage: nil user function")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("storage: invalid configuration")
)

// Error represents a storage error with additional context
type Error struct {
	Op   string // Operation that failed
	Path string // Bucket/key or path involved in the operation
	Err  error  // Underlying error
}

// Error returns the string representation of the error
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage: %s failed for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new storage error
func NewError(op string, path string, err error) error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied checks if an error is an access denied error
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
