package signup

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable matches (via errors.Is) any error raised because the
// signups store could not be read.
var ErrStoreUnavailable = errors.New("signup store unavailable")

// StoreError represents an error from a storage backend.
type StoreError struct {
	Backend   string // Storage backend ("mysql", "postgres", "sqlite", "memory")
	Operation string // Operation that failed ("fetch", "delete", "ping", ...)
	Cause     error  // Underlying error

	unavailable bool
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error is an ErrStoreUnavailable condition.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable && e.unavailable
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// NewUnavailableError creates a StoreError that matches ErrStoreUnavailable.
func NewUnavailableError(backend, operation string, cause error) *StoreError {
	e := NewStoreError(backend, operation, cause)
	e.unavailable = true
	return e
}

// TimestampError reports a registration time that could not be parsed.
type TimestampError struct {
	UserLogin string // Login of the offending record
	Value     string // Raw stored value
	Cause     error  // Underlying parse error
}

// Error implements the error interface.
func (e *TimestampError) Error() string {
	return fmt.Sprintf("malformed registered timestamp [user_login=%s, value=%q]: %v", e.UserLogin, e.Value, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *TimestampError) Unwrap() error {
	return e.Cause
}

// NewTimestampError creates a new TimestampError.
func NewTimestampError(userLogin, value string, cause error) *TimestampError {
	return &TimestampError{
		UserLogin: userLogin,
		Value:     value,
		Cause:     cause,
	}
}

// DeleteError reports a single signup that could not be deleted.
type DeleteError struct {
	UserLogin string // Login of the record that failed
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete failed [user_login=%s]: %v", e.UserLogin, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DeleteError) Unwrap() error {
	return e.Cause
}

// NewDeleteError creates a new DeleteError.
func NewDeleteError(userLogin string, cause error) *DeleteError {
	return &DeleteError{
		UserLogin: userLogin,
		Cause:     cause,
	}
}
