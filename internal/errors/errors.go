package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeTransientIO   = "TRANSIENT_IO"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "TRANSIENT_IO")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewConfigurationError creates a new CONFIGURATION_ERROR. Configuration
// errors are programming or deployment bugs: fatal, never retried.
func NewConfigurationError(subject string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf("invalid configuration for %s: %s", subject, reason),
		Status:  500,
	}
}

// NewTransientIOError creates a new TRANSIENT_IO error for a failed
// storage, notification, or lookup call. The caller may retry.
func NewTransientIOError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransientIO,
		Message: fmt.Sprintf("%s failed", op),
		Status:  503,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		Status:  500,
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND application error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConfiguration reports whether err is a CONFIGURATION_ERROR.
func IsConfiguration(err error) bool {
	return hasCode(err, ErrCodeConfiguration)
}

// IsTransientIO reports whether err is a TRANSIENT_IO error.
func IsTransientIO(err error) bool {
	return hasCode(err, ErrCodeTransientIO)
}
