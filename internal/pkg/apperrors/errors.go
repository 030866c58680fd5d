package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Storage errors (connection loss, constraint violations and other
	// persistence failures that are not lifecycle violations)
	ErrStorage = errors.New("storage error")
)

// Student errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentIDExists    = errors.New("student ID number already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrQuotaExceeded      = errors.New("session quota exceeded")
)

// Session lifecycle errors
var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidState is returned when a lifecycle transition is attempted
	// against a session that is not in the required state (double approve,
	// check-out before check-in, acting on a terminal session and so on).
	ErrInvalidState = errors.New("invalid session state")
)

// Feedback errors
var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Announcement errors
var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewInvalidStateError creates a new custom error for a rejected lifecycle
// transition, carrying the descriptive reason for the caller
func NewInvalidStateError(message string) error {
	return &CustomError{
		Err:     ErrInvalidState,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for malformed input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewStorageError wraps a persistence-layer failure
func NewStorageError(err error, message string) error {
	return &CustomError{
		Err:     ErrStorage,
		Message: message,
		Cause:   err,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Cause   error
	Code    string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
