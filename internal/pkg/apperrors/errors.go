package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Lifecycle errors
var (
	// ErrPolicyViolation marks an edit or transition the current status forbids.
	// Raised before any persistence or network call is made.
	ErrPolicyViolation = errors.New("operation not allowed in current status")

	ErrOfferingNotFound = errors.New("offering not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSemesterNotFound = errors.New("semester not found")
)

// Media workflow errors
var (
	ErrPresignFailed = errors.New("failed to obtain upload slot")
	ErrUploadFailed  = errors.New("upload rejected by object store")
	ErrVideoMissing  = errors.New("session requires a committed video")
)

// Attendance errors
var (
	ErrAlreadyAttended = errors.New("attendance already confirmed for this session")
)

// CustomError wraps a sentinel with a human-readable message.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a failed field-level check.
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewValidationErrorf reports a failed field-level check with formatting.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &CustomError{Err: ErrValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// NewPolicyError reports a status-gate violation.
func NewPolicyError(message string) error {
	return &CustomError{Err: ErrPolicyViolation, Message: message}
}

// NewConflictError reports a conflicting state on the backend.
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewBadRequestError reports a malformed request.
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}
