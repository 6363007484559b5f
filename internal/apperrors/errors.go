// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// AsServiceError extracts a *ServiceError from an error chain, wrapping plain
// errors as internal errors so callers always get a status code.
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewAuthRequiredError creates the error returned when a guest attempts a
// gated action. It is resolved locally, before any upstream call is issued,
// and surfaces as a single advisory notice.
func NewAuthRequiredError(action string) *ServiceError {
	return &ServiceError{
		Type:       "AUTH_REQUIRED",
		Message:    "Please sign in to " + action,
		Code:       "SIGN_IN_REQUIRED",
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewMutationFailedError creates the error returned when the upstream API
// rejects a write. Local state is left untouched; there is nothing to roll
// back because no update is applied before the upstream confirms.
func NewMutationFailedError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "MUTATION_FAILED",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewUpstreamError creates an error for a failed upstream read.
func NewUpstreamError(message string, statusCode int, cause error) *ServiceError {
	if statusCode < 400 {
		statusCode = http.StatusBadGateway
	}
	return &ServiceError{
		Type:       "UPSTREAM_ERROR",
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "CONFLICT",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Type:       "RATE_LIMIT",
		Message:    message,
		Details:    details,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *ServiceError {
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// ===============================
// CLASSIFIERS
// ===============================

// IsAuthRequired reports whether err is the guest-gate error.
func IsAuthRequired(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Type == "AUTH_REQUIRED"
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Type == "NOT_FOUND"
}
