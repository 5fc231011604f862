package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrEmailTaken           = errors.New("email already registered")
	ErrPendingRequestExists = errors.New("pending service change request exists")
	ErrRequestResolved      = errors.New("service change request already resolved")
	ErrOutOfRegion          = errors.New("provider outside admin region")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

// Business-rule violations are 400s on this API, duplicates included.
func EmailAlreadyRegistered() *APIError {
	return NewAPIError("email_taken", "a user with this email already exists", http.StatusBadRequest)
}

func InvalidCredentials() *APIError {
	return NewAPIError("invalid_credentials", "invalid email or password", http.StatusBadRequest)
}

func PendingRequestExists() *APIError {
	return NewAPIError("pending_request_exists", "you already have a pending service change request", http.StatusBadRequest)
}

func RequestAlreadyResolved(status string) *APIError {
	return NewAPIError("request_resolved", fmt.Sprintf("request has already been %s", status), http.StatusBadRequest)
}

func InvalidProviderStatus(status string) *APIError {
	return NewAPIError("invalid_status", fmt.Sprintf("%q is not a valid provider status", status), http.StatusBadRequest)
}

func InvalidDecision(decision string) *APIError {
	return NewAPIError("invalid_decision", fmt.Sprintf("%q is not a valid decision", decision), http.StatusBadRequest)
}

func OutOfRegion() *APIError {
	return NewAPIError("out_of_region", "provider is outside your assigned region", http.StatusForbidden)
}
