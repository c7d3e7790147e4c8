package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeEmptyTopic        = "EMPTY_TOPIC"
	ErrCodeNetworkFailure    = "NETWORK_FAILURE"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
)

// Sentinels for errors.Is checks; matching is by Code only.
var (
	ErrNotFound          = &AppError{Code: ErrCodeNotFound}
	ErrValidation        = &AppError{Code: ErrCodeValidation}
	ErrInternal          = &AppError{Code: ErrCodeInternal}
	ErrConflict          = &AppError{Code: ErrCodeConflict}
	ErrEmptyTopic        = &AppError{Code: ErrCodeEmptyTopic}
	ErrNetworkFailure    = &AppError{Code: ErrCodeNetworkFailure}
	ErrMalformedResponse = &AppError{Code: ErrCodeMalformedResponse}
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "NETWORK_FAILURE")
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

// Is matches any *AppError with the same Code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// As extracts the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewConflictError reports an action that is not allowed in the current state.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// NewEmptyTopicError is returned when the user tries to continue without a topic.
func NewEmptyTopicError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyTopic,
		Message: "please enter a topic first",
		Status:  http.StatusBadRequest,
	}
}

// NewNetworkError covers unreachable endpoints and non-2xx responses.
func NewNetworkError(endpoint string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeNetworkFailure,
		Message: fmt.Sprintf("could not reach %s", endpoint),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewMalformedResponseError covers bodies that are not the expected JSON shape.
func NewMalformedResponseError(endpoint string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedResponse,
		Message: fmt.Sprintf("unexpected response from %s", endpoint),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}
