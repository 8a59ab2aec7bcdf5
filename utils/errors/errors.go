package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
)

// Messages returned when a lookup by id matches nothing.
const (
	ThoughtNotFoundMessage = "No thought found with this id!"
	UserNotFoundMessage    = "No user found with this id!"
)

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}

// NotFound builds a 404 carrying one of the fixed not-found messages.
// The body is {"code","message","status"}; clients should read message,
// which holds the fixed text exactly.
func NotFound(message string) *APIError {
	return NewAPIError(ErrNotFound.Code, message, http.StatusNotFound)
}

// BadRequest reports a rejected single-record operation with the raw failure as details.
func BadRequest(err error) *APIError {
	return Wrap(err, "BAD_REQUEST", "The operation was rejected", http.StatusBadRequest)
}

// Internal reports a failed list operation.
func Internal(err error) *APIError {
	return Wrap(err, ErrInternal.Code, ErrInternal.Message, http.StatusInternalServerError)
}
