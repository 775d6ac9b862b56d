// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// HTTPStatusMapping maps internal error codes to HTTP status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:    http.StatusBadRequest,
	ErrCodeAuthenticationError: http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeResourceNotFound:    http.StatusNotFound,
	ErrCodeDuplicateResource:   http.StatusBadRequest,

	ErrCodeDatabaseQueryFailed: http.StatusInternalServerError,
	ErrCodeSearchQueryFailed:   http.StatusInternalServerError,
	ErrCodeSessionStoreFailed:  http.StatusInternalServerError,
	ErrCodeExternalService:     http.StatusInternalServerError,
	ErrCodeAITimeout:           http.StatusInternalServerError,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes errors as JSON responses with standardized status codes.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteError normalizes err and writes the matching HTTP response.
// Server-side failures get a generic message; the details stay in the logs.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"code":    string(stdErr.Code),
		"status":  status,
		"path":    r.URL.Path,
		"details": stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
	} else {
		h.logger.Warn("request rejected", fields)
	}

	message := stdErr.Message
	if status >= http.StatusInternalServerError {
		message = "Server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		OK:      false,
		Message: message,
		Code:    string(stdErr.Code),
	})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
