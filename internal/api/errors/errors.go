package errors

import (
	"errors"
	"net/http"

	apperrors "speech-relay/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindTooLarge         ErrorKind = "too_large"
	KindInternal         ErrorKind = "internal"
)

// Client-facing messages. Detail stays in the logs.
const (
	MessageNoAudio    = "No audio file uploaded"
	MessageTooLarge   = "Audio file too large"
	MessageProcessing = "Error processing audio"
	MessageInternal   = "Internal server error"
)

// APIError represents a structured API error response. The body is exactly
// {"error": message}; the request id travels in the X-Request-ID header.
type APIError struct {
	Kind      ErrorKind `json:"-"`
	Message   string    `json:"error"`
	RequestID string    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewTooLargeError creates a payload too large error
func NewTooLargeError(message string) *APIError {
	return &APIError{
		Kind:    KindTooLarge,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// FromPipeline maps a relay error to the response the client sees
func FromPipeline(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, apperrors.ErrNoAudio):
		return NewBadRequestError(MessageNoAudio)
	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return NewTooLargeError(MessageTooLarge)
	default:
		return NewInternalError(MessageProcessing)
	}
}
