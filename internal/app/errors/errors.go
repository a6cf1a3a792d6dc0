package errors

import (
	"fmt"
)

// Pipeline errors
var (
	// Input errors
	ErrNoAudio        = New("no audio file uploaded")
	ErrUploadTooLarge = New("audio file too large")

	// Stage errors
	ErrStagingFailed     = New("staging failed")
	ErrBlobUploadFailed  = New("blob upload failed")
	ErrRecognitionFailed = New("recognition failed")

	// Configuration errors
	ErrMissingCredentials = New("credentials are required")
	ErrInvalidConfig      = New("invalid configuration")
	ErrUnknownBackend     = New("unknown backend")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a sentinel to a cause so callers can match the stage with errors.Is
// while the log line keeps the underlying detail.
func Wrap(err error, sentinel *Error) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: sentinel.message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Wrapf(ErrInvalidConfig, "%s is required", field)
}

// UnknownBackend returns an error naming the unsupported backend
func UnknownBackend(kind, name string) error {
	return Wrapf(ErrUnknownBackend, "%s backend %q", kind, name)
}
