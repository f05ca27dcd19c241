package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a truly absent object and one the subject
	// lacks the required capability on. The two are indistinguishable to
	// callers so listings and lookups never disclose existence.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a malformed input field.
	ErrValidation = errors.New("validation error")

	// ErrAuth marks a missing or invalid bearer token. Distinct from
	// ErrNotFound because it blocks before any object lookup.
	ErrAuth = errors.New("authentication error")
)

// AppError wraps a sentinel error with a human-readable message.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func AuthFailed(message string) *AppError {
	return &AppError{
		Err:     ErrAuth,
		Message: message,
	}
}
