package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInternal         = errors.New("internal error")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found or expired", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// PasswordRequired signals a protected snippet was read without credentials.
// Distinct from InvalidPassword so clients know to prompt rather than retry.
func PasswordRequired() *AppError {
	return &AppError{
		Err:     ErrPasswordRequired,
		Message: "Password required",
	}
}

// InvalidPassword signals a protected snippet was read with wrong credentials.
func InvalidPassword() *AppError {
	return &AppError{
		Err:     ErrInvalidPassword,
		Message: "Invalid password",
	}
}

// Internal wraps a persistence or I/O failure. The wrapped cause stays in the
// chain for logs; Message is all that ever reaches a client.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrInternal, cause),
		Message: message,
	}
}
