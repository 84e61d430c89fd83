package models

import (
	"errors"
	"fmt"
)

// Common error types
var (
	ErrNotFound = errors.New("resource not found")
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidRequest creates a validation error (malformed campaign or message
// request; surfaced before any channel I/O)
func ErrInvalidRequest(message string) error {
	return &AppError{
		Code:    "INVALID_REQUEST",
		Message: message,
	}
}

// ErrProviderFailure creates an error for a downstream sender rejection
func ErrProviderFailure(message string, err error) error {
	return &AppError{
		Code:    "PROVIDER_ERROR",
		Message: message,
		Err:     err,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     ErrNotFound,
	}
}
