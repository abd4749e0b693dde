package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Submission and infrastructure errors
var (
	ErrExtractionFailed = errors.New("extraction failed")
	ErrOutsideGeofence  = errors.New("coordinates outside every geofence")
	ErrDuplicate        = errors.New("duplicate record")
	ErrNoPoints         = errors.New("no attributed points")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTransport        = errors.New("transport error")
	ErrStorage          = errors.New("storage error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
