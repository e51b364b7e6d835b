package errors

import (
	"fmt"
)

// AppError represents a structured infrastructure error. Domain validation
// failures use the sentinel errors in domain/sales instead; AppError covers
// the file and format surface underneath them.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeFileNotFound  = "FILE_NOT_FOUND"
	CodeFileRead      = "FILE_READ_ERROR"
	CodeBadEncoding   = "BAD_ENCODING"
	CodeBadFormat     = "BAD_FORMAT"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors
func FileNotFound(path string) *AppError {
	return New(CodeFileNotFound, fmt.Sprintf("file not found: %s", path))
}

func FileRead(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeFileRead,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
	}
}

func BadEncoding(name string) *AppError {
	return New(CodeBadEncoding, fmt.Sprintf("unsupported encoding: %s", name))
}

func BadFormat(message string) *AppError {
	return New(CodeBadFormat, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
