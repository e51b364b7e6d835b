package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrInvalidDate = errors.New("invalid date")
)

// Error constructors with context
func NewInvalidDateError(value string, cause error) error {
	return fmt.Errorf("%w: %q: %v", ErrInvalidDate, value, cause)
}

// Error checking helpers
func IsInvalidDateError(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}
