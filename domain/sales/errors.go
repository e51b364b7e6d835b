package sales

import (
	"errors"
	"fmt"

	"salescope/domain/core"
)

// Domain errors - centralized error definitions
var (
	// Reconciliation errors. IncompleteMapping is a blocking, re-promptable
	// state: the caller finishes the mapping and tries again. The others are
	// terminal for the current attempt; no partial result is returned.
	ErrIncompleteMapping     = errors.New("incomplete column mapping")
	ErrColumnCollision       = errors.New("column mapping collision")
	ErrInvalidNumericData    = errors.New("invalid numeric data")
	ErrUnparseableDateColumn = errors.New("unparseable date column")

	// Comparison errors
	ErrInvalidRange = errors.New("invalid date range")
)

// Error constructors with context
func NewIncompleteMappingError(column string) error {
	return fmt.Errorf("%w: required column %q has no assignment", ErrIncompleteMapping, column)
}

func NewColumnCollisionError(rawColumn, first, second string) error {
	return fmt.Errorf("%w: raw column %q assigned to both %q and %q", ErrColumnCollision, rawColumn, first, second)
}

func NewInvalidNumericDataError(column string, rowIndex int, value string) error {
	return fmt.Errorf("%w: column %q row %d: cannot parse %q", ErrInvalidNumericData, column, rowIndex, value)
}

func NewUnparseableDateColumnError(column string) error {
	return fmt.Errorf("%w: no value in column %q parses as a date", ErrUnparseableDateColumn, column)
}

func NewInvalidRangeError(start, end core.Date) error {
	return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
}

// Error checking helpers
func IsIncompleteMapping(err error) bool {
	return errors.Is(err, ErrIncompleteMapping)
}

func IsColumnCollision(err error) bool {
	return errors.Is(err, ErrColumnCollision)
}

func IsInvalidNumericData(err error) bool {
	return errors.Is(err, ErrInvalidNumericData)
}

func IsUnparseableDateColumn(err error) bool {
	return errors.Is(err, ErrUnparseableDateColumn)
}

func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsReconcileError reports whether err is any reconciliation failure
func IsReconcileError(err error) bool {
	return errors.Is(err, ErrIncompleteMapping) ||
		errors.Is(err, ErrColumnCollision) ||
		errors.Is(err, ErrInvalidNumericData) ||
		errors.Is(err, ErrUnparseableDateColumn)
}
