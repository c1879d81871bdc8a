package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data errors
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrDimensionMismatch = errors.New("strain/stress dimension mismatch")
	ErrDegenerateCurve   = errors.New("curve span is degenerate")

	// Analysis errors
	ErrInvalidFit      = errors.New("regression window degenerate")
	ErrDegenerateRange = errors.New("integration range degenerate")
	ErrEmptyGroup      = errors.New("statistics group is empty")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid analysis configuration")

	// Persistence errors
	ErrBatchNotFound = errors.New("batch not found")
)

// Error constructors with context
func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: %d points, need at least %d", ErrInsufficientData, have, need)
}

func NewDimensionMismatchError(strainLen, stressLen int) error {
	return fmt.Errorf("%w: strain(%d) vs stress(%d)", ErrDimensionMismatch, strainLen, stressLen)
}

func NewInvalidFitError(points int) error {
	return fmt.Errorf("%w: only %d points in fit window", ErrInvalidFit, points)
}

func NewDegenerateRangeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateRange, reason)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

// Error checking helpers
func IsDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrDegenerateCurve)
}

func IsAnalysisError(err error) bool {
	return errors.Is(err, ErrInvalidFit) ||
		errors.Is(err, ErrDegenerateRange) ||
		errors.Is(err, ErrEmptyGroup)
}
