// Package finerr holds the error kinds shared by the numeric cores.
package finerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a violated precondition. Callers surface it to the user.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNumericDegeneracy marks a degenerate computation that was recovered
	// with a documented fallback value. It is reported, never returned.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)

// Invalid wraps ErrInvalidInput with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Degenerate wraps ErrNumericDegeneracy with a formatted reason.
func Degenerate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumericDegeneracy, fmt.Sprintf(format, args...))
}
