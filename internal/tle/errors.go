package tle

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField is the root of every column conversion failure.
	ErrMalformedField = errors.New("malformed field")

	// ErrSatNoMismatch means line 2 carries a different catalog number
	// than line 1.
	ErrSatNoMismatch = errors.New("satellite number mismatch between lines")

	// ErrLineNumber means a line does not start with its expected digit.
	ErrLineNumber = errors.New("unexpected line number")

	// ErrRange is returned when a value cannot be represented in its
	// fixed-width encoding (alpha5 above 339999, exponents beyond one
	// digit, epochs outside the two-digit year window).
	ErrRange = errors.New("value outside encodable range")

	// ErrSemiMajorAxis rejects non-positive semi-major axes.
	ErrSemiMajorAxis = errors.New("semi-major axis must be positive")
)

// FieldError describes a column range that failed its type conversion.
type FieldError struct {
	Line  int    // 1 or 2
	Field string // schema field name
	Value string // raw column text
	Err   error  // underlying conversion error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d field %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

// Unwrap exposes both the conversion cause and ErrMalformedField so callers
// can match either with errors.Is.
func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedField, e.Err}
}
