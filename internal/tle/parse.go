package tle

import (
	"errors"
	"fmt"
	"strings"
)

// PadPolicy controls how lines shorter than LineWidth are treated before
// their columns are sliced.
type PadPolicy int

const (
	// PadZeros right-pads short lines with '0' up to LineWidth. Truncated
	// feeds then parse with zero-valued trailing columns instead of failing.
	PadZeros PadPolicy = iota
	// PadNone parses lines as given; a truncated line records a malformed
	// field at its first missing column.
	PadNone
)

func (p PadPolicy) String() string {
	if p == PadNone {
		return "none"
	}
	return "zeros"
}

// ParsePadPolicy maps a configuration string to a PadPolicy.
func ParsePadPolicy(s string) (PadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zeros":
		return PadZeros, nil
	case "none":
		return PadNone, nil
	}
	return PadZeros, fmt.Errorf("unknown pad policy %q (want zeros or none)", s)
}

type options struct {
	pad    PadPolicy
	strict bool
}

// Option configures parsing.
type Option func(*options)

// WithPadPolicy selects how short lines are normalised.
func WithPadPolicy(p PadPolicy) Option {
	return func(o *options) { o.pad = p }
}

// Strict makes field conversion failures surface as returned errors in
// addition to being recorded on the record.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) normalize(line string) string {
	if o.pad == PadZeros && len(line) < LineWidth {
		return line + strings.Repeat("0", LineWidth-len(line))
	}
	return line
}

// Parse decodes a two-line element set. The variant is taken from the
// ephemeris type column of line 1.
//
// Columns that fail their conversion do not produce an error by default:
// the failure is recorded (see Record.Err), the rest of that line is
// skipped, and the partially filled record is returned. Catalog number
// disagreement between the lines and a wrong leading line digit are always
// returned as errors. Checksums are not verified.
func Parse(line1, line2 string, opts ...Option) (*Record, error) {
	r := NewRecord(Drag)
	if err := r.ParseLine1(line1, opts...); err != nil {
		return r, err
	}
	if err := r.ParseLine2(line2, opts...); err != nil {
		return r, err
	}
	r.populated = r.err == nil
	return r, nil
}

// ParseLine1 fills the line-1 fields of r, switching r to the variant the
// line declares.
func (r *Record) ParseLine1(line string, opts ...Option) error {
	o := buildOptions(opts)
	line = o.normalize(line)
	if !strings.HasPrefix(line, "1") {
		return fmt.Errorf("line 1 starts with %q: %w", prefix(line), ErrLineNumber)
	}

	v := Drag
	if len(line) > 62 {
		v = variantOf(line[62])
	}
	r.Variant = v
	return r.parseFields(1, line, Schema(v, 1), o.strict)
}

// ParseLine2 fills the orbital element fields of r. The catalog number must
// match the one set by ParseLine1.
func (r *Record) ParseLine2(line string, opts ...Option) error {
	o := buildOptions(opts)
	line = o.normalize(line)
	if !strings.HasPrefix(line, "2") {
		return fmt.Errorf("line 2 starts with %q: %w", prefix(line), ErrLineNumber)
	}
	return r.parseFields(2, line, Schema(r.Variant, 2), o.strict)
}

var errShortLine = errors.New("line ends before column")

func (r *Record) parseFields(lineNo int, line string, fields []Field, strict bool) error {
	for _, f := range fields {
		if f.set == nil {
			continue
		}

		if f.End > len(line) {
			return r.fail(&FieldError{Line: lineNo, Field: f.Name, Value: line[min(f.Start, len(line)):], Err: errShortLine}, strict)
		}

		raw := line[f.Start:f.End]
		v, err := decode(f.Type, raw)
		if err != nil {
			return r.fail(&FieldError{Line: lineNo, Field: f.Name, Value: raw, Err: err}, strict)
		}

		if err := f.set(r, v); err != nil {
			if errors.Is(err, ErrSatNoMismatch) {
				return err
			}
			return r.fail(&FieldError{Line: lineNo, Field: f.Name, Value: raw, Err: err}, strict)
		}
	}
	return nil
}

// fail records the first field error on r and stops the current line.
func (r *Record) fail(fe *FieldError, strict bool) error {
	if r.err == nil {
		r.err = fe
	}
	if strict {
		return fe
	}
	return nil
}

func (r *Record) applyDefaults() {
	for _, line := range []int{1, 2} {
		for _, f := range Schema(r.Variant, line) {
			if f.set == nil {
				continue
			}
			v, err := decode(f.Type, f.Default)
			if err != nil {
				// Schema defaults are constants covered by tests.
				panic(fmt.Sprintf("tle: default for %s: %v", f.Name, err))
			}
			if err := f.set(r, v); err != nil {
				panic(fmt.Sprintf("tle: default for %s: %v", f.Name, err))
			}
		}
	}
}

func prefix(line string) string {
	if line == "" {
		return ""
	}
	return line[:1]
}
