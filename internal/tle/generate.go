package tle

import (
	"fmt"
)

// Line1 renders the first line, checksum included.
func (r *Record) Line1() (string, error) {
	return r.render('1', Schema(r.Variant, 1))
}

// Line2 renders the second line, checksum included.
func (r *Record) Line2() (string, error) {
	return r.render('2', Schema(r.Variant, 2))
}

// Lines renders both lines. Errors come from values that do not fit their
// encoding (catalog numbers above MaxSatNo, drag terms whose exponent needs
// two digits, epochs outside the two-digit year window).
func (r *Record) Lines() (string, string, error) {
	l1, err := r.Line1()
	if err != nil {
		return "", "", err
	}
	l2, err := r.Line2()
	if err != nil {
		return "", "", err
	}
	return l1, l2, nil
}

// String renders the record as two newline separated lines, or an error
// marker when it cannot be encoded.
func (r *Record) String() string {
	l1, l2, err := r.Lines()
	if err != nil {
		return fmt.Sprintf("<tle: %v>", err)
	}
	return l1 + "\n" + l2
}

func (r *Record) render(lineNo byte, fields []Field) (string, error) {
	buf := make([]byte, dataWidth)
	for i := range buf {
		buf[i] = ' '
	}
	buf[0] = lineNo

	for _, f := range fields {
		if f.render == nil {
			continue
		}
		s, err := f.render(r)
		if err != nil {
			return "", fmt.Errorf("line %c field %s: %w", lineNo, f.Name, err)
		}
		copy(buf[f.Start:f.End], fitWidth(s, f.Width()))
	}

	line := string(buf)
	return line + string(Checksum(line)), nil
}
