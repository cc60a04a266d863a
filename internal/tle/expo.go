package tle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// zeroExponential is the canonical rendering of 0 in the drag columns.
const zeroExponential = "+00000-0"

// EncodeExponential renders f in the eight-column TLE notation: a signed
// five-digit mantissa with an implied leading decimal point followed by a
// signed one-digit exponent, so 0.12345e-3 becomes "+12345-3".
//
// Only five mantissa digits survive, so DecodeExponential(EncodeExponential(x))
// matches x to that precision and no further.
func EncodeExponential(f float64) (string, error) {
	if f == 0 {
		return zeroExponential, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("exponential %v: %w", f, ErrRange)
	}

	// "%+.4e" yields e.g. "+1.1914e-04".
	mant, exp, _ := strings.Cut(fmt.Sprintf("%+.4e", f), "e")
	e, err := strconv.Atoi(exp)
	if err != nil {
		return "", err
	}
	e++
	if e < -9 || e > 9 {
		return "", fmt.Errorf("exponential %v needs exponent %d: %w", f, e, ErrRange)
	}

	mant = strings.Replace(mant, ".", "", 1)
	return fmt.Sprintf("%s%+d", mant, e), nil
}

// DecodeExponential parses the headless-decimal notation. A leading '-'
// makes the value negative; '+' or a blank sign column means positive.
func DecodeExponential(s string) (float64, error) {
	if len(s) < 3 {
		return 0, fmt.Errorf("exponential %q too short: %w", s, ErrMalformedField)
	}

	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1
	case '+', ' ':
	default:
		// Some feeds omit the sign column entirely.
		s = " " + s
	}

	mant := strings.TrimSpace(s[1 : len(s)-2])
	if mant == "" {
		return 0, fmt.Errorf("exponential %q has no mantissa: %w", s, ErrMalformedField)
	}
	for i := 0; i < len(mant); i++ {
		if mant[i] < '0' || mant[i] > '9' {
			return 0, fmt.Errorf("exponential %q mantissa: %w", s, ErrMalformedField)
		}
	}

	exp, err := strconv.Atoi(strings.TrimSpace(s[len(s)-2:]))
	if err != nil {
		return 0, err
	}

	m, err := strconv.ParseFloat("0."+mant, 64)
	if err != nil {
		return 0, err
	}
	return sign * m * math.Pow10(exp), nil
}
