package tle

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSatNo is the largest catalog number expressible in five alpha5 columns.
const MaxSatNo = 339999

// alpha5Letters maps index i to the letter for leading value i+10.
// I and O are skipped so they cannot be mistaken for 1 and 0.
const alpha5Letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// DecodeAlpha5 converts a five-column catalog number field to an integer.
// Purely numeric fields parse as zero-padded integers; a leading letter
// contributes (10..33)*10000.
func DecodeAlpha5(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty catalog number: %w", ErrMalformedField)
	}

	c := s[0]
	if !isLetter(c) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return n, nil
	}

	idx := strings.IndexByte(alpha5Letters, upper(c))
	if idx < 0 {
		return 0, fmt.Errorf("letter %q is not part of the alpha5 alphabet: %w", c, ErrMalformedField)
	}

	rest, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, err
	}
	return (idx+10)*10000 + rest, nil
}

// EncodeAlpha5 renders a catalog number as five columns. Values below
// 100000 are zero padded; values up to MaxSatNo replace the two leading
// digits with a letter.
func EncodeAlpha5(n int) (string, error) {
	if n < 0 || n > MaxSatNo {
		return "", fmt.Errorf("catalog number %d: %w", n, ErrRange)
	}
	if n < 100000 {
		return fmt.Sprintf("%05d", n), nil
	}

	digits := strconv.Itoa(n)
	lead, _ := strconv.Atoi(digits[:2])
	return string(alpha5Letters[lead-10]) + digits[2:], nil
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
