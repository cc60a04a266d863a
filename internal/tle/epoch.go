package tle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Two-digit epoch years at or below the pivot belong to the 2000s.
const (
	epochPivot   = 57
	minEpochYear = 1900 + epochPivot + 1
	maxEpochYear = 2000 + epochPivot
)

const nanosPerDay = 86400 * float64(time.Second)

// FullYear resolves a two-digit epoch year to four digits.
func FullYear(yy int) int {
	if yy <= epochPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

// DecodeEpoch converts a two-digit year and a 1-based fractional day of
// year into a UTC timestamp.
func DecodeEpoch(yy int, day float64) time.Time {
	start := time.Date(FullYear(yy), time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := time.Duration(math.Round((day - 1) * nanosPerDay))
	return start.Add(offset)
}

// EncodeEpoch is the inverse of DecodeEpoch. The day string is always
// twelve characters ("DDD.DDDDDDDD"), giving sub-millisecond resolution.
func EncodeEpoch(t time.Time) (int, string, error) {
	t = t.UTC()
	year := t.Year()
	if year < minEpochYear || year > maxEpochYear {
		return 0, "", fmt.Errorf("epoch year %d outside %d-%d: %w", year, minEpochYear, maxEpochYear, ErrRange)
	}

	midnight := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	frac := float64(t.Sub(midnight)) / nanosPerDay
	day := float64(t.YearDay()) + frac
	return year % 100, fmt.Sprintf("%012.8f", day), nil
}

// ParseEpoch decodes the fourteen-column YYDDD.DDDDDDDD epoch field.
func ParseEpoch(s string) (time.Time, error) {
	if len(s) < 3 {
		return time.Time{}, fmt.Errorf("epoch %q too short: %w", s, ErrMalformedField)
	}
	yy, err := strconv.Atoi(strings.TrimSpace(s[:2]))
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
	if err != nil {
		return time.Time{}, err
	}
	return DecodeEpoch(yy, day), nil
}

// FormatEpoch renders t as the fourteen-column epoch field.
func FormatEpoch(t time.Time) (string, error) {
	yy, day, err := EncodeEpoch(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d%s", yy, day), nil
}
