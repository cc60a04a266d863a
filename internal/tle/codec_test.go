package tle

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"
)

func TestAlpha5RoundTrip(t *testing.T) {
	for i := 0; i <= MaxSatNo; i++ {
		s, err := EncodeAlpha5(i)
		if err != nil {
			t.Fatalf("EncodeAlpha5(%d): %v", i, err)
		}
		if len(s) != 5 {
			t.Fatalf("EncodeAlpha5(%d) = %q, want 5 columns", i, s)
		}
		got, err := DecodeAlpha5(s)
		if err != nil {
			t.Fatalf("DecodeAlpha5(%q): %v", s, err)
		}
		if got != i {
			t.Fatalf("DecodeAlpha5(EncodeAlpha5(%d)) = %d", i, got)
		}
	}
}

func TestAlpha5Known(t *testing.T) {
	tests := []struct {
		n int
		s string
	}{
		{0, "00000"},
		{25544, "25544"},
		{99999, "99999"},
		{100000, "A0000"},
		{148493, "E8493"},
		{182345, "J2345"},
		{339999, "Z9999"},
	}
	for _, tt := range tests {
		s, err := EncodeAlpha5(tt.n)
		if err != nil || s != tt.s {
			t.Errorf("EncodeAlpha5(%d) = %q, %v; want %q", tt.n, s, err, tt.s)
		}
		n, err := DecodeAlpha5(tt.s)
		if err != nil || n != tt.n {
			t.Errorf("DecodeAlpha5(%q) = %d, %v; want %d", tt.s, n, err, tt.n)
		}
	}

	if n, err := DecodeAlpha5("a0001"); err != nil || n != 100001 {
		t.Errorf("DecodeAlpha5(lowercase) = %d, %v", n, err)
	}
}

func TestAlpha5Errors(t *testing.T) {
	for _, n := range []int{-1, 340000, 1 << 30} {
		if _, err := EncodeAlpha5(n); !errors.Is(err, ErrRange) {
			t.Errorf("EncodeAlpha5(%d) err = %v, want ErrRange", n, err)
		}
	}
	for _, s := range []string{"", "I1234", "O1234", "A12x4", "12 45"} {
		if _, err := DecodeAlpha5(s); err == nil {
			t.Errorf("DecodeAlpha5(%q) succeeded, want error", s)
		}
	}
}

func TestEncodeExponential(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "+00000-0"},
		{0.12345e-3, "+12345-3"},
		{-0.11606e-4, "-11606-4"},
		{0.46171, "+46171+0"},
		{0.033, "+33000-1"},
		{1.5, "+15000+1"},
	}
	for _, tt := range tests {
		got, err := EncodeExponential(tt.in)
		if err != nil {
			t.Errorf("EncodeExponential(%v): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EncodeExponential(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExponentialRoundTrip(t *testing.T) {
	values := []float64{
		-1.5e-5, 3.14159e-7, 0.5, -0.99999, 1.23e8, -9.9e8, 1e-10, 2.5e-10, 0.000123456789,
	}
	for _, v := range values {
		s, err := EncodeExponential(v)
		if err != nil {
			t.Fatalf("EncodeExponential(%v): %v", v, err)
		}
		if len(s) != 8 {
			t.Errorf("EncodeExponential(%v) = %q, want 8 columns", v, s)
		}
		got, err := DecodeExponential(s)
		if err != nil {
			t.Fatalf("DecodeExponential(%q): %v", s, err)
		}
		if math.Abs(got-v) > 5e-5*math.Abs(v) {
			t.Errorf("round trip %v -> %q -> %v exceeds mantissa precision", v, s, got)
		}
	}

	got, err := DecodeExponential("+00000-0")
	if err != nil || got != 0 {
		t.Errorf("DecodeExponential(zero) = %v, %v", got, err)
	}
}

func TestExponentialRange(t *testing.T) {
	for _, v := range []float64{1e9, -5e12, 1e-11, math.Inf(1), math.NaN()} {
		if _, err := EncodeExponential(v); !errors.Is(err, ErrRange) {
			t.Errorf("EncodeExponential(%v) err = %v, want ErrRange", v, err)
		}
	}
}

func TestDecodeExponential(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{" 00000-0", 0},
		{"-11606-4", -0.11606e-4},
		{" 21418-3", 0.21418e-3},
		{"+46171+0", 0.46171},
		{"+33000-1", 0.033},
	}
	for _, tt := range tests {
		got, err := DecodeExponential(tt.in)
		if err != nil {
			t.Errorf("DecodeExponential(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("DecodeExponential(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "+1", "+12a45-3", "+12345-x", "+     -3"} {
		if _, err := DecodeExponential(bad); err == nil {
			t.Errorf("DecodeExponential(%q) succeeded, want error", bad)
		}
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		line string
		want byte
	}{
		{"", '0'},
		{"ABC +. xyz", '0'},
		{"99 5", '3'},  // 23
		{"9-9-5", '5'}, // 9+1+9+1+5
		{"12345", '5'}, // 15
		{"-----", '5'}, // five minus signs
		{testLine1[:68], '7'},
		{testLine2[:68], '7'},
	}
	for _, tt := range tests {
		if got := Checksum(tt.line); got != tt.want {
			t.Errorf("Checksum(%q) = %c, want %c", tt.line, got, tt.want)
		}
	}
}

func TestVerifyChecksum(t *testing.T) {
	if !VerifyChecksum(testLine1) || !VerifyChecksum(testLine2) {
		t.Error("reference lines should verify")
	}
	if !VerifyChecksum(ballisticLine1) {
		t.Error("ballistic line 1 should verify")
	}
	if VerifyChecksum(ballisticLine2) {
		t.Error("ballistic sample carries a stale checksum and should not verify")
	}
	if VerifyChecksum(testLine1[:60]) {
		t.Error("short line should not verify")
	}
}

func TestFullYear(t *testing.T) {
	tests := map[int]int{0: 2000, 8: 2008, 57: 2057, 58: 1958, 98: 1998, 99: 1999}
	for yy, want := range tests {
		if got := FullYear(yy); got != want {
			t.Errorf("FullYear(%d) = %d, want %d", yy, got, want)
		}
	}
}

func TestDecodeEpoch(t *testing.T) {
	got := DecodeEpoch(8, 264.51782528)
	want := time.Date(2008, time.September, 20, 12, 25, 40, 104192000, time.UTC)
	if d := got.Sub(want); d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("DecodeEpoch = %v, want %v", got, want)
	}

	if got := DecodeEpoch(0, 1); !got.Equal(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day 1 should be January 1 midnight, got %v", got)
	}
}

func TestEpochRoundTripTwoDigit(t *testing.T) {
	days := []float64{1, 1.5, 32.25, 100.12345678, 200.99999, 365.5}
	for yy := 0; yy < 100; yy++ {
		for _, day := range days {
			gotYY, dayStr, err := EncodeEpoch(DecodeEpoch(yy, day))
			if err != nil {
				t.Fatalf("EncodeEpoch(%d, %v): %v", yy, day, err)
			}
			if gotYY != yy {
				t.Fatalf("year %d round tripped to %d", yy, gotYY)
			}
			if len(dayStr) != 12 {
				t.Fatalf("day string %q is not 12 columns", dayStr)
			}
			gotDay, err := strconv.ParseFloat(dayStr, 64)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(gotDay-day) > 1e-6 {
				t.Errorf("yy=%d day %v round tripped to %v", yy, day, gotDay)
			}
		}
	}
}

func TestEpochRoundTripTimestamp(t *testing.T) {
	for year := minEpochYear; year <= maxEpochYear; year++ {
		in := time.Date(year, time.March, 15, 7, 8, 9, 123456789, time.UTC)
		s, err := FormatEpoch(in)
		if err != nil {
			t.Fatalf("FormatEpoch(%v): %v", in, err)
		}
		if len(s) != 14 {
			t.Fatalf("FormatEpoch(%v) = %q, want 14 columns", in, s)
		}
		out, err := ParseEpoch(s)
		if err != nil {
			t.Fatalf("ParseEpoch(%q): %v", s, err)
		}
		if d := out.Sub(in); d < -time.Second || d > time.Second {
			t.Errorf("%v round tripped to %v", in, out)
		}
	}
}

func TestEncodeEpochRange(t *testing.T) {
	for _, year := range []int{1900, minEpochYear - 1, maxEpochYear + 1} {
		_, _, err := EncodeEpoch(time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
		if !errors.Is(err, ErrRange) {
			t.Errorf("EncodeEpoch(%d) err = %v, want ErrRange", year, err)
		}
	}
}
