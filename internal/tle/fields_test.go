package tle

import (
	"sort"
	"testing"
)

func TestSchemaLayout(t *testing.T) {
	for _, v := range []Variant{Drag, BallisticArea} {
		for _, line := range []int{1, 2} {
			fields := Schema(v, line)
			names := map[string]bool{}
			var rendered []Field
			for _, f := range fields {
				if names[f.Name] {
					t.Errorf("%v line %d: duplicate field %s", v, line, f.Name)
				}
				names[f.Name] = true

				if f.Start < 1 || f.End > dataWidth || f.Width() <= 0 {
					t.Errorf("%v line %d: %s spans [%d,%d)", v, line, f.Name, f.Start, f.End)
				}
				if !f.Parsed() && !f.Rendered() {
					t.Errorf("%v line %d: %s is neither parsed nor rendered", v, line, f.Name)
				}
				if f.Rendered() {
					rendered = append(rendered, f)
				}
			}

			if !sort.SliceIsSorted(rendered, func(i, j int) bool { return rendered[i].Start < rendered[j].Start }) {
				t.Errorf("%v line %d: rendered fields are not in column order", v, line)
			}
			for i := 1; i < len(rendered); i++ {
				if rendered[i].Start < rendered[i-1].End {
					t.Errorf("%v line %d: %s overlaps %s", v, line, rendered[i].Name, rendered[i-1].Name)
				}
			}
		}
	}
}

func TestSchemaDefaultsDecode(t *testing.T) {
	for _, v := range []Variant{Drag, BallisticArea} {
		for _, line := range []int{1, 2} {
			for _, f := range Schema(v, line) {
				if !f.Parsed() {
					continue
				}
				if _, err := decode(f.Type, f.Default); err != nil {
					t.Errorf("%v line %d: default %q of %s: %v", v, line, f.Default, f.Name, err)
				}
			}
		}
	}
}

func TestDecodeFieldTypes(t *testing.T) {
	tests := []struct {
		typ     FieldType
		raw     string
		want    value
		wantErr bool
	}{
		{typ: FieldInt, raw: "  292", want: value{i: 292}},
		{typ: FieldInt, raw: "    ", want: value{}},
		{typ: FieldInt, raw: " 2x", wantErr: true},
		{typ: FieldFloat, raw: " 51.6416", want: value{f: 51.6416}},
		{typ: FieldFloat, raw: "        ", wantErr: true},
		{typ: FieldFloat, raw: "-.00002182", want: value{f: -0.00002182}},
		{typ: FieldString, raw: " 98067A  ", want: value{s: "98067A"}},
		{typ: FieldEccentricity, raw: "0006703", want: value{f: 0.0006703}},
		{typ: FieldEccentricity, raw: "00-6703", wantErr: true},
		{typ: FieldAlpha5, raw: "A0001", want: value{i: 100001}},
		{typ: FieldLaunchYear, raw: "98067A  ", want: value{i: 98}},
		{typ: FieldLaunchNumber, raw: "98067A  ", want: value{i: 67}},
		{typ: FieldLaunchPiece, raw: "98067ABC", want: value{s: "ABC"}},
		{typ: FieldLaunchYear, raw: "xyzzyz  ", want: value{}},
		{typ: FieldLaunchPiece, raw: "        ", want: value{}},
	}
	for _, tt := range tests {
		got, err := decode(tt.typ, tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("decode(%v, %q) err = %v", tt.typ, tt.raw, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("decode(%v, %q) = %+v, want %+v", tt.typ, tt.raw, got, tt.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := fitWidth("12345", 3); got != "123" {
		t.Errorf("fitWidth truncate = %q", got)
	}
	if got := fitWidth("7", 4); got != "   7" {
		t.Errorf("fitWidth pad = %q", got)
	}

	ecc := map[float64]string{0: "0000000", 0.0006703: "0006703", -1: "0000000", 0.99999999: "9999999"}
	for in, want := range ecc {
		if got := formatEccentricity(in); got != want {
			t.Errorf("formatEccentricity(%v) = %q, want %q", in, got, want)
		}
	}

	dot := map[float64]string{0: " .00000000", -0.00002182: "-.00002182", 0.5: " .50000000", 1.25: " 1.2500000"}
	for in, want := range dot {
		if got := formatMeanMotionDot(in); got != want {
			t.Errorf("formatMeanMotionDot(%v) = %q, want %q", in, got, want)
		}
	}

	if mod(-3, 10) != 7 || mod(123456, 100000) != 23456 {
		t.Error("mod")
	}
	if FieldEpoch.String() != "epoch" || FieldType(99).String() != "unknown" {
		t.Error("FieldType names")
	}
}
