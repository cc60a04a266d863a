package tle

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LineWidth is the full width of a line including its checksum column.
const LineWidth = 69

// dataWidth is the number of columns ahead of the checksum.
const dataWidth = LineWidth - 1

// FieldType selects the conversion applied to a column range.
type FieldType int

const (
	FieldInt FieldType = iota
	FieldFloat
	FieldString
	FieldEccentricity // implied leading "0."
	FieldExponential  // headless-decimal signed exponent
	FieldAlpha5
	FieldEpoch // YYDDD.DDDDDDDD
	FieldLaunchYear
	FieldLaunchNumber
	FieldLaunchPiece
)

var fieldTypeNames = [...]string{
	FieldInt:          "int",
	FieldFloat:        "float",
	FieldString:       "string",
	FieldEccentricity: "eccentricity",
	FieldExponential:  "exponential",
	FieldAlpha5:       "alpha5",
	FieldEpoch:        "epoch",
	FieldLaunchYear:   "launch-year",
	FieldLaunchNumber: "launch-number",
	FieldLaunchPiece:  "launch-piece",
}

func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return "unknown"
}

// Field is one column range of a line. Start is zero-based and End is
// exclusive, so line[Start:End] is the raw text. Default is column text run
// through the same conversion by NewRecord.
//
// Fields without a setter are rendered but ignored on input; fields without
// a renderer are derived on input only.
type Field struct {
	Name    string
	Start   int
	End     int
	Type    FieldType
	Default string

	set    func(r *Record, v value) error
	render func(r *Record) (string, error)
}

// Width is the number of columns the field occupies.
func (f Field) Width() int { return f.End - f.Start }

// Parsed reports whether the field populates the record on input.
func (f Field) Parsed() bool { return f.set != nil }

// Rendered reports whether the field is written on output.
func (f Field) Rendered() bool { return f.render != nil }

// value carries a converted column; only the member matching the field
// type is set.
type value struct {
	i int
	f float64
	s string
	t time.Time
}

var (
	launchYearRe   = regexp.MustCompile(`^(\d{2})\d{2,3}`)
	launchNumberRe = regexp.MustCompile(`^\d{2}(\d{2,3})`)
	launchPieceRe  = regexp.MustCompile(`^\d{2}\d{3}\s*([A-Z]{1,3})`)
)

var errBlank = errors.New("blank column")

// decode converts raw column text according to t.
//
// The launch-* conversions never fail: designators that do not follow the
// YYNNNPPP convention leave the derived values at zero and keep the raw
// designator intact.
func decode(t FieldType, raw string) (value, error) {
	trimmed := strings.TrimSpace(raw)
	switch t {
	case FieldInt:
		// Blank integer columns (element set, revolution) mean zero.
		if trimmed == "" {
			return value{}, nil
		}
		n, err := strconv.Atoi(trimmed)
		return value{i: n}, err

	case FieldFloat:
		if trimmed == "" {
			return value{}, errBlank
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return value{f: f}, err

	case FieldString:
		return value{s: trimmed}, nil

	case FieldEccentricity:
		if trimmed == "" {
			return value{}, errBlank
		}
		for i := 0; i < len(trimmed); i++ {
			if trimmed[i] < '0' || trimmed[i] > '9' {
				return value{}, fmt.Errorf("eccentricity digit %q", trimmed[i])
			}
		}
		f, err := strconv.ParseFloat("0."+trimmed, 64)
		return value{f: f}, err

	case FieldExponential:
		f, err := DecodeExponential(raw)
		return value{f: f}, err

	case FieldAlpha5:
		n, err := DecodeAlpha5(raw)
		return value{i: n}, err

	case FieldEpoch:
		ts, err := ParseEpoch(raw)
		return value{t: ts}, err

	case FieldLaunchYear:
		if m := launchYearRe.FindStringSubmatch(trimmed); m != nil {
			n, _ := strconv.Atoi(m[1])
			return value{i: n}, nil
		}
		return value{}, nil

	case FieldLaunchNumber:
		if m := launchNumberRe.FindStringSubmatch(trimmed); m != nil {
			n, _ := strconv.Atoi(m[1])
			return value{i: n}, nil
		}
		return value{}, nil

	case FieldLaunchPiece:
		if m := launchPieceRe.FindStringSubmatch(trimmed); m != nil {
			return value{s: m[1]}, nil
		}
		return value{}, nil
	}
	return value{}, fmt.Errorf("unknown field type %d", t)
}

// fitWidth right-justifies s in width columns, truncating on the right
// when s is too long.
func fitWidth(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	if len(s) < width {
		return strings.Repeat(" ", width-len(s)) + s
	}
	return s
}

// ---------------------------------------------------------------------------
// Shared field definitions
// ---------------------------------------------------------------------------

func satNoField(line int) Field {
	f := Field{
		Name: "sat_no", Start: 2, End: 7, Type: FieldAlpha5, Default: "99999",
		render: func(r *Record) (string, error) { return EncodeAlpha5(r.SatNo) },
	}
	if line == 1 {
		f.set = func(r *Record, v value) error { r.SatNo = v.i; return nil }
	} else {
		f.Name = "sat_no2"
		f.set = func(r *Record, v value) error {
			if v.i != r.SatNo {
				return fmt.Errorf("line 1 has %d, line 2 has %d: %w", r.SatNo, v.i, ErrSatNoMismatch)
			}
			return nil
		}
	}
	return f
}

var line1Common = []Field{
	satNoField(1),
	{
		Name: "classification", Start: 7, End: 8, Type: FieldString, Default: "U",
		set: func(r *Record, v value) error {
			r.Classification = 'U'
			if v.s != "" {
				r.Classification = v.s[0]
			}
			return nil
		},
		render: func(r *Record) (string, error) {
			if r.Classification == 0 {
				return "U", nil
			}
			return string(r.Classification), nil
		},
	},
	{
		Name: "designator", Start: 9, End: 17, Type: FieldString,
		set: func(r *Record, v value) error { r.Designator = v.s; return nil },
		render: func(r *Record) (string, error) {
			d := r.Designator
			if len(d) > 8 {
				d = d[:8]
			}
			return d + strings.Repeat(" ", 8-len(d)), nil
		},
	},
	{
		Name: "launch_year", Start: 9, End: 17, Type: FieldLaunchYear,
		set: func(r *Record, v value) error { r.LaunchYear = v.i; return nil },
	},
	{
		Name: "launch_number", Start: 9, End: 17, Type: FieldLaunchNumber,
		set: func(r *Record, v value) error { r.LaunchNumber = v.i; return nil },
	},
	{
		Name: "launch_piece", Start: 9, End: 17, Type: FieldLaunchPiece,
		set: func(r *Record, v value) error { r.LaunchPiece = v.s; return nil },
	},
	{
		Name: "epoch", Start: 18, End: 32, Type: FieldEpoch, Default: "00001.00000000",
		set:    func(r *Record, v value) error { r.Epoch = v.t; return nil },
		render: func(r *Record) (string, error) { return FormatEpoch(r.Epoch) },
	},
}

var elementSetField = Field{
	Name: "element_set_no", Start: 64, End: 68, Type: FieldInt, Default: "1",
	set:    func(r *Record, v value) error { r.ElementSetNo = v.i; return nil },
	render: func(r *Record) (string, error) { return strconv.Itoa(mod(r.ElementSetNo, 10000)), nil },
}

// ---------------------------------------------------------------------------
// Line 1, Drag
// ---------------------------------------------------------------------------

var line1Drag = append(append([]Field(nil), line1Common...),
	Field{
		Name: "mean_motion_dot", Start: 33, End: 43, Type: FieldFloat, Default: " .00000000",
		set:    func(r *Record, v value) error { r.Drag.MeanMotionDot = v.f; return nil },
		render: func(r *Record) (string, error) { return formatMeanMotionDot(r.Drag.MeanMotionDot), nil },
	},
	Field{
		Name: "mean_motion_ddot", Start: 44, End: 52, Type: FieldExponential, Default: zeroExponential,
		set:    func(r *Record, v value) error { r.Drag.MeanMotionDDot = v.f; return nil },
		render: func(r *Record) (string, error) { return EncodeExponential(r.Drag.MeanMotionDDot) },
	},
	Field{
		Name: "bstar", Start: 53, End: 61, Type: FieldExponential, Default: zeroExponential,
		set:    func(r *Record, v value) error { r.Drag.BStar = v.f; return nil },
		render: func(r *Record) (string, error) { return EncodeExponential(r.Drag.BStar) },
	},
	Field{
		Name: "ephemeris_type", Start: 62, End: 63, Type: FieldInt, Default: "0",
		set: func(r *Record, v value) error { r.EphemerisType = v.i; return nil },
		render: func(r *Record) (string, error) {
			if r.EphemerisType == 2 {
				return "2", nil
			}
			return "0", nil
		},
	},
	elementSetField,
)

// ---------------------------------------------------------------------------
// Line 1, BallisticArea
// ---------------------------------------------------------------------------

// The type-4 layout keeps the mean motion derivative columns but always
// writes them as zero.
var line1Ballistic = append(append([]Field(nil), line1Common...),
	Field{
		Name: "mean_motion_dot", Start: 33, End: 43, Type: FieldFloat,
		render: func(*Record) (string, error) { return "+.00000000", nil },
	},
	Field{
		Name: "agom", Start: 44, End: 52, Type: FieldExponential, Default: zeroExponential,
		set:    func(r *Record, v value) error { r.Ballistic.AGOM = v.f; return nil },
		render: func(r *Record) (string, error) { return EncodeExponential(r.Ballistic.AGOM) },
	},
	Field{
		Name: "bterm", Start: 53, End: 61, Type: FieldExponential, Default: zeroExponential,
		set:    func(r *Record, v value) error { r.Ballistic.BTerm = v.f; return nil },
		render: func(r *Record) (string, error) { return EncodeExponential(r.Ballistic.BTerm) },
	},
	Field{
		Name: "ephemeris_type", Start: 62, End: 63, Type: FieldInt, Default: "4",
		set:    func(r *Record, v value) error { r.EphemerisType = v.i; return nil },
		render: func(*Record) (string, error) { return "4", nil },
	},
	elementSetField,
)

// ---------------------------------------------------------------------------
// Line 2
// ---------------------------------------------------------------------------

func angleField(name string, start int, def string, ptr func(*Record) *float64) Field {
	return Field{
		Name: name, Start: start, End: start + 8, Type: FieldFloat, Default: def,
		set:    func(r *Record, v value) error { *ptr(r) = v.f; return nil },
		render: func(r *Record) (string, error) { return fmt.Sprintf("%8.4f", *ptr(r)), nil },
	}
}

var line2Fields = []Field{
	satNoField(2),
	angleField("inclination", 8, "0", func(r *Record) *float64 { return &r.Inclination }),
	angleField("raan", 17, "0", func(r *Record) *float64 { return &r.RAAN }),
	{
		Name: "eccentricity", Start: 26, End: 33, Type: FieldEccentricity, Default: "0000001",
		set:    func(r *Record, v value) error { r.Eccentricity = v.f; return nil },
		render: func(r *Record) (string, error) { return formatEccentricity(r.Eccentricity), nil },
	},
	angleField("arg_perigee", 34, "0", func(r *Record) *float64 { return &r.ArgPerigee }),
	angleField("mean_anomaly", 43, "0", func(r *Record) *float64 { return &r.MeanAnomaly }),
	{
		Name: "mean_motion", Start: 52, End: 63, Type: FieldFloat, Default: "10.0",
		set:    func(r *Record, v value) error { r.MeanMotion = v.f; return nil },
		render: func(r *Record) (string, error) { return fmt.Sprintf("%11.8f", r.MeanMotion), nil },
	},
	{
		Name: "rev_number", Start: 63, End: 68, Type: FieldInt, Default: "0",
		set:    func(r *Record, v value) error { r.RevNumber = v.i; return nil },
		render: func(r *Record) (string, error) { return strconv.Itoa(mod(r.RevNumber, 100000)), nil },
	},
}

// Schema returns the ordered field list of the given line (1 or 2) for a
// variant. The returned slice must not be modified.
func Schema(v Variant, line int) []Field {
	if line == 2 {
		return line2Fields
	}
	if v == BallisticArea {
		return line1Ballistic
	}
	return line1Drag
}

// MaxEccentricity is the largest eccentricity representable in seven
// implied-decimal digits.
const MaxEccentricity = 0.9999999

// ClampEccentricity confines e to the renderable range [0, MaxEccentricity].
func ClampEccentricity(e float64) float64 {
	switch {
	case e < 0 || math.IsNaN(e):
		return 0
	case e > MaxEccentricity:
		return MaxEccentricity
	}
	return e
}

// formatEccentricity writes exactly seven digits with no "0." prefix.
func formatEccentricity(e float64) string {
	s := strconv.FormatFloat(ClampEccentricity(e), 'f', 7, 64)
	if strings.HasPrefix(s, "1.") {
		return "9999999"
	}
	return s[2:]
}

// formatMeanMotionDot renders the ten-column first derivative as a sign
// column followed by ".DDDDDDDD". Magnitudes of one or more keep their
// integer digit and lose a decimal.
func formatMeanMotionDot(v float64) string {
	sign := " "
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 8, 64)
	if strings.HasPrefix(s, "0.") {
		return sign + s[1:]
	}
	return sign + strconv.FormatFloat(v, 'f', 7, 64)
}

func mod(n, m int) int {
	n %= m
	if n < 0 {
		n += m
	}
	return n
}
