package ctl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/large-farva/tlekit/internal/tle"
)

// EncodeOptions are the fields of an element set given on the command
// line. Unset fields keep the record defaults.
type EncodeOptions struct {
	SatNo          int
	Classification string
	Designator     string
	Epoch          string
	ElementSetNo   int
	RevNumber      int
	Ballistic      bool

	MeanMotionDot  float64
	MeanMotionDDot float64
	BStar          float64
	AGOM           float64
	BTerm          float64

	Inclination  float64
	RAAN         float64
	Eccentricity float64
	ArgPerigee   float64
	MeanAnomaly  float64
	MeanMotion   float64
}

// linesView is the output of every command that renders an element set.
type linesView struct {
	SatNo   int     `json:"sat_no"`
	Variant string  `json:"variant"`
	State   string  `json:"state"`
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2"`
	Apogee  float64 `json:"apogee_km"`
	Perigee float64 `json:"perigee_km"`
}

// Encode builds a record from opts and prints its two lines.
func Encode(e *Env, opts EncodeOptions) error {
	variant := tle.Drag
	if opts.Ballistic {
		variant = tle.BallisticArea
	}
	r := tle.NewRecord(variant)

	r.SatNo = opts.SatNo
	if c := strings.TrimSpace(opts.Classification); c != "" {
		r.Classification = c[0]
	}
	r.Designator = opts.Designator
	if opts.Epoch != "" {
		t, err := parseTime(opts.Epoch)
		if err != nil {
			return err
		}
		r.Epoch = t
	}
	r.ElementSetNo = opts.ElementSetNo
	r.RevNumber = opts.RevNumber
	if opts.Ballistic {
		r.SetTerms(tle.BallisticTerms{AGOM: opts.AGOM, BTerm: opts.BTerm})
	} else {
		r.SetTerms(tle.DragTerms{MeanMotionDot: opts.MeanMotionDot, MeanMotionDDot: opts.MeanMotionDDot, BStar: opts.BStar})
	}
	r.Inclination = opts.Inclination
	r.RAAN = opts.RAAN
	r.Eccentricity = opts.Eccentricity
	r.ArgPerigee = opts.ArgPerigee
	r.MeanAnomaly = opts.MeanAnomaly
	if opts.MeanMotion != 0 {
		r.MeanMotion = opts.MeanMotion
	}
	return e.printLines(r)
}

// printLines renders r and prints the pair, with apsis heights in text
// mode.
func (e *Env) printLines(r *tle.Record) error {
	l1, l2, err := r.Lines()
	if err != nil {
		return err
	}
	e.Metrics.ObserveGenerate()

	v := linesView{
		SatNo:   r.SatNo,
		Variant: r.Variant.String(),
		State:   r.State().String(),
		Line1:   l1,
		Line2:   l2,
		Apogee:  finite(r.Apogee()),
		Perigee: finite(r.Perigee()),
	}
	if e.JSON {
		return e.printJSON(v)
	}
	fmt.Fprintln(e.Out, l1)
	fmt.Fprintln(e.Out, l2)
	return nil
}

// Checksum prints the checksum digit of each line and whether the line's
// last column already carries it.
func Checksum(e *Env, lines []string) error {
	if len(lines) == 0 {
		return fmt.Errorf("no lines given")
	}
	type result struct {
		Line     string `json:"line"`
		Checksum string `json:"checksum"`
		Status   string `json:"status"`
	}
	results := make([]result, len(lines))
	for i, l := range lines {
		status := "mismatch"
		if tle.VerifyChecksum(l) {
			status = "ok"
		} else if len(l) < tle.LineWidth {
			status = "short"
		}
		data := l
		if len(data) >= tle.LineWidth {
			data = data[:tle.LineWidth-1]
		}
		results[i] = result{Line: l, Checksum: string(tle.Checksum(data)), Status: status}
	}
	if e.JSON {
		return e.printJSON(results)
	}
	for _, r := range results {
		fmt.Fprintf(e.Out, "%s  %s  %s\n", padRight(r.Line, tle.LineWidth), r.Checksum, e.colorize(stateColor(r.Status), r.Status))
	}
	return nil
}

// Alpha5 converts catalog numbers to their five-column form and back.
// Arguments made only of digits are encoded; anything else is decoded.
func Alpha5(e *Env, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("no values given")
	}
	type result struct {
		Input  string `json:"input"`
		SatNo  int    `json:"sat_no"`
		Alpha5 string `json:"alpha5"`
	}
	results := make([]result, 0, len(values))
	for _, in := range values {
		res := result{Input: in}
		if n, err := strconv.Atoi(in); err == nil {
			s, err := tle.EncodeAlpha5(n)
			if err != nil {
				return err
			}
			res.SatNo, res.Alpha5 = n, s
		} else {
			n, err := tle.DecodeAlpha5(in)
			if err != nil {
				return err
			}
			res.SatNo, res.Alpha5 = n, strings.ToUpper(strings.TrimSpace(in))
		}
		results = append(results, res)
	}
	if e.JSON {
		return e.printJSON(results)
	}
	t := e.newTable("", "INPUT", "CATALOG", "ALPHA5")
	for _, r := range results {
		t.row(r.Input, strconv.Itoa(r.SatNo), r.Alpha5)
	}
	t.flush()
	return nil
}
