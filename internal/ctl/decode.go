package ctl

import (
	"fmt"
	"math"
	"time"

	"github.com/large-farva/tlekit/internal/catalog"
	"github.com/large-farva/tlekit/internal/tle"
)

// recordView is the JSON and table shape of a decoded record.
type recordView struct {
	Name           string    `json:"name,omitempty"`
	SatNo          int       `json:"sat_no"`
	Classification string    `json:"classification"`
	Designator     string    `json:"designator"`
	LaunchYear     int       `json:"launch_year"`
	LaunchNumber   int       `json:"launch_number"`
	LaunchPiece    string    `json:"launch_piece"`
	Epoch          time.Time `json:"epoch"`
	Variant        string    `json:"variant"`
	State          string    `json:"state"`
	EphemerisType  int       `json:"ephemeris_type"`
	ElementSetNo   int       `json:"element_set_no"`

	MeanMotionDot  *float64 `json:"mean_motion_dot,omitempty"`
	MeanMotionDDot *float64 `json:"mean_motion_ddot,omitempty"`
	BStar          *float64 `json:"bstar,omitempty"`
	AGOM           *float64 `json:"agom,omitempty"`
	BTerm          *float64 `json:"bterm,omitempty"`

	Inclination  float64 `json:"inclination_deg"`
	RAAN         float64 `json:"raan_deg"`
	Eccentricity float64 `json:"eccentricity"`
	ArgPerigee   float64 `json:"arg_perigee_deg"`
	MeanAnomaly  float64 `json:"mean_anomaly_deg"`
	MeanMotion   float64 `json:"mean_motion_rev_per_day"`
	RevNumber    int     `json:"rev_number"`

	SemiMajorAxis float64 `json:"semi_major_axis_km"`
	Apogee        float64 `json:"apogee_km"`
	Perigee       float64 `json:"perigee_km"`

	Line1 string `json:"line1,omitempty"`
	Line2 string `json:"line2,omitempty"`
	Error string `json:"error,omitempty"`
}

func newRecordView(name string, r *tle.Record) recordView {
	v := recordView{
		Name:           name,
		SatNo:          r.SatNo,
		Classification: string(r.Classification),
		Designator:     r.Designator,
		LaunchYear:     r.LaunchYear,
		LaunchNumber:   r.LaunchNumber,
		LaunchPiece:    r.LaunchPiece,
		Epoch:          r.Epoch,
		Variant:        r.Variant.String(),
		State:          r.State().String(),
		EphemerisType:  r.EphemerisType,
		ElementSetNo:   r.ElementSetNo,
		Inclination:    r.Inclination,
		RAAN:           r.RAAN,
		Eccentricity:   r.Eccentricity,
		ArgPerigee:     r.ArgPerigee,
		MeanAnomaly:    r.MeanAnomaly,
		MeanMotion:     r.MeanMotion,
		RevNumber:      r.RevNumber,
		SemiMajorAxis:  finite(r.SemiMajorAxis()),
		Apogee:         finite(r.Apogee()),
		Perigee:        finite(r.Perigee()),
	}
	switch t := r.Terms().(type) {
	case tle.DragTerms:
		v.MeanMotionDot, v.MeanMotionDDot, v.BStar = &t.MeanMotionDot, &t.MeanMotionDDot, &t.BStar
	case tle.BallisticTerms:
		v.AGOM, v.BTerm = &t.AGOM, &t.BTerm
	}
	if l1, l2, err := r.Lines(); err == nil {
		v.Line1, v.Line2 = l1, l2
	}
	if err := r.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// finite maps the infinities of a zero mean motion to zero; JSON cannot
// carry them.
func finite(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// DecodeOptions controls the decode command.
type DecodeOptions struct {
	File string
	Args []string
}

// Decode parses element sets and prints every field.
func Decode(e *Env, opts DecodeOptions) error {
	list, err := e.entries(opts.File, opts.Args)
	if err != nil {
		return err
	}

	views := make([]recordView, len(list))
	for i, en := range list {
		views[i] = newRecordView(en.Name, en.Record)
	}
	if e.JSON {
		return e.printJSON(views)
	}

	for _, v := range views {
		e.printRecord(v)
	}
	return nil
}

func (e *Env) printRecord(v recordView) {
	title := fmt.Sprintf("CATALOG %d", v.SatNo)
	if v.Name != "" {
		title += " (" + v.Name + ")"
	}
	fmt.Fprintln(e.Out)
	fmt.Fprintln(e.Out, e.header("  "+title))
	fmt.Fprintln(e.Out, e.rule(50))

	t := e.newTable("  ")
	t.row("Variant:", v.Variant)
	t.row("State:", e.colorize(stateColor(v.State), v.State))
	t.row("Classification:", v.Classification)
	t.row("Designator:", v.Designator)
	t.row("Launch:", fmt.Sprintf("%d / %d / %s", v.LaunchYear, v.LaunchNumber, v.LaunchPiece))
	t.row("Epoch:", v.Epoch.Format(time.RFC3339Nano))
	t.row("Ephemeris type:", fmt.Sprintf("%d", v.EphemerisType))
	t.row("Element set:", fmt.Sprintf("%d", v.ElementSetNo))
	if v.BStar != nil {
		t.row("Mean motion dot:", fmt.Sprintf("%.8f rev/day^2", *v.MeanMotionDot))
		t.row("Mean motion ddot:", fmt.Sprintf("%.5e rev/day^3", *v.MeanMotionDDot))
		t.row("B*:", fmt.Sprintf("%.5e 1/ER", *v.BStar))
	}
	if v.AGOM != nil {
		t.row("AGOM:", fmt.Sprintf("%.5e m^2/kg", *v.AGOM))
		t.row("B-term:", fmt.Sprintf("%.5e m^2/kg", *v.BTerm))
	}
	t.row("Inclination:", fmt.Sprintf("%.4f deg", v.Inclination))
	t.row("RAAN:", fmt.Sprintf("%.4f deg", v.RAAN))
	t.row("Eccentricity:", fmt.Sprintf("%.7f", v.Eccentricity))
	t.row("Arg of perigee:", fmt.Sprintf("%.4f deg", v.ArgPerigee))
	t.row("Mean anomaly:", fmt.Sprintf("%.4f deg", v.MeanAnomaly))
	t.row("Mean motion:", fmt.Sprintf("%.8f rev/day", v.MeanMotion))
	t.row("Revolution:", fmt.Sprintf("%d", v.RevNumber))
	t.row("Semi-major axis:", fmt.Sprintf("%.3f km", v.SemiMajorAxis))
	t.row("Apogee:", fmt.Sprintf("%.3f km", v.Apogee))
	t.row("Perigee:", fmt.Sprintf("%.3f km", v.Perigee))
	t.flush()

	if v.Error != "" {
		fmt.Fprintf(e.Out, "  %s %s\n", e.colorize(red, "field error:"), v.Error)
	}
	if v.Line1 != "" {
		fmt.Fprintln(e.Out)
		fmt.Fprintln(e.Out, "  "+v.Line1)
		fmt.Fprintln(e.Out, "  "+v.Line2)
	}
	fmt.Fprintln(e.Out)
}

// Sample prints the catalog compiled into the binary, or writes it to
// output when one is given.
func Sample(e *Env, output string) error {
	list := catalog.Sample()
	if output != "" && output != "-" {
		if err := catalog.WriteFile(output, list); err != nil {
			return err
		}
		e.Log.Info("sample catalog written", "path", output, "entries", len(list))
		return nil
	}
	if e.JSON {
		views := make([]recordView, len(list))
		for i, en := range list {
			views[i] = newRecordView(en.Name, en.Record)
		}
		return e.printJSON(views)
	}
	return catalog.Write(e.Out, list)
}
