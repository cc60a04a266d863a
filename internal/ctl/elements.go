package ctl

import (
	"fmt"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/large-farva/tlekit/internal/fit"
	"github.com/large-farva/tlekit/internal/tle"
)

// ElementsOptions carry the shared inputs of from-coe and from-rv.
type ElementsOptions struct {
	Epoch     string
	SatNo     int
	Ballistic bool
}

func (o ElementsOptions) resolve() (time.Time, tle.Terms, error) {
	epoch := time.Now().UTC()
	if o.Epoch != "" {
		t, err := parseTime(o.Epoch)
		if err != nil {
			return time.Time{}, nil, err
		}
		epoch = t
	}
	var terms tle.Terms = tle.DragTerms{}
	if o.Ballistic {
		terms = tle.BallisticTerms{}
	}
	return epoch, terms, nil
}

// COEOptions are classical elements in km and degrees.
type COEOptions struct {
	ElementsOptions
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	ArgPerigee    float64
	RAAN          float64
	MeanAnomaly   float64
}

// FromCOE renders an element set built from classical elements.
func FromCOE(e *Env, opts COEOptions) error {
	epoch, terms, err := opts.resolve()
	if err != nil {
		return err
	}
	r, err := tle.FromClassicalElements(tle.ClassicalElements{
		Epoch:         epoch,
		SemiMajorAxis: opts.SemiMajorAxis,
		Eccentricity:  opts.Eccentricity,
		Inclination:   opts.Inclination,
		ArgPerigee:    opts.ArgPerigee,
		RAAN:          opts.RAAN,
		MeanAnomaly:   opts.MeanAnomaly,
		Mu:            e.Config.Fit.Mu,
	}, terms)
	if err != nil {
		return err
	}
	r.SatNo = opts.SatNo
	return e.printLines(r)
}

// RVOptions are an inertial position (km) and velocity (km/s).
type RVOptions struct {
	ElementsOptions
	Position []float64
	Velocity []float64
}

// FromRV renders an element set built from a state vector. A state that
// does not define an orbit still renders, as the default record, with a
// warning.
func FromRV(e *Env, opts RVOptions) error {
	pos, err := vec3("position", opts.Position)
	if err != nil {
		return err
	}
	vel, err := vec3("velocity", opts.Velocity)
	if err != nil {
		return err
	}
	epoch, terms, err := opts.resolve()
	if err != nil {
		return err
	}

	r := tle.FromStateVector(epoch, pos, vel, e.Config.Fit.Mu, terms, nil)
	if r.State() == tle.Uninitialized {
		e.Log.Warn("state vector does not define an orbit, rendering defaults",
			"position", opts.Position, "velocity", opts.Velocity)
	} else {
		r.SatNo = opts.SatNo
	}
	return e.printLines(r)
}

func vec3(name string, v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("%s needs 3 components, got %d", name, len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Vector prints the normalized parameter vector of each element set.
func Vector(e *Env, opts DecodeOptions) error {
	list, err := e.entries(opts.File, opts.Args)
	if err != nil {
		return err
	}

	type result struct {
		Name       string    `json:"name,omitempty"`
		SatNo      int       `json:"sat_no"`
		Variant    string    `json:"variant"`
		Parameters []string  `json:"parameters"`
		Values     []float64 `json:"values"`
	}
	results := make([]result, len(list))
	for i, en := range list {
		v := fit.NewVector(en.Record)
		results[i] = result{
			Name:       en.Name,
			SatNo:      en.Record.SatNo,
			Variant:    en.Record.Variant.String(),
			Parameters: v.Names(),
			Values:     v.ToArray(),
		}
	}
	if e.JSON {
		return e.printJSON(results)
	}

	for _, r := range results {
		fmt.Fprintln(e.Out)
		fmt.Fprintln(e.Out, e.header(fmt.Sprintf("  CATALOG %d %s", r.SatNo, e.colorize(cyan, r.Variant))))
		t := e.newTable("  ", "PARAMETER", "VALUE")
		for j, name := range r.Parameters {
			t.row(name, strconv.FormatFloat(r.Values[j], 'f', 10, 64))
		}
		t.flush()
	}
	fmt.Fprintln(e.Out)
	return nil
}
