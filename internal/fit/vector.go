// Package fit projects element sets onto a normalized parameter vector and
// drives a derivative-free optimizer over it to fit an element set to an
// observed ephemeris.
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/large-farva/tlekit/internal/tle"
)

// ErrLength is returned by FromArray when the input length does not match
// the record's schema.
var ErrLength = errors.New("vector length does not match schema")

// param maps one record field between its native range [lo, hi] and [0, 1].
type param struct {
	name    string
	lo, hi  float64
	angular bool
	get     func(*tle.Record) float64
	set     func(*tle.Record, float64)
}

var shared = []param{
	{name: "mean_motion", lo: 0, hi: 20,
		get: func(r *tle.Record) float64 { return r.MeanMotion },
		set: func(r *tle.Record, v float64) { r.MeanMotion = v }},
	{name: "eccentricity", lo: 1e-15, hi: 1,
		get: func(r *tle.Record) float64 { return r.Eccentricity },
		set: func(r *tle.Record, v float64) { r.Eccentricity = v }},
	{name: "inclination", lo: 0, hi: 360, angular: true,
		get: func(r *tle.Record) float64 { return r.Inclination },
		set: func(r *tle.Record, v float64) { r.Inclination = v }},
	{name: "arg_perigee", lo: 0, hi: 360, angular: true,
		get: func(r *tle.Record) float64 { return r.ArgPerigee },
		set: func(r *tle.Record, v float64) { r.ArgPerigee = v }},
	{name: "raan", lo: 0, hi: 360, angular: true,
		get: func(r *tle.Record) float64 { return r.RAAN },
		set: func(r *tle.Record, v float64) { r.RAAN = v }},
	{name: "mean_anomaly", lo: 0, hi: 360, angular: true,
		get: func(r *tle.Record) float64 { return r.MeanAnomaly },
		set: func(r *tle.Record, v float64) { r.MeanAnomaly = v }},
}

var dragParams = append(append([]param(nil), shared...),
	param{name: "mean_motion_dot", lo: -1, hi: 1,
		get: func(r *tle.Record) float64 { return r.Drag.MeanMotionDot },
		set: func(r *tle.Record, v float64) { r.Drag.MeanMotionDot = v }},
	param{name: "mean_motion_ddot", lo: -1, hi: 1,
		get: func(r *tle.Record) float64 { return r.Drag.MeanMotionDDot },
		set: func(r *tle.Record, v float64) { r.Drag.MeanMotionDDot = v }},
	param{name: "bstar", lo: -1, hi: 1,
		get: func(r *tle.Record) float64 { return r.Drag.BStar },
		set: func(r *tle.Record, v float64) { r.Drag.BStar = v }},
)

var ballisticParams = append(append([]param(nil), shared...),
	param{name: "bterm", lo: -1, hi: 1,
		get: func(r *tle.Record) float64 { return r.Ballistic.BTerm },
		set: func(r *tle.Record, v float64) { r.Ballistic.BTerm = v }},
	param{name: "agom", lo: 1e-15, hi: 100,
		get: func(r *tle.Record) float64 { return r.Ballistic.AGOM },
		set: func(r *tle.Record, v float64) { r.Ballistic.AGOM = v }},
)

// Vector is a view of a record as a point in [0,1]^n. It borrows the record:
// FromArray writes straight into it, and the schema follows the record's
// current variant.
//
// Angular components wrap modulo 1 on the way back, so distinct vectors
// outside the unit cube can decode to the same record. Other components are
// clamped to [0,1].
type Vector struct {
	rec *tle.Record
}

// NewVector wraps rec.
func NewVector(rec *tle.Record) *Vector {
	return &Vector{rec: rec}
}

// Record returns the borrowed record.
func (v *Vector) Record() *tle.Record { return v.rec }

func (v *Vector) params() []param {
	if v.rec.Variant == tle.BallisticArea {
		return ballisticParams
	}
	return dragParams
}

// Len is the vector dimension for the record's variant.
func (v *Vector) Len() int { return len(v.params()) }

// Names lists the record fields in vector order.
func (v *Vector) Names() []string {
	ps := v.params()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
	}
	return names
}

// ToArray maps every field into [0,1]. Values outside a field's source
// range map to the nearest end.
func (v *Vector) ToArray() []float64 {
	ps := v.params()
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = clamp01((p.get(v.rec) - p.lo) / (p.hi - p.lo))
	}
	return out
}

// FromArray writes x back into the record.
func (v *Vector) FromArray(x []float64) error {
	ps := v.params()
	if len(x) != len(ps) {
		return fmt.Errorf("got %d values for %d %s parameters: %w", len(x), len(ps), v.rec.Variant, ErrLength)
	}
	for i, p := range ps {
		u := x[i]
		switch {
		case math.IsNaN(u) || math.IsInf(u, 0):
			u = 0
		case p.angular:
			u -= math.Floor(u)
		default:
			u = clamp01(u)
		}
		p.set(v.rec, p.lo+u*(p.hi-p.lo))
	}
	return nil
}

func clamp01(u float64) float64 {
	switch {
	case math.IsNaN(u) || u < 0:
		return 0
	case u > 1:
		return 1
	}
	return u
}
