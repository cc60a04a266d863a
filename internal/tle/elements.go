package tle

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/large-farva/tlekit/internal/orbit"
)

// ElementConverter turns a state vector into classical elements. It must
// report undefined elements with values above 999999 (see orbit.Undefined).
type ElementConverter interface {
	ClassicalFromStateVector(r, v r3.Vec, mu float64) orbit.Elements
}

// ClassicalElements are the inputs of FromClassicalElements. Distances are
// km and angles degrees.
type ClassicalElements struct {
	Epoch         time.Time
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	ArgPerigee    float64
	RAAN          float64
	MeanAnomaly   float64
	Mu            float64 // km^3/s^2; zero selects orbit.MuWGS84
}

// FromClassicalElements builds a Populated record from classical elements.
// Mean motion is sqrt(mu/a^3) expressed in revolutions per day. A nil terms
// selects the Drag variant with zero drag.
func FromClassicalElements(el ClassicalElements, terms Terms) (*Record, error) {
	if !(el.SemiMajorAxis > 0) {
		return nil, fmt.Errorf("a = %v km: %w", el.SemiMajorAxis, ErrSemiMajorAxis)
	}
	if terms == nil {
		terms = DragTerms{}
	}
	mu := el.Mu
	if mu == 0 {
		mu = orbit.MuWGS84
	}

	r := NewRecord(terms.Variant())
	r.SetTerms(terms)
	r.Epoch = el.Epoch
	r.Eccentricity = ClampEccentricity(el.Eccentricity)
	r.Inclination = el.Inclination
	r.ArgPerigee = wrapDegrees(el.ArgPerigee)
	r.RAAN = wrapDegrees(el.RAAN)
	r.MeanAnomaly = wrapDegrees(el.MeanAnomaly)
	r.MeanMotion = orbit.RevsPerDay(el.SemiMajorAxis, mu)
	r.populated = true
	return r, nil
}

// FromStateVector builds a record from a position (km) and velocity (km/s)
// at epoch. A nil conv uses orbit.Converter.
//
// This is best effort. A velocity with no out-of-plane component, a
// converter result carrying undefined elements, or a non-positive
// semi-major axis all yield NewRecord of the requested variant rather than
// an error; callers detect that case with State() == Uninitialized.
func FromStateVector(epoch time.Time, pos, vel r3.Vec, mu float64, terms Terms, conv ElementConverter) *Record {
	if terms == nil {
		terms = DragTerms{}
	}
	if conv == nil {
		conv = orbit.Converter{}
	}
	if mu == 0 {
		mu = orbit.MuWGS84
	}

	fallback := NewRecord(terms.Variant())
	if vel.Z == 0 {
		return fallback
	}

	el := conv.ClassicalFromStateVector(pos, vel, mu)
	if !el.Defined() {
		return fallback
	}

	rec, err := FromClassicalElements(ClassicalElements{
		Epoch:         epoch,
		SemiMajorAxis: el.SemiMajorAxis,
		Eccentricity:  el.Eccentricity,
		Inclination:   degrees(el.Inclination),
		ArgPerigee:    degrees(el.ArgPerigee),
		RAAN:          degrees(el.RAAN),
		MeanAnomaly:   degrees(el.MeanAnomaly),
		Mu:            mu,
	}, terms)
	if err != nil {
		return fallback
	}
	return rec
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
