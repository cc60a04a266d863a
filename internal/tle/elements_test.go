package tle

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/large-farva/tlekit/internal/orbit"
)

var testEpoch = time.Date(2024, time.May, 4, 10, 30, 0, 0, time.UTC)

func TestFromClassicalElements(t *testing.T) {
	r, err := FromClassicalElements(ClassicalElements{
		Epoch:         testEpoch,
		SemiMajorAxis: 7000,
		Eccentricity:  0.001,
		Inclination:   98.2,
		ArgPerigee:    -30,
		RAAN:          370,
		MeanAnomaly:   45,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.State() != Populated || r.Variant != Drag {
		t.Errorf("state %v variant %v", r.State(), r.Variant)
	}
	if !approx(r.MeanMotion, 14.82366984234455, 1e-9) {
		t.Errorf("MeanMotion = %v", r.MeanMotion)
	}
	if !approx(r.ArgPerigee, 330, 1e-9) || !approx(r.RAAN, 10, 1e-9) {
		t.Errorf("angles not wrapped: argp %v raan %v", r.ArgPerigee, r.RAAN)
	}
	if !r.Epoch.Equal(testEpoch) {
		t.Errorf("Epoch = %v", r.Epoch)
	}
	if _, _, err := r.Lines(); err != nil {
		t.Errorf("Lines: %v", err)
	}
}

func TestFromClassicalElementsBallistic(t *testing.T) {
	r, err := FromClassicalElements(ClassicalElements{
		Epoch: testEpoch, SemiMajorAxis: 42164, Mu: orbit.MuWGS72,
	}, BallisticTerms{AGOM: 0.02, BTerm: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if r.Variant != BallisticArea || r.Ballistic.AGOM != 0.02 {
		t.Errorf("variant %v terms %+v", r.Variant, r.Ballistic)
	}
	if want := orbit.RevsPerDay(42164, orbit.MuWGS72); r.MeanMotion != want {
		t.Errorf("MeanMotion = %v, want %v", r.MeanMotion, want)
	}
}

func TestFromClassicalElementsBadAxis(t *testing.T) {
	for _, a := range []float64{0, -7000, math.NaN()} {
		if _, err := FromClassicalElements(ClassicalElements{SemiMajorAxis: a}, nil); !errors.Is(err, ErrSemiMajorAxis) {
			t.Errorf("a=%v: err = %v", a, err)
		}
	}
}

func TestFromStateVectorRoundTrip(t *testing.T) {
	const (
		a    = 7000.0
		ecc  = 0.01
		incl = 51.6
		raan = 120.0
		argp = 80.0
		nu   = 30.0
	)
	rad := math.Pi / 180
	pos, vel := orbit.StateVector(a, ecc, incl*rad, raan*rad, argp*rad, nu*rad, orbit.MuWGS84)

	r := FromStateVector(testEpoch, pos, vel, orbit.MuWGS84, nil, nil)
	if r.State() != Populated {
		t.Fatal("expected a populated record")
	}

	_, m := orbit.AnomaliesFromTrue(ecc, nu*rad)
	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean_motion", r.MeanMotion, orbit.RevsPerDay(a, orbit.MuWGS84)},
		{"eccentricity", r.Eccentricity, ecc},
		{"inclination", r.Inclination, incl},
		{"raan", r.RAAN, raan},
		{"arg_perigee", r.ArgPerigee, argp},
		{"mean_anomaly", r.MeanAnomaly, m / rad},
	}
	for _, c := range checks {
		if !approx(c.got, c.want, 1e-6) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

type sentinelConverter struct{}

func (sentinelConverter) ClassicalFromStateVector(r3.Vec, r3.Vec, float64) orbit.Elements {
	return orbit.Elements{SemiMajorAxis: 7000, ArgPerigee: orbit.Undefined}
}

type negativeAxisConverter struct{}

func (negativeAxisConverter) ClassicalFromStateVector(r3.Vec, r3.Vec, float64) orbit.Elements {
	return orbit.Elements{SemiMajorAxis: -8000, Eccentricity: 1.5}
}

func TestFromStateVectorFallback(t *testing.T) {
	pos := r3.Vec{X: 7000}
	tests := []struct {
		name  string
		vel   r3.Vec
		terms Terms
		conv  ElementConverter
		want  Variant
	}{
		{"planar velocity", r3.Vec{Y: 8}, nil, nil, Drag},
		{"planar velocity ballistic", r3.Vec{Y: 8}, BallisticTerms{}, nil, BallisticArea},
		{"undefined elements", r3.Vec{Y: 7, Z: 1}, nil, sentinelConverter{}, Drag},
		{"hyperbolic", r3.Vec{Y: 7, Z: 1}, nil, negativeAxisConverter{}, Drag},
		{"radial velocity", r3.Vec{X: 1, Z: 1e-15}, nil, nil, Drag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromStateVector(testEpoch, pos, tt.vel, 0, tt.terms, tt.conv)
			if r == nil {
				t.Fatal("nil record")
			}
			if r.State() != Uninitialized {
				t.Errorf("State = %v, want uninitialized", r.State())
			}
			if r.Variant != tt.want {
				t.Errorf("Variant = %v, want %v", r.Variant, tt.want)
			}
		})
	}
}
