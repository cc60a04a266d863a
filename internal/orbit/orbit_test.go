package orbit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const deg = math.Pi / 180

func TestRevsPerDay(t *testing.T) {
	if got := RevsPerDay(7000, MuWGS84); math.Abs(got-14.82366984234455) > 1e-9 {
		t.Errorf("RevsPerDay(7000) = %v", got)
	}
	// Geosynchronous radius gives roughly one sidereal revolution per day.
	if got := RevsPerDay(42164.17, MuWGS84); math.Abs(got-1.0027) > 1e-3 {
		t.Errorf("RevsPerDay(GEO) = %v", got)
	}
}

func TestClassicalRoundTrip(t *testing.T) {
	tests := []struct {
		name                         string
		a, ecc, incl, raan, argp, nu float64
	}{
		{"leo", 6800, 0.001, 51.6, 247.4, 130.5, 10},
		{"molniya", 26600, 0.74, 63.4, 45, 270, 200},
		{"sun-synchronous", 7078, 0.0012, 98.2, 10, 90, 359},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, v := StateVector(tt.a, tt.ecc, tt.incl*deg, tt.raan*deg, tt.argp*deg, tt.nu*deg, MuWGS84)
			el := Classical(r, v, MuWGS84)
			if !el.Defined() {
				t.Fatalf("elements undefined: %+v", el)
			}

			checks := []struct {
				name      string
				got, want float64
				tol       float64
			}{
				{"a", el.SemiMajorAxis, tt.a, 1e-6},
				{"ecc", el.Eccentricity, tt.ecc, 1e-9},
				{"incl", el.Inclination, tt.incl * deg, 1e-9},
				{"raan", el.RAAN, tt.raan * deg, 1e-9},
				{"argp", el.ArgPerigee, tt.argp * deg, 1e-7},
				{"nu", el.TrueAnomaly, tt.nu * deg, 1e-7},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > c.tol {
					t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
				}
			}
		})
	}
}

func TestClassicalDegenerate(t *testing.T) {
	r := r3.Vec{X: 7000}

	rectilinear := Classical(r, r3.Vec{X: 3}, MuWGS84)
	if rectilinear.Defined() || rectilinear.SemiMajorAxis != Undefined {
		t.Errorf("rectilinear orbit should be undefined: %+v", rectilinear)
	}

	// Circular equatorial: no node line, no perigee.
	vc := math.Sqrt(MuWGS84 / 7000)
	circ := Classical(r, r3.Vec{Y: vc}, MuWGS84)
	if circ.RAAN != Undefined || circ.ArgPerigee != Undefined {
		t.Errorf("circular equatorial orbit: raan %v argp %v", circ.RAAN, circ.ArgPerigee)
	}
	if circ.Defined() {
		t.Error("circular equatorial elements should not be fully defined")
	}
}

func TestTrueFromMean(t *testing.T) {
	for _, ecc := range []float64{0, 0.1, 0.5, 0.9} {
		for _, nuDeg := range []float64{0, 30, 179, 250, 359} {
			nu := nuDeg * deg
			_, m := AnomaliesFromTrue(ecc, nu)
			got := TrueFromMean(ecc, m)
			diff := math.Abs(math.Remainder(got-nu, 2*math.Pi))
			if diff > 1e-9 {
				t.Errorf("ecc %v nu %v: TrueFromMean(%v) = %v", ecc, nuDeg, m, got/deg)
			}
		}
	}
}

func TestAnomaliesFromTrueHyperbolic(t *testing.T) {
	e0, m := AnomaliesFromTrue(1.5, 0.3)
	if e0 == Infinite || m == Infinite || m <= 0 {
		t.Errorf("hyperbolic anomalies = %v %v", e0, m)
	}
	// Beyond the asymptote there is no solution.
	if _, m := AnomaliesFromTrue(1.5, 3); m != Infinite {
		t.Errorf("asymptote mean anomaly = %v", m)
	}
}
