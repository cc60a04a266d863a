package propagate

import (
	"fmt"
	"math"
	"time"

	"github.com/large-farva/tlekit/internal/orbit"
	"github.com/large-farva/tlekit/internal/tle"
)

// Kepler is an unperturbed two-body propagator. It ignores drag and
// ballistic terms and treats the element set as osculating; it is exact
// for records built by tle.FromClassicalElements with the same Mu.
type Kepler struct {
	Mu float64 // km^3/s^2; zero selects orbit.MuWGS72
}

func (k Kepler) Propagate(line1, line2 string, times []time.Time) ([]State, error) {
	rec, err := tle.Parse(line1, line2, tle.Strict())
	if err != nil {
		return nil, err
	}
	return k.PropagateRecord(rec, times)
}

// PropagateRecord evaluates rec directly, skipping the text round trip.
func (k Kepler) PropagateRecord(rec *tle.Record, times []time.Time) ([]State, error) {
	mu := k.Mu
	if mu == 0 {
		mu = orbit.MuWGS72
	}
	if !(rec.MeanMotion > 0) {
		return nil, fmt.Errorf("mean motion %v: %w", rec.MeanMotion, ErrPropagation)
	}
	ecc := rec.Eccentricity
	if ecc < 0 || ecc >= 1 {
		return nil, fmt.Errorf("eccentricity %v: %w", ecc, ErrUnsupported)
	}

	const rad = math.Pi / 180
	n := rec.MeanMotion * 2 * math.Pi / 86400 // rad/s
	a := math.Cbrt(mu / (n * n))

	out := make([]State, 0, len(times))
	for _, ts := range times {
		dt := ts.Sub(rec.Epoch).Seconds()
		m := rec.MeanAnomaly*rad + n*dt
		nu := orbit.TrueFromMean(ecc, m)
		r, v := orbit.StateVector(a, ecc, rec.Inclination*rad, rec.RAAN*rad, rec.ArgPerigee*rad, nu, mu)
		out = append(out, State{Time: ts, Position: r, Velocity: v})
	}
	return out, nil
}
