package propagate

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/spatial/r3"
)

// GoSatellite propagates with github.com/joshuaferrara/go-satellite. The
// library takes whole seconds, so sub-second parts of the requested times
// are truncated.
type GoSatellite struct {
	Gravity Gravity
}

func (g GoSatellite) Propagate(line1, line2 string, times []time.Time) ([]State, error) {
	if err := checkLines(line1, line2); err != nil {
		return nil, err
	}
	// go-satellite exits the process on catalog numbers it cannot parse, so
	// alpha5 numbers are refused up front.
	for _, c := range line1[2:7] + line2[2:7] {
		if c != ' ' && (c < '0' || c > '9') {
			return nil, fmt.Errorf("alpha5 catalog number %q: %w", line1[2:7], ErrUnsupported)
		}
	}

	grav := satellite.GravityWGS72
	if g.Gravity == WGS84 {
		grav = satellite.GravityWGS84
	}
	sat := satellite.TLEToSat(line1, line2, grav)
	if sat.Error != 0 {
		return nil, fmt.Errorf("go-satellite init: code=%d %s: %w", sat.Error, sat.ErrorStr, ErrPropagation)
	}

	out := make([]State, 0, len(times))
	for _, ts := range times {
		u := ts.UTC()
		pos, vel := satellite.Propagate(sat, u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute(), u.Second())
		st := State{
			Time:     ts,
			Position: r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z},
			Velocity: r3.Vec{X: vel.X, Y: vel.Y, Z: vel.Z},
		}
		if !finite(st.Position) || !finite(st.Velocity) {
			return nil, fmt.Errorf("go-satellite at %s: non-finite state: %w", ts.Format(time.RFC3339), ErrPropagation)
		}
		out = append(out, st)
	}
	return out, nil
}

func finite(v r3.Vec) bool {
	for _, x := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
