package propagate

import (
	"fmt"
	"time"

	"github.com/akhenakh/sgp4"
	"gonum.org/v1/gonum/spatial/r3"
)

// SGP4 propagates with github.com/akhenakh/sgp4, which always uses the
// WGS72 constants.
type SGP4 struct{}

func (SGP4) Propagate(line1, line2 string, times []time.Time) ([]State, error) {
	if err := checkLines(line1, line2); err != nil {
		return nil, err
	}

	// The parser expects the three-line form with a name line.
	t, err := sgp4.ParseTLE("TLEKIT\n" + line1 + "\n" + line2)
	if err != nil {
		return nil, fmt.Errorf("sgp4 parse: %w", err)
	}

	epoch := t.EpochTime()
	out := make([]State, 0, len(times))
	for _, ts := range times {
		eci, err := t.FindPosition(ts.Sub(epoch).Minutes())
		if err != nil {
			return nil, fmt.Errorf("sgp4 at %s: %v: %w", ts.Format(time.RFC3339), err, ErrPropagation)
		}
		st := State{
			Time:     ts,
			Position: r3.Vec{X: eci.Position.X, Y: eci.Position.Y, Z: eci.Position.Z},
			Velocity: r3.Vec{X: eci.Velocity.X, Y: eci.Velocity.Y, Z: eci.Velocity.Z},
		}
		if !finite(st.Position) || !finite(st.Velocity) {
			return nil, fmt.Errorf("sgp4 at %s: non-finite state: %w", ts.Format(time.RFC3339), ErrPropagation)
		}
		out = append(out, st)
	}
	return out, nil
}
