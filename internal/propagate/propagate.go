// Package propagate turns rendered element sets into ephemerides. Each
// backend consumes the two text lines exactly as the codec emits them, so a
// propagation run also exercises the generated column layout.
package propagate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/large-farva/tlekit/internal/orbit"
)

var (
	// ErrPropagation reports a backend that could not produce a state.
	ErrPropagation = errors.New("propagation failed")

	// ErrUnsupported reports lines a backend cannot accept.
	ErrUnsupported = errors.New("element set not supported by backend")
)

// State is a position (km) and velocity (km/s) in the backend's inertial
// frame (TEME for the SGP4 backends).
type State struct {
	Time     time.Time `json:"time"`
	Position r3.Vec    `json:"position"`
	Velocity r3.Vec    `json:"velocity"`
}

// Propagator evaluates an element set at the given times.
type Propagator interface {
	Propagate(line1, line2 string, times []time.Time) ([]State, error)
}

// Gravity selects the Earth model constants.
type Gravity string

const (
	WGS72 Gravity = "wgs72"
	WGS84 Gravity = "wgs84"
)

// ParseGravity accepts wgs72 or wgs84 in any case.
func ParseGravity(s string) (Gravity, error) {
	switch g := Gravity(strings.ToLower(strings.TrimSpace(s))); g {
	case WGS72, WGS84:
		return g, nil
	}
	return "", fmt.Errorf("unknown gravity model %q", s)
}

// Mu is the model's gravitational parameter in km^3/s^2.
func (g Gravity) Mu() float64 {
	if g == WGS84 {
		return orbit.MuWGS84
	}
	return orbit.MuWGS72
}

// Backend names accepted by New.
const (
	BackendSGP4        = "sgp4"
	BackendGoSatellite = "go-satellite"
	BackendKepler      = "kepler"
)

// New returns the named backend configured for gravity model g.
func New(backend string, g Gravity) (Propagator, error) {
	switch strings.ToLower(backend) {
	case BackendSGP4:
		return SGP4{}, nil
	case BackendGoSatellite:
		return GoSatellite{Gravity: g}, nil
	case BackendKepler:
		return Kepler{Mu: g.Mu()}, nil
	}
	return nil, fmt.Errorf("unknown propagation backend %q", backend)
}

// Times returns start, start+step, ... up to and including start+span.
func Times(start time.Time, span, step time.Duration) []time.Time {
	if step <= 0 || span < 0 {
		return []time.Time{start}
	}
	n := int(span/step) + 1
	out := make([]time.Time, 0, n)
	for i := range n {
		out = append(out, start.Add(time.Duration(i)*step))
	}
	return out
}

// checkLines applies the structural checks every backend relies on.
func checkLines(line1, line2 string) error {
	if len(line1) != 69 || len(line2) != 69 {
		return fmt.Errorf("line lengths %d/%d, want 69: %w", len(line1), len(line2), ErrUnsupported)
	}
	if line1[0] != '1' || line2[0] != '2' {
		return fmt.Errorf("line numbers %q/%q: %w", line1[0], line2[0], ErrUnsupported)
	}
	return nil
}
