// Package orbit converts between Cartesian state vectors and classical
// orbital elements. Angles are radians, distances km, velocities km/s.
package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Gravitational parameters in km^3/s^2.
const (
	MuWGS72 = 398600.8
	MuWGS84 = 398600.5
)

// Sentinels returned for elements that are undefined for the orbit type
// (argument of perigee of a circular orbit, RAAN of an equatorial one) or
// infinite (semi-major axis of a parabola).
const (
	Undefined = 999999.1
	Infinite  = 999999.9

	// sentinelFloor is the threshold above which a value is a sentinel.
	sentinelFloor = 999999.0
)

const (
	twoPi  = 2 * math.Pi
	halfPi = math.Pi / 2
	small  = 1e-10
)

// Elements is the full classical element set produced from a state vector.
type Elements struct {
	SemiLatusRectum float64 // km
	SemiMajorAxis   float64 // km
	Eccentricity    float64
	Inclination     float64
	RAAN            float64
	ArgPerigee      float64
	TrueAnomaly     float64
	MeanAnomaly     float64
	ArgLatitude     float64 // circular inclined orbits only
	TrueLongitude   float64 // circular equatorial orbits only
	LongPerigee     float64 // elliptical equatorial orbits only
}

// Defined reports whether every element needed to build an element set is
// free of sentinel values.
func (e Elements) Defined() bool {
	for _, v := range []float64{
		e.SemiLatusRectum, e.SemiMajorAxis, e.Eccentricity, e.Inclination,
		e.RAAN, e.ArgPerigee, e.TrueAnomaly, e.MeanAnomaly,
	} {
		if v > sentinelFloor || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// RevsPerDay converts a semi-major axis to mean motion in revolutions per
// day.
func RevsPerDay(a, mu float64) float64 {
	n := math.Sqrt(mu / (a * a * a)) // rad/s
	return n * 86400 / twoPi
}

// Converter computes classical elements from a position and velocity.
type Converter struct{}

// ClassicalFromStateVector implements the element converter used by
// tle.FromStateVector.
func (Converter) ClassicalFromStateVector(r, v r3.Vec, mu float64) Elements {
	return Classical(r, v, mu)
}

// Classical derives classical elements from a state vector following
// Vallado's rv2coe. Elements that are undefined for the detected orbit type
// are set to Undefined.
func Classical(r, v r3.Vec, mu float64) Elements {
	magr := r3.Norm(r)
	magv := r3.Norm(v)
	h := r3.Cross(r, v)
	magh := r3.Norm(h)

	if magh <= small {
		return Elements{
			SemiLatusRectum: Undefined, SemiMajorAxis: Undefined, Eccentricity: Undefined,
			Inclination: Undefined, RAAN: Undefined, ArgPerigee: Undefined,
			TrueAnomaly: Undefined, MeanAnomaly: Undefined, ArgLatitude: Undefined,
			TrueLongitude: Undefined, LongPerigee: Undefined,
		}
	}

	var el Elements
	n := r3.Vec{X: -h.Y, Y: h.X}
	magn := r3.Norm(n)
	c1 := magv*magv - mu/magr
	rdotv := r3.Dot(r, v)
	ebar := r3.Scale(1/mu, r3.Sub(r3.Scale(c1, r), r3.Scale(rdotv, v)))
	el.Eccentricity = r3.Norm(ebar)

	sme := magv*magv*0.5 - mu/magr
	if math.Abs(sme) > small {
		el.SemiMajorAxis = -mu / (2 * sme)
	} else {
		el.SemiMajorAxis = Infinite
	}
	el.SemiLatusRectum = magh * magh / mu
	el.Inclination = math.Acos(clamp(h.Z / magh))

	// Orbit type: elliptical/circular, inclined/equatorial.
	equatorial := el.Inclination < small || math.Abs(el.Inclination-math.Pi) < small
	elliptical := el.Eccentricity >= small
	circInclined := !elliptical && !equatorial
	circEquatorial := !elliptical && equatorial
	ellInclined := elliptical && !equatorial
	ellEquatorial := elliptical && equatorial

	if magn > small {
		el.RAAN = math.Acos(clamp(n.X / magn))
		if n.Y < 0 {
			el.RAAN = twoPi - el.RAAN
		}
	} else {
		el.RAAN = Undefined
	}

	el.ArgPerigee = Undefined
	if ellInclined {
		el.ArgPerigee = angle(n, ebar)
		if ebar.Z < 0 {
			el.ArgPerigee = twoPi - el.ArgPerigee
		}
	}

	el.TrueAnomaly = Undefined
	if elliptical {
		el.TrueAnomaly = angle(ebar, r)
		if rdotv < 0 {
			el.TrueAnomaly = twoPi - el.TrueAnomaly
		}
	}

	el.MeanAnomaly = Undefined
	el.ArgLatitude = Undefined
	if circInclined {
		el.ArgLatitude = angle(n, r)
		if r.Z < 0 {
			el.ArgLatitude = twoPi - el.ArgLatitude
		}
		el.MeanAnomaly = el.ArgLatitude
	}

	el.LongPerigee = Undefined
	if ellEquatorial {
		el.LongPerigee = math.Acos(clamp(ebar.X / el.Eccentricity))
		if ebar.Y < 0 {
			el.LongPerigee = twoPi - el.LongPerigee
		}
		if el.Inclination > halfPi {
			el.LongPerigee = twoPi - el.LongPerigee
		}
	}

	el.TrueLongitude = Undefined
	if magr > small && circEquatorial {
		el.TrueLongitude = math.Acos(clamp(r.X / magr))
		if r.Y < 0 {
			el.TrueLongitude = twoPi - el.TrueLongitude
		}
		if el.Inclination > halfPi {
			el.TrueLongitude = twoPi - el.TrueLongitude
		}
		el.MeanAnomaly = el.TrueLongitude
	}

	if elliptical {
		_, el.MeanAnomaly = AnomaliesFromTrue(el.Eccentricity, el.TrueAnomaly)
	}
	return el
}

// AnomaliesFromTrue returns the eccentric (or hyperbolic / parabolic)
// anomaly and the mean anomaly for a true anomaly nu. Cases with no
// solution return Infinite for both.
func AnomaliesFromTrue(ecc, nu float64) (e0, m float64) {
	const tiny = 1e-8
	e0, m = Infinite, Infinite

	switch {
	case math.Abs(ecc) < tiny:
		e0, m = nu, nu

	case ecc < 1-tiny:
		denom := 1 + ecc*math.Cos(nu)
		sine := math.Sqrt(1-ecc*ecc) * math.Sin(nu) / denom
		cose := (ecc + math.Cos(nu)) / denom
		e0 = math.Atan2(sine, cose)
		m = e0 - ecc*math.Sin(e0)

	case ecc > 1+tiny:
		if math.Abs(nu)+0.00001 < math.Pi-math.Acos(1/ecc) {
			sine := math.Sqrt(ecc*ecc-1) * math.Sin(nu) / (1 + ecc*math.Cos(nu))
			e0 = math.Asinh(sine)
			m = ecc*math.Sinh(e0) - e0
		}

	case math.Abs(nu) < 168*math.Pi/180:
		e0 = math.Tan(nu * 0.5)
		m = e0 + e0*e0*e0/3
	}

	if ecc < 1 {
		m = math.Mod(m, twoPi)
		if m < 0 {
			m += twoPi
		}
		e0 = math.Mod(e0, twoPi)
	}
	return e0, m
}

// angle is the angle between two vectors, or Undefined when either is
// (nearly) zero length.
func angle(a, b r3.Vec) float64 {
	const tiny = 1e-8
	den := r3.Norm(a) * r3.Norm(b)
	if den <= tiny*tiny {
		return Undefined
	}
	return math.Acos(clamp(r3.Dot(a, b) / den))
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// StateVector is the inverse of Classical for elliptical orbits: it
// returns position and velocity for a semi-major axis a, eccentricity ecc,
// and angles incl, raan, argp and true anomaly nu.
func StateVector(a, ecc, incl, raan, argp, nu, mu float64) (r, v r3.Vec) {
	p := a * (1 - ecc*ecc)
	cosNu, sinNu := math.Cos(nu), math.Sin(nu)
	rad := p / (1 + ecc*cosNu)
	k := math.Sqrt(mu / p)

	rPQW := r3.Vec{X: rad * cosNu, Y: rad * sinNu}
	vPQW := r3.Vec{X: -k * sinNu, Y: k * (ecc + cosNu)}

	return perifocalToInertial(rPQW, incl, raan, argp), perifocalToInertial(vPQW, incl, raan, argp)
}

func perifocalToInertial(p r3.Vec, incl, raan, argp float64) r3.Vec {
	cO, sO := math.Cos(raan), math.Sin(raan)
	ci, si := math.Cos(incl), math.Sin(incl)
	cw, sw := math.Cos(argp), math.Sin(argp)

	return r3.Vec{
		X: (cO*cw-sO*sw*ci)*p.X + (-cO*sw-sO*cw*ci)*p.Y,
		Y: (sO*cw+cO*sw*ci)*p.X + (-sO*sw+cO*cw*ci)*p.Y,
		Z: (sw*si)*p.X + (cw*si)*p.Y,
	}
}

// TrueFromMean solves Kepler's equation for an elliptical orbit and returns
// the true anomaly for mean anomaly m.
func TrueFromMean(ecc, m float64) float64 {
	m = math.Mod(m, twoPi)
	e := m
	if ecc > 0.8 {
		e = math.Pi
	}
	for range 50 {
		d := (e - ecc*math.Sin(e) - m) / (1 - ecc*math.Cos(e))
		e -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	nu := 2 * math.Atan2(math.Sqrt(1+ecc)*math.Sin(e/2), math.Sqrt(1-ecc)*math.Cos(e/2))
	if nu < 0 {
		nu += twoPi
	}
	return nu
}
