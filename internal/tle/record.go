// Package tle encodes and decodes Two-Line Element sets. It owns the
// fixed-column layout, the alpha5 catalog number extension, the headless
// exponential notation used by the drag columns, the checksum, and the
// two-digit epoch.
//
// Records are plain values owned by the caller. Nothing in this package
// locks; share a *Record across goroutines only with external
// synchronisation.
package tle

import (
	"math"
	"time"
)

// Variant tags which line-1 layout a record uses.
type Variant int

const (
	// Drag is the classic element set (ephemeris type 0 or 2) carrying
	// mean motion derivatives and B*.
	Drag Variant = iota
	// BallisticArea is ephemeris type 4 carrying AGOM and a ballistic term.
	BallisticArea
)

func (v Variant) String() string {
	switch v {
	case Drag:
		return "drag"
	case BallisticArea:
		return "ballistic-area"
	default:
		return "unknown"
	}
}

// variantOf picks the variant from the ephemeris type column.
func variantOf(ephemerisType byte) Variant {
	if ephemerisType == '4' {
		return BallisticArea
	}
	return Drag
}

// State distinguishes a record carrying only defaults from one with data.
type State int

const (
	Uninitialized State = iota
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "uninitialized"
}

// DragTerms are the line-1 perturbation terms of the Drag variant.
type DragTerms struct {
	MeanMotionDot  float64 // rev/day^2, first derivative / 2
	MeanMotionDDot float64 // rev/day^3, second derivative / 6
	BStar          float64 // 1/earth radii
}

// BallisticTerms are the line-1 perturbation terms of the BallisticArea
// variant.
type BallisticTerms struct {
	AGOM  float64 // area over mass, m^2/kg
	BTerm float64 // ballistic coefficient
}

// Terms is the variant-specific perturbation block. It is implemented by
// DragTerms and BallisticTerms only.
type Terms interface {
	Variant() Variant
}

func (DragTerms) Variant() Variant      { return Drag }
func (BallisticTerms) Variant() Variant { return BallisticArea }

// Record is a decoded element set. Variant selects which of Drag or
// Ballistic is meaningful; the other block is ignored when rendering.
type Record struct {
	Variant Variant

	SatNo          int
	Classification byte
	Designator     string
	LaunchYear     int
	LaunchNumber   int
	LaunchPiece    string
	Epoch          time.Time
	EphemerisType  int
	ElementSetNo   int

	Drag      DragTerms
	Ballistic BallisticTerms

	Inclination  float64 // degrees
	RAAN         float64 // degrees
	Eccentricity float64
	ArgPerigee   float64 // degrees
	MeanAnomaly  float64 // degrees
	MeanMotion   float64 // rev/day
	RevNumber    int

	err       error
	populated bool
	apsides   apsides
}

// NewRecord returns an Uninitialized record of the given variant with every
// schema default applied.
func NewRecord(v Variant) *Record {
	r := &Record{Variant: v}
	r.applyDefaults()
	return r
}

// Err returns the first field conversion failure recorded while parsing,
// or nil.
func (r *Record) Err() error { return r.err }

// Valid reports whether parsing recorded no field errors.
func (r *Record) Valid() bool { return r.err == nil }

// State reports Populated once the record has been parsed, built from
// elements, or assigned any field that differs from its defaults.
func (r *Record) State() State {
	if r.populated {
		return Populated
	}
	cur := *r
	cur.err, cur.apsides = nil, apsides{}
	if cur != *NewRecord(r.Variant) {
		return Populated
	}
	return Uninitialized
}

// Terms returns the perturbation block selected by the variant.
func (r *Record) Terms() Terms {
	if r.Variant == BallisticArea {
		return r.Ballistic
	}
	return r.Drag
}

// SetTerms stores t and switches the record to t's variant.
func (r *Record) SetTerms(t Terms) {
	switch t := t.(type) {
	case DragTerms:
		r.Variant = Drag
		r.Drag = t
		if r.EphemerisType == 4 {
			r.EphemerisType = 0
		}
	case BallisticTerms:
		r.Variant = BallisticArea
		r.Ballistic = t
		r.EphemerisType = 4
	}
}

// Clone returns an independent copy, including any recorded error.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Earth radius and the mean-motion constant used for apsis heights; they
// match the values Space-Track uses to publish apogee and perigee.
const (
	earthRadiusKm = 6378.135
	apsisConstant = 8681663.653
)

type apsides struct {
	n, e            float64
	apogee, perigee float64
	ok              bool
}

func (r *Record) computeApsides() apsides {
	if r.apsides.ok && r.apsides.n == r.MeanMotion && r.apsides.e == r.Eccentricity {
		return r.apsides
	}
	a := r.SemiMajorAxis()
	r.apsides = apsides{
		n:       r.MeanMotion,
		e:       r.Eccentricity,
		apogee:  a*(1+r.Eccentricity) - earthRadiusKm,
		perigee: a*(1-r.Eccentricity) - earthRadiusKm,
		ok:      true,
	}
	return r.apsides
}

// SemiMajorAxis derives the semi-major axis in km from the mean motion.
func (r *Record) SemiMajorAxis() float64 {
	return math.Pow(apsisConstant/r.MeanMotion, 2.0/3.0)
}

// Apogee is the apogee height above the equatorial radius in km. The value
// is cached until MeanMotion or Eccentricity change.
func (r *Record) Apogee() float64 { return r.computeApsides().apogee }

// Perigee is the perigee height above the equatorial radius in km.
func (r *Record) Perigee() float64 { return r.computeApsides().perigee }
