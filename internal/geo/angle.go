package geo

import (
	"math"
)

const (
	hemisphereNorth = "N"
	hemisphereSouth = "S"
	hemisphereEast  = "E"
	hemisphereWest  = "W"
)

// Angle is a signed decimal-degree value decomposed into degrees, minutes and
// seconds at construction. The decomposition is never recomputed; an Angle is
// only rendered.
type Angle struct {
	sign        string
	value       float64
	degrees     float64
	fracDegrees float64
	minutes     float64
	fracMinutes float64
	seconds     float64
	fracSeconds float64

	// letters emitted by %n and %e, empty means N/S
	positive string
	negative string
}

// NewAngle decomposes deg. The magnitude is reduced modulo 360 and the sign
// is carried separately, so NewAngle(370) and NewAngle(10) render the same.
func NewAngle(deg float64) Angle {
	a := Angle{}

	mag := math.Mod(math.Abs(deg), 360.0)
	a.value = mag
	if deg < 0 {
		a.sign = "-"
		a.value = -mag
	}

	a.degrees, a.fracDegrees = math.Modf(mag)
	a.minutes, a.fracMinutes = math.Modf(a.fracDegrees * 60.0)
	a.seconds, a.fracSeconds = math.Modf(a.fracMinutes * 60.0)

	return a
}

// NewLatitude returns an Angle whose hemisphere letters are N and S.
func NewLatitude(deg float64) Angle {
	return NewAngle(deg).WithHemispheres(hemisphereNorth, hemisphereSouth)
}

// NewLongitude returns an Angle whose hemisphere letters are E and W.
func NewLongitude(deg float64) Angle {
	return NewAngle(deg).WithHemispheres(hemisphereEast, hemisphereWest)
}

// WithHemispheres returns a copy of a that renders pos for %n on a
// non-negative angle and neg for %e on a negative one.
func (a Angle) WithHemispheres(pos, neg string) Angle {
	a.positive = pos
	a.negative = neg
	return a
}

// Sign is "-" for negative input and empty otherwise.
func (a Angle) Sign() string { return a.sign }

// Value returns the signed angle after the modulo 360 reduction.
func (a Angle) Value() float64 { return a.value }

// Negative reports whether the input was below zero.
func (a Angle) Negative() bool { return a.sign != "" }

func (a Angle) Degrees() int { return int(a.degrees) }

func (a Angle) FractionalDegrees() float64 { return a.fracDegrees }

func (a Angle) Minutes() int { return int(a.minutes) }

func (a Angle) FractionalMinutes() float64 { return a.fracMinutes }

func (a Angle) Seconds() int { return int(a.seconds) }

func (a Angle) FractionalSeconds() float64 { return a.fracSeconds }

// Hemisphere returns the letter for the side of zero the angle lies on.
func (a Angle) Hemisphere() string {
	if a.Negative() {
		return a.negativeLetter()
	}
	return a.positiveLetter()
}

func (a Angle) positiveLetter() string {
	if a.positive == "" {
		return hemisphereNorth
	}
	return a.positive
}

func (a Angle) negativeLetter() string {
	if a.negative == "" {
		return hemisphereSouth
	}
	return a.negative
}

// String renders the angle as signed degrees, minutes and seconds.
func (a Angle) String() string {
	return defaultFormat.Render(a)
}
