package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when a vector is divided by a zero scalar.
	ErrDivisionByZero = errors.New("vector division by zero")

	// ErrDegenerateVector is returned when an operation needs a direction
	// but the vector has zero length.
	ErrDegenerateVector = errors.New("degenerate zero-length vector")
)

// Vector is an immutable 2D direction or position in planar map units.
// The zero value is the origin.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewVector creates a vector from its components.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Neg returns the componentwise negation.
func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

// Scale multiplies both components by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{v.X * k, v.Y * k}
}

// Div scales the vector by 1/k.
func (v Vector) Div(k float64) (Vector, error) {
	if k == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return v.Scale(1.0 / k), nil
}

// Add returns the componentwise sum.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return v.Add(o.Neg())
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the Euclidean norm.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vector) Perp() Vector {
	return Vector{-v.Y, v.X}
}

// Angle returns the direction of v relative to the x-axis in radians,
// normalised to [0, 2π).
func (v Vector) Angle() float64 {
	ang := math.Atan2(v.Y, v.X)
	if ang < 0 {
		ang += 2 * math.Pi
	}
	return ang
}

// AngleTo returns the signed angle from v to o in radians.
// The result is not normalised.
func (v Vector) AngleTo(o Vector) float64 {
	return o.Angle() - v.Angle()
}

// RotateBy rotates v about the origin by rad radians, preserving its length.
func (v Vector) RotateBy(rad float64) Vector {
	ang := math.Atan2(v.Y, v.X) + rad
	l := v.Length()
	return Vector{l * math.Cos(ang), l * math.Sin(ang)}
}

// Normalize returns the unit vector pointing the same way as v.
func (v Vector) Normalize() (Vector, error) {
	l := v.Length()
	if l == 0 {
		return Vector{}, ErrDegenerateVector
	}
	return v.Scale(1.0 / l), nil
}

// Project returns the projection of v onto the direction of on.
func (v Vector) Project(on Vector) (Vector, error) {
	d := on.Dot(on)
	if d == 0 {
		return Vector{}, ErrDegenerateVector
	}
	return on.Scale(v.Dot(on) / d), nil
}

// Equal reports whether both components match exactly.
func (v Vector) Equal(o Vector) bool {
	return v.X == o.X && v.Y == o.Y
}

// ApproxEqual reports whether both components differ by at most eps.
func (v Vector) ApproxEqual(o Vector, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}
