// pkg/physics/vector.go
package physics

import (
	"errors"
	"math"
)

// ErrZeroDivision is returned by Div when the scalar is exactly zero.
// It indicates a precondition violation upstream (a zero-mass body);
// legitimate physical inputs never produce it.
var ErrZeroDivision = errors.New("physics: vector division by zero scalar")

// Vector2D represents a 2D vector with x and y components.
// Mutating operations modify the receiver in place and return it,
// so updates can be chained: v.Add(a).Scale(dt).Limit(max).
type Vector2D struct {
	X float64
	Y float64
}

// NewVector2D creates a vector with the given components.
func NewVector2D(x, y float64) *Vector2D {
	return &Vector2D{X: x, Y: y}
}

// FromAngle creates a vector from an angle (radians) and magnitude.
func FromAngle(angle, magnitude float64) *Vector2D {
	return &Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Set overwrites both components and returns the receiver.
func (v *Vector2D) Set(x, y float64) *Vector2D {
	v.X = x
	v.Y = y
	return v
}

// Add adds other to the receiver.
func (v *Vector2D) Add(other Vector2D) *Vector2D {
	v.X += other.X
	v.Y += other.Y
	return v
}

// Sub subtracts other from the receiver.
func (v *Vector2D) Sub(other Vector2D) *Vector2D {
	v.X -= other.X
	v.Y -= other.Y
	return v
}

// Scale multiplies the receiver by a scalar value.
func (v *Vector2D) Scale(factor float64) *Vector2D {
	v.X *= factor
	v.Y *= factor
	return v
}

// Div divides the receiver by a scalar value. A zero scalar returns
// ErrZeroDivision and leaves the receiver unchanged.
func (v *Vector2D) Div(scalar float64) (*Vector2D, error) {
	if scalar == 0 {
		return v, ErrZeroDivision
	}
	v.X /= scalar
	v.Y /= scalar
	return v, nil
}

// Normalize rescales the receiver to unit length. The zero vector is
// left unchanged rather than failing.
func (v *Vector2D) Normalize() *Vector2D {
	length := v.Length()
	if length == 0 {
		return v
	}
	v.X /= length
	v.Y /= length
	return v
}

// Limit clamps the receiver's magnitude to max. Vectors already within
// the bound are untouched; the comparison uses the squared magnitude to
// avoid a square root in the common case.
func (v *Vector2D) Limit(max float64) *Vector2D {
	lenSq := v.LengthSquared()
	if lenSq <= max*max {
		return v
	}
	scale := max / math.Sqrt(lenSq)
	v.X *= scale
	v.Y *= scale
	return v
}

// Clone returns an independent copy of the vector.
func (v *Vector2D) Clone() *Vector2D {
	return &Vector2D{X: v.X, Y: v.Y}
}

// Length returns the magnitude of the vector.
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons).
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Dot returns the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Distance returns the distance between two vectors.
func (v Vector2D) Distance(other Vector2D) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared returns the squared distance between two vectors.
func (v Vector2D) DistanceSquared(other Vector2D) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// Angle returns the angle of the vector in radians.
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Perp returns the vector rotated 90 degrees counterclockwise,
// used as the contact tangent during friction resolution.
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}
