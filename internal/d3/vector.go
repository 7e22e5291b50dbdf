package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector helpers bridging the float64 r3 types used by SDF models and the
// float32 ms3 types used for meshing.

// Elem returns a vector with all components set to sides.
func Elem(sides float32) ms3.Vec {
	return ms3.Vec{X: sides, Y: sides, Z: sides}
}

// FromR3 converts a float64 vector to float32.
func FromR3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// ToR3 converts a float32 vector to float64.
func ToR3(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// EqualWithin returns true if all components of a and b differ by at most tol.
func EqualWithin(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol
}

// Less orders vectors lexicographically by X, then Y, then Z.
func Less(a, b ms3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// HasNaN returns true if any component of v is NaN.
func HasNaN(v ms3.Vec) bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

// LTEZero returns true if any vector components are <= 0.
func LTEZero(a ms3.Vec) bool {
	return (a.X <= 0) || (a.Y <= 0) || (a.Z <= 0)
}

// MinElem returns a vector with the minimum components of two vectors.
func MinElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

// MaxElem returns a vector with the maximum components of two vectors.
func MaxElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

// DivElem returns the element-wise division of a by b.
func DivElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X / b.X, Y: a.Y / b.Y, Z: a.Z / b.Z}
}

// AbsElem returns the absolute value of each component of a.
func AbsElem(a ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Abs(a.X), Y: math32.Abs(a.Y), Z: math32.Abs(a.Z)}
}
