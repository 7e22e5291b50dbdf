package d3

import (
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromR3Box converts a float64 box to float32.
func FromR3Box(b r3.Box) ms3.Box {
	return ms3.Box{Min: FromR3(b.Min), Max: FromR3(b.Max)}
}

// BoxSize returns the size of a box.
func BoxSize(b ms3.Box) ms3.Vec {
	return ms3.Sub(b.Max, b.Min)
}

// ScaleAboutCenter returns a new box scaled about the center of b.
func ScaleAboutCenter(b ms3.Box, k float32) ms3.Box {
	half := ms3.Scale(0.5*k, BoxSize(b))
	center := ms3.Add(b.Min, ms3.Scale(0.5, BoxSize(b)))
	return ms3.Box{Min: ms3.Sub(center, half), Max: ms3.Add(center, half)}
}
