package field

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is a float64 signed distance function, negative inside the solid.
type SDF3 interface {
	Evaluate(p r3.Vec) float64
	Bounds() r3.Box
}

// FromSDF3 returns a Grid sampling the signed distance of s. s must be safe
// for concurrent use.
//
// The renderer clamps samples to [0, isolevel] so the extracted surface lies
// on the isolevel offset of the solid, not on its boundary.
func FromSDF3(s SDF3) Grid {
	return sdf3Grid{s: s}
}

type sdf3Grid struct {
	s SDF3
}

func (g sdf3Grid) Accessor() Sampler { return g }

func (g sdf3Grid) Bounds() ms3.Box { return d3.FromR3Box(g.s.Bounds()) }

func (g sdf3Grid) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	for i := range pos {
		if d3.HasNaN(pos[i]) {
			return ErrBadPosition
		}
		dst[i] = float32(g.s.Evaluate(d3.ToR3(pos[i])))
	}
	return nil
}

// FromSDFX returns a Grid sampling a github.com/deadsy/sdfx solid.
func FromSDFX(s sdf.SDF3) Grid {
	return sdfxGrid{s: s}
}

type sdfxGrid struct {
	s sdf.SDF3
}

func (g sdfxGrid) Accessor() Sampler { return g }

func (g sdfxGrid) Bounds() ms3.Box {
	bb := g.s.BoundingBox()
	return ms3.Box{
		Min: ms3.Vec{X: float32(bb.Min.X), Y: float32(bb.Min.Y), Z: float32(bb.Min.Z)},
		Max: ms3.Vec{X: float32(bb.Max.X), Y: float32(bb.Max.Y), Z: float32(bb.Max.Z)},
	}
}

func (g sdfxGrid) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	for i, p := range pos {
		if d3.HasNaN(p) {
			return ErrBadPosition
		}
		dst[i] = float32(g.s.Evaluate(v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}))
	}
	return nil
}
