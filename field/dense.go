package field

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

// Dense is a scalar field stored as a regular 3D lattice of node values.
// Values between nodes are trilinearly interpolated. Positions outside the
// lattice sample as Background.
//
// A Dense must not be modified while it is being sampled.
type Dense struct {
	Origin     ms3.Vec // world position of node (0,0,0)
	Spacing    ms3.Vec // distance between adjacent nodes along each axis
	Background float32 // value returned outside of the lattice
	dims       [3]int
	values     []float32
}

var (
	_ Grid    = (*Dense)(nil)
	_ Bounder = (*Dense)(nil)
)

// NewDense allocates a lattice of dims nodes. Every axis must have at least 2 nodes.
func NewDense(dims [3]int, origin, spacing ms3.Vec) (*Dense, error) {
	if dims[0] < 2 || dims[1] < 2 || dims[2] < 2 {
		return nil, fmt.Errorf("dense grid needs at least 2 nodes per axis, got %v", dims)
	} else if d3.LTEZero(spacing) {
		return nil, errors.New("dense grid spacing must be positive")
	}
	return &Dense{
		Origin:  origin,
		Spacing: spacing,
		dims:    dims,
		values:  make([]float32, dims[0]*dims[1]*dims[2]),
	}, nil
}

// Dims returns the amount of nodes along each axis.
func (d *Dense) Dims() [3]int { return d.dims }

func (d *Dense) index(i, j, k int) int {
	return i + d.dims[0]*(j+d.dims[1]*k)
}

// At returns the value stored at node (i,j,k).
func (d *Dense) At(i, j, k int) float32 { return d.values[d.index(i, j, k)] }

// Set sets the value of node (i,j,k).
func (d *Dense) Set(i, j, k int, v float32) { d.values[d.index(i, j, k)] = v }

// NodePos returns the world position of node (i,j,k).
func (d *Dense) NodePos(i, j, k int) ms3.Vec {
	return ms3.Add(d.Origin, ms3.MulElem(d.Spacing, ms3.Vec{X: float32(i), Y: float32(j), Z: float32(k)}))
}

// Fill sets every node to f evaluated at the node's world position.
func (d *Dense) Fill(f func(pos ms3.Vec) float32) {
	for k := 0; k < d.dims[2]; k++ {
		for j := 0; j < d.dims[1]; j++ {
			for i := 0; i < d.dims[0]; i++ {
				d.Set(i, j, k, f(d.NodePos(i, j, k)))
			}
		}
	}
}

// Bounds returns the box spanned by the lattice nodes.
func (d *Dense) Bounds() ms3.Box {
	return ms3.Box{Min: d.Origin, Max: d.NodePos(d.dims[0]-1, d.dims[1]-1, d.dims[2]-1)}
}

// Accessor returns a Sampler which caches the lattice cell it last visited.
func (d *Dense) Accessor() Sampler {
	return &denseAccessor{g: d, cell: [3]int{-1, -1, -1}}
}

// denseAccessor keeps the 8 node values of the last sampled cell so that
// consecutive samples within one cell skip the lattice lookups.
type denseAccessor struct {
	g      *Dense
	cell   [3]int
	cached [8]float32
}

func (a *denseAccessor) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	for i, p := range pos {
		v, err := a.sample(p)
		if err != nil {
			return fmt.Errorf("sampling %v: %w", p, err)
		}
		dst[i] = v
	}
	return nil
}

func (a *denseAccessor) sample(p ms3.Vec) (float32, error) {
	g := a.g
	if d3.HasNaN(p) {
		return 0, ErrBadPosition
	}
	u := d3.DivElem(ms3.Sub(p, g.Origin), g.Spacing)
	nx, ny, nz := g.dims[0], g.dims[1], g.dims[2]
	if u.X < 0 || u.Y < 0 || u.Z < 0 ||
		u.X > float32(nx-1) || u.Y > float32(ny-1) || u.Z > float32(nz-1) {
		return g.Background, nil
	}
	i := min(int(math32.Floor(u.X)), nx-2)
	j := min(int(math32.Floor(u.Y)), ny-2)
	k := min(int(math32.Floor(u.Z)), nz-2)
	if a.cell != [3]int{i, j, k} {
		a.load(i, j, k)
	}
	fx := u.X - float32(i)
	fy := u.Y - float32(j)
	fz := u.Z - float32(k)
	c := &a.cached
	x00 := lerp(c[0], c[1], fx)
	x10 := lerp(c[3], c[2], fx)
	x01 := lerp(c[4], c[5], fx)
	x11 := lerp(c[7], c[6], fx)
	y0 := lerp(x00, x10, fy)
	y1 := lerp(x01, x11, fy)
	return lerp(y0, y1, fz), nil
}

// load caches the cell's node values using the marching cubes corner order.
func (a *denseAccessor) load(i, j, k int) {
	g := a.g
	a.cell = [3]int{i, j, k}
	a.cached = [8]float32{
		g.At(i, j, k), g.At(i+1, j, k), g.At(i+1, j+1, k), g.At(i, j+1, k),
		g.At(i, j, k+1), g.At(i+1, j, k+1), g.At(i+1, j+1, k+1), g.At(i, j+1, k+1),
	}
}

// lerp returns exactly a at t=0 and exactly b at t=1.
func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}
