package field

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

// Shape is a signed distance field with known bounds, negative inside.
// Shapes are stateless primitives or combinations of other shapes and can be
// meshed directly with the renderer.
type Shape interface {
	Grid
	Bounder
}

// NewSphere returns a sphere of radius r centered at the origin.
func NewSphere(r float32) (Shape, error) {
	if r <= 0 {
		return nil, errors.New("zero or negative sphere radius")
	}
	return &sphere{r: r}, nil
}

type sphere struct {
	r float32
}

func (s *sphere) Accessor() Sampler { return s }

func (s *sphere) Bounds() ms3.Box {
	return ms3.Box{Min: ms3.Vec{X: -s.r, Y: -s.r, Z: -s.r}, Max: ms3.Vec{X: s.r, Y: s.r, Z: s.r}}
}

func (s *sphere) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	r := s.r
	for i, p := range pos {
		dst[i] = ms3.Norm(p) - r
	}
	return nil
}

// NewBox returns an axis aligned box of size x,y,z centered at the origin with
// edges rounded by round.
func NewBox(x, y, z, round float32) (Shape, error) {
	if round < 0 || round > x/2 || round > y/2 || round > z/2 {
		return nil, errors.New("invalid box rounding value")
	} else if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.New("zero or negative box dimension")
	}
	return &box{half: ms3.Vec{X: x / 2, Y: y / 2, Z: z / 2}, round: round}, nil
}

type box struct {
	half  ms3.Vec
	round float32
}

func (b *box) Accessor() Sampler { return b }

func (b *box) Bounds() ms3.Box {
	return ms3.Box{Min: ms3.Scale(-1, b.half), Max: b.half}
}

func (b *box) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	d := b.half
	r := b.round
	for i, p := range pos {
		q := ms3.Add(d3.Elem(r), ms3.Sub(d3.AbsElem(p), d))
		dst[i] = ms3.Norm(d3.MaxElem(q, ms3.Vec{})) + math32.Min(math32.Max(q.X, math32.Max(q.Y, q.Z)), 0) - r
	}
	return nil
}

// NewTorus returns a torus lying on the XY plane centered at the origin.
// greaterRadius is the outer radius and ringRadius the radius of the tube.
func NewTorus(greaterRadius, ringRadius float32) (Shape, error) {
	if greaterRadius <= 0 || ringRadius <= 0 {
		return nil, errors.New("invalid torus parameter")
	} else if greaterRadius < 2*ringRadius {
		return nil, errors.New("too large torus ring radius")
	}
	return &torus{rGreater: greaterRadius, rRing: ringRadius}, nil
}

type torus struct {
	rGreater, rRing float32
}

func (t *torus) Accessor() Sampler { return t }

func (t *torus) Bounds() ms3.Box {
	R := t.rGreater
	return ms3.Box{Min: ms3.Vec{X: -R, Y: -R, Z: -t.rRing}, Max: ms3.Vec{X: R, Y: R, Z: t.rRing}}
}

func (t *torus) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	t1 := t.rGreater - t.rRing
	t2 := t.rRing
	for i, p := range pos {
		q1 := math32.Hypot(p.X, p.Y) - t1
		dst[i] = math32.Hypot(q1, p.Z) - t2
	}
	return nil
}

// Translate returns s moved by displacement.
func Translate(s Shape, displacement ms3.Vec) Shape {
	return &translate{s: s, p: displacement}
}

type translate struct {
	s Shape
	p ms3.Vec
}

func (t *translate) Bounds() ms3.Box {
	bb := t.s.Bounds()
	return ms3.Box{Min: ms3.Add(bb.Min, t.p), Max: ms3.Add(bb.Max, t.p)}
}

func (t *translate) Accessor() Sampler {
	return &translateAccessor{s: t.s.Accessor(), p: t.p}
}

type translateAccessor struct {
	s       Sampler
	p       ms3.Vec
	scratch []ms3.Vec
}

func (t *translateAccessor) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	t.scratch = append(t.scratch[:0], pos...)
	for i := range t.scratch {
		t.scratch[i] = ms3.Sub(t.scratch[i], t.p)
	}
	return t.s.Sample(t.scratch, dst)
}

// Union returns the union of a and b.
func Union(a, b Shape) Shape {
	return &binaryOp{a: a, b: b, op: math32.Min, bounds: boxUnion}
}

// Difference returns a with b removed from it.
func Difference(a, b Shape) Shape {
	return &binaryOp{
		a:      a,
		b:      b,
		op:     func(da, db float32) float32 { return math32.Max(da, -db) },
		bounds: func(ba, _ ms3.Box) ms3.Box { return ba },
	}
}

type binaryOp struct {
	a, b   Shape
	op     func(da, db float32) float32
	bounds func(ba, bb ms3.Box) ms3.Box
}

func (u *binaryOp) Bounds() ms3.Box { return u.bounds(u.a.Bounds(), u.b.Bounds()) }

// Accessor returns a Sampler owning accessors of both operands and a scratch buffer.
func (u *binaryOp) Accessor() Sampler {
	return &binaryAccessor{a: u.a.Accessor(), b: u.b.Accessor(), op: u.op}
}

type binaryAccessor struct {
	a, b    Sampler
	op      func(da, db float32) float32
	scratch []float32
}

func (u *binaryAccessor) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	if cap(u.scratch) < len(dst) {
		u.scratch = make([]float32, len(dst))
	}
	d2 := u.scratch[:len(dst)]
	err := u.a.Sample(pos, dst)
	if err != nil {
		return err
	}
	err = u.b.Sample(pos, d2)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = u.op(dst[i], d2[i])
	}
	return nil
}

func boxUnion(a, b ms3.Box) ms3.Box {
	return ms3.Box{
		Min: d3.MinElem(a.Min, b.Min),
		Max: d3.MaxElem(a.Max, b.Max),
	}
}
