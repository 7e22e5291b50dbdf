package field

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

func sampleAll(t *testing.T, g Grid, pos []ms3.Vec) []float32 {
	t.Helper()
	dst := make([]float32, len(pos))
	err := g.Accessor().Sample(pos, dst)
	if err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestShapes(t *testing.T) {
	s, err := NewSphere(1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBox(2, 4, 6, 0)
	if err != nil {
		t.Fatal(err)
	}
	tor, err := NewTorus(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		g    Shape
		pos  []ms3.Vec
		want []float32
	}{
		{name: "sphere", g: s, pos: []ms3.Vec{{}, {X: 2}}, want: []float32{-1, 1}},
		{name: "box", g: b, pos: []ms3.Vec{{}, {X: 3}, {Y: 2}, {Z: -4}}, want: []float32{-1, 2, 0, 1}},
		{name: "torus", g: tor, pos: []ms3.Vec{{X: 2}, {Y: -3}, {}, {X: 2, Z: 2}}, want: []float32{-1, 0, 1, 1}},
		{name: "translate", g: Translate(s, ms3.Vec{X: 5}), pos: []ms3.Vec{{X: 5}, {X: 7}}, want: []float32{-1, 1}},
		{name: "union", g: Union(s, Translate(s, ms3.Vec{X: 3})), pos: []ms3.Vec{{}, {X: 3}, {X: 1.5}}, want: []float32{-1, -1, 0.5}},
		{name: "difference", g: Difference(b, s), pos: []ms3.Vec{{}, {Z: 2}}, want: []float32{1, -1}},
	} {
		got := sampleAll(t, test.g, test.pos)
		for i := range test.want {
			if math32.Abs(got[i]-test.want[i]) > 1e-6 {
				t.Errorf("%s: sample at %v got %g, want %g", test.name, test.pos[i], got[i], test.want[i])
			}
		}
	}
}

func TestShapeBounds(t *testing.T) {
	s, _ := NewSphere(1)
	u := Union(s, Translate(s, ms3.Vec{X: 3}))
	bb := u.Bounds()
	if bb.Min != (ms3.Vec{X: -1, Y: -1, Z: -1}) || bb.Max != (ms3.Vec{X: 4, Y: 1, Z: 1}) {
		t.Errorf("union bounds %v", bb)
	}
	tor, _ := NewTorus(3, 1)
	if tb := tor.Bounds(); tb.Max != (ms3.Vec{X: 3, Y: 3, Z: 1}) {
		t.Errorf("torus bounds %v", tb)
	}
}

func TestShapeInvalid(t *testing.T) {
	if _, err := NewSphere(0); err == nil {
		t.Error("expected error for zero radius sphere")
	}
	if _, err := NewBox(1, 1, 1, 0.6); err == nil {
		t.Error("expected error for excessive box rounding")
	}
	if _, err := NewBox(1, -1, 1, 0); err == nil {
		t.Error("expected error for negative box size")
	}
	if _, err := NewTorus(1, 1); err == nil {
		t.Error("expected error for torus ring too large")
	}
}

func TestShapeLengthMismatch(t *testing.T) {
	s, _ := NewSphere(1)
	u := Union(s, s)
	err := u.Accessor().Sample(make([]ms3.Vec, 2), make([]float32, 3))
	if err != ErrLengthMismatch {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}
