package field

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

type r3Sphere struct{ r float64 }

func (s r3Sphere) Evaluate(p r3.Vec) float64 { return r3.Norm(p) - s.r }
func (s r3Sphere) Bounds() r3.Box {
	return r3.Box{Min: r3.Vec{X: -s.r, Y: -s.r, Z: -s.r}, Max: r3.Vec{X: s.r, Y: s.r, Z: s.r}}
}

func TestFromSDF3(t *testing.T) {
	g := FromSDF3(r3Sphere{r: 2})
	got := make([]float32, 3)
	err := g.Accessor().Sample([]ms3.Vec{{}, {X: 2}, {Z: 5}}, got)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{-2, 0, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %g, want %g", i, got[i], want[i])
		}
	}
	bb := g.(Bounder).Bounds()
	if bb.Min.X != -2 || bb.Max.Z != 2 {
		t.Errorf("unexpected bounds %v", bb)
	}
}

func TestFromSDFX(t *testing.T) {
	box, err := sdf.Box3D(v3.Vec{X: 2, Y: 2, Z: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	g := FromSDFX(box)
	got := make([]float32, 2)
	err = g.Accessor().Sample([]ms3.Vec{{}, {X: 3}}, got)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] >= 0 {
		t.Errorf("center of box should be inside, got distance %g", got[0])
	}
	if got[1] <= 0 {
		t.Errorf("point outside box should be positive, got %g", got[1])
	}
}

func TestFunc(t *testing.T) {
	f := Func(func(p ms3.Vec) float32 { return p.X + p.Y })
	got := make([]float32, 1)
	if err := f.Accessor().Sample([]ms3.Vec{{X: 1, Y: 2}}, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 3 {
		t.Errorf("got %g, want 3", got[0])
	}
	if err := Shared(f).Accessor().Sample(nil, got); err != ErrLengthMismatch {
		t.Errorf("want ErrLengthMismatch, got %v", err)
	}
}
