package d3

import (
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLess(t *testing.T) {
	for _, test := range []struct {
		a, b ms3.Vec
		want bool
	}{
		{ms3.Vec{X: 0}, ms3.Vec{X: 1}, true},
		{ms3.Vec{X: 1}, ms3.Vec{X: 0}, false},
		{ms3.Vec{X: 1, Y: 0}, ms3.Vec{X: 1, Y: 2}, true},
		{ms3.Vec{X: 1, Y: 2, Z: 3}, ms3.Vec{X: 1, Y: 2, Z: 3}, false},
		{ms3.Vec{X: 1, Y: 2, Z: 2}, ms3.Vec{X: 1, Y: 2, Z: 3}, true},
	} {
		got := Less(test.a, test.b)
		if got != test.want {
			t.Errorf("Less(%v, %v) = %v, want %v", test.a, test.b, got, test.want)
		}
	}
}

func TestR3Roundtrip(t *testing.T) {
	v := r3.Vec{X: 1.5, Y: -2.25, Z: 1e3}
	got := ToR3(FromR3(v))
	if got != v {
		t.Errorf("roundtrip got %v, want %v", got, v)
	}
}

func TestScaleAboutCenter(t *testing.T) {
	b := ms3.Box{Min: ms3.Vec{}, Max: Elem(2)}
	got := ScaleAboutCenter(b, 2)
	want := ms3.Box{Min: Elem(-1), Max: Elem(3)}
	if !EqualWithin(got.Min, want.Min, 1e-6) || !EqualWithin(got.Max, want.Max, 1e-6) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestElementwise(t *testing.T) {
	a := ms3.Vec{X: 3, Y: -1, Z: 0.5}
	b := ms3.Vec{X: 0.5, Y: 4, Z: -2}
	if got := DivElem(a, b); got != (ms3.Vec{X: 6, Y: -0.25, Z: -0.25}) {
		t.Errorf("DivElem got %v", got)
	}
	if got := AbsElem(a); got != (ms3.Vec{X: 3, Y: 1, Z: 0.5}) {
		t.Errorf("AbsElem got %v", got)
	}
	if got := MinElem(a, b); got != (ms3.Vec{X: 0.5, Y: -1, Z: -2}) {
		t.Errorf("MinElem got %v", got)
	}
	if got := MaxElem(a, b); got != (ms3.Vec{X: 3, Y: 4, Z: 0.5}) {
		t.Errorf("MaxElem got %v", got)
	}
}
