// Package field defines the scalar fields sampled by the mesh renderer and
// provides a few implementations: a dense voxel grid with trilinear
// interpolation and adapters for signed distance functions.
package field

import (
	"errors"

	"github.com/soypat/glgl/math/ms3"
)

var (
	// ErrLengthMismatch is returned when the position and value buffers
	// passed to a Sampler differ in length.
	ErrLengthMismatch = errors.New("field: position and value buffer length mismatch")
	// ErrBadPosition is returned when a sampled position is NaN.
	ErrBadPosition = errors.New("field: NaN sample position")
)

// Sampler samples a scalar field at world-space positions.
// Sampler implementations need not be safe for concurrent use.
type Sampler interface {
	// Sample writes the field value at each position of pos into dst.
	// pos and dst must be of the same length.
	Sample(pos []ms3.Vec, dst []float32) error
}

// Grid is a read-only scalar field shared between goroutines. Each goroutine
// sampling the grid must obtain its own Sampler through Accessor.
type Grid interface {
	// Accessor returns a new Sampler over the grid. Accessor is safe for concurrent use.
	Accessor() Sampler
}

// Bounder is implemented by grids with a known extent.
type Bounder interface {
	Bounds() ms3.Box
}

// Func is a stateless Sampler and Grid backed by a function. The function
// must be safe for concurrent use.
type Func func(pos ms3.Vec) float32

var (
	_ Sampler = Func(nil)
	_ Grid    = Func(nil)
)

// Sample implements [Sampler].
func (f Func) Sample(pos []ms3.Vec, dst []float32) error {
	if len(pos) != len(dst) {
		return ErrLengthMismatch
	}
	for i := range pos {
		dst[i] = f(pos[i])
	}
	return nil
}

// Accessor implements [Grid]. The returned Sampler is f itself.
func (f Func) Accessor() Sampler { return f }

// Shared returns a Grid whose accessors all share s. s must be safe for concurrent use.
func Shared(s Sampler) Grid {
	return shared{s: s}
}

type shared struct {
	s Sampler
}

func (sh shared) Accessor() Sampler { return sh.s }
