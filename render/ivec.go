package render

import "github.com/soypat/glgl/math/ms3"

// ivec is an integer cell or corner coordinate.
type ivec struct {
	x int
	y int
	z int
}

func (a ivec) Add(b ivec) ivec { return ivec{x: a.x + b.x, y: a.y + b.y, z: a.z + b.z} }
func (a ivec) Vec() ms3.Vec    { return ms3.Vec{X: float32(a.x), Y: float32(a.y), Z: float32(a.z)} }

// ibox is a half-open box of cells: min is inclusive, max exclusive.
type ibox struct {
	min ivec
	max ivec
}

func (b ibox) size() ivec { return ivec{x: b.max.x - b.min.x, y: b.max.y - b.min.y, z: b.max.z - b.min.z} }

// cells returns the amount of cells in the box.
func (b ibox) cells() int {
	sz := b.size()
	if sz.x <= 0 || sz.y <= 0 || sz.z <= 0 {
		return 0
	}
	return sz.x * sz.y * sz.z
}
