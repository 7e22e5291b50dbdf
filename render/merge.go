package render

import (
	"errors"
	"math"
	"sync"

	"github.com/soypat/glgl/math/ms3"
)

var errIndexOverflow = errors.New("mesh vertex count exceeds uint32 index range")

// merger accumulates block meshes into the global buffers. merge is safe for
// concurrent use; blocks are appended one at a time in call order.
type merger struct {
	mu        sync.Mutex
	positions []ms3.Vec
	indices   []uint32
}

// merge appends b's positions and its indices rebased by the current vertex
// count. b is consumed and must not be used afterwards.
func (m *merger) merge(b *blockMesh) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := len(m.positions)
	if uint64(base)+uint64(len(b.positions)) > math.MaxUint32 {
		return errIndexOverflow
	}
	m.positions = append(m.positions, b.positions...)
	for _, idx := range b.indices {
		m.indices = append(m.indices, idx+uint32(base))
	}
	b.positions = nil
	b.indices = nil
	return nil
}

// weldSeams merges vertices with exactly equal positions across the whole mesh
// and rewrites the indices. Vertex order follows first appearance in positions.
func weldSeams(positions []ms3.Vec, indices []uint32) ([]ms3.Vec, []uint32) {
	w := newVertexWelder(len(positions))
	remap := make([]uint32, len(positions))
	for i, p := range positions {
		remap[i] = w.getOrInsert(p)
	}
	for i, idx := range indices {
		indices[i] = remap[idx]
	}
	return w.positions, indices
}
