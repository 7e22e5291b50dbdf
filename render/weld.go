package render

import "github.com/soypat/glgl/math/ms3"

// vertexWelder assigns one index per distinct vertex position.
//
// Positions are compared with exact float equality. Vertices that should
// coincide but were computed with different rounding are not merged.
type vertexWelder struct {
	index     map[ms3.Vec]uint32
	positions []ms3.Vec
}

func newVertexWelder(sizeHint int) *vertexWelder {
	return &vertexWelder{
		index:     make(map[ms3.Vec]uint32, sizeHint),
		positions: make([]ms3.Vec, 0, sizeHint),
	}
}

// getOrInsert returns the index of v, appending v to the positions if it is new.
func (w *vertexWelder) getOrInsert(v ms3.Vec) uint32 {
	if idx, ok := w.index[v]; ok {
		return idx
	}
	idx := uint32(len(w.positions))
	w.index[v] = idx
	w.positions = append(w.positions, v)
	return idx
}
