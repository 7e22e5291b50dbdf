package render

import (
	"fmt"
	"time"

	"github.com/soypat/glgl/math/ms3"
)

// Mesh is an indexed triangle mesh. Every three consecutive indices form a triangle.
type Mesh struct {
	Positions []ms3.Vec
	Indices   []uint32
	// Elapsed is the wall time taken by the extraction.
	Elapsed time.Duration
	// Blocks is the amount of blocks the domain was split into.
	Blocks int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// Triangles expands the index buffer into a triangle soup.
func (m *Mesh) Triangles() []ms3.Triangle {
	tris := make([]ms3.Triangle, m.TriangleCount())
	for i := range tris {
		tris[i] = ms3.Triangle{
			m.Positions[m.Indices[3*i]],
			m.Positions[m.Indices[3*i+1]],
			m.Positions[m.Indices[3*i+2]],
		}
	}
	return tris
}

// Validate checks that indices group into triangles and reference existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("index %d at %d out of range of %d vertices", idx, i, len(m.Positions))
		}
	}
	return nil
}
