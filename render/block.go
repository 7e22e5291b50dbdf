package render

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/field"
)

// blockMesh is the mesh produced by a single block. Indices refer to the
// block's own positions.
type blockMesh struct {
	positions []ms3.Vec
	indices   []uint32
}

// blockTask meshes the cells within box.
type blockTask struct {
	box ibox
}

// run polygonizes every cell of the block with its own cell evaluator and
// vertex welder. s must not be used by any other goroutine during run.
func (bt blockTask) run(cfg *Config, s field.Sampler) (*blockMesh, error) {
	if s == nil {
		return nil, errors.New("grid returned nil accessor")
	}
	ce := newCellEvaluator(cfg, s)
	welder := newVertexWelder(weldSizeHint(bt.box))
	var (
		indices []uint32
		cell    cellSample
		tris    [marchingCubesMaxTriangles]Triangle
	)
	b := bt.box
	for k := b.min.z; k < b.max.z; k++ {
		for j := b.min.y; j < b.max.y; j++ {
			for i := b.min.x; i < b.max.x; i++ {
				c := ivec{x: i, y: j, z: k}
				err := ce.evaluate(c, &cell)
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d,%d): %w", i, j, k, err)
				}
				nt := Polygonize(tris[:], cell.p, cell.val, normalizedThreshold)
				for t := range tris[:nt] {
					tri := &tris[t]
					if cfg.SkipBackFaces && isBackFace(tri) {
						continue
					}
					indices = append(indices,
						welder.getOrInsert(tri.V[0]),
						welder.getOrInsert(tri.V[1]),
						welder.getOrInsert(tri.V[2]),
					)
				}
			}
		}
	}
	return &blockMesh{positions: welder.positions, indices: indices}, nil
}

// maxWeldSizeHint caps the welder preallocation of large blocks.
const maxWeldSizeHint = 1 << 14

// weldSizeHint estimates the vertex count of a block. Surface vertices grow
// with the area of the block, not its volume.
func weldSizeHint(b ibox) int {
	if b.cells() == 0 {
		return 0
	}
	sz := b.size()
	area := 2 * (sz.x*sz.y + sz.y*sz.z + sz.x*sz.z)
	return min(area, maxWeldSizeHint)
}

// safeRun obtains an accessor from g and runs the block with grid panics
// converted to errors so that a failing grid does not take down a worker goroutine.
func (bt blockTask) safeRun(cfg *Config, g field.Grid) (bm *blockMesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			bm = nil
			err = fmt.Errorf("block %v: grid panic: %v", bt.box, a)
		}
	}()
	return bt.run(cfg, g.Accessor())
}
