// Package render extracts triangle meshes from sampled scalar fields using
// marching cubes over a block decomposition of the cell grid.
package render

import (
	"time"
)

// Extract meshes the isosurface of cfg.Grid over the configured cells.
// The returned mesh satisfies [Mesh.Validate]. Any sampling error aborts the
// whole extraction and no partial mesh is returned.
func Extract(cfg Config) (Mesh, error) {
	start := time.Now()
	err := cfg.Validate()
	if err != nil {
		return Mesh{}, err
	}
	cfg = cfg.withDefaults()

	var (
		m      merger
		blocks int
	)
	if cfg.Mode == SingleThread {
		blocks = 1
		err = runSerial(&cfg, &m)
	} else {
		tasks := partition(cfg.Resolution, cfg.BlockSize)
		blocks = len(tasks)
		err = runParallel(&cfg, tasks, cfg.workers(), &m)
	}
	if err != nil {
		return Mesh{}, err
	}
	mesh := Mesh{
		Positions: m.positions,
		Indices:   m.indices,
		Blocks:    blocks,
	}
	if cfg.WeldSeams && blocks > 1 {
		mesh.Positions, mesh.Indices = weldSeams(mesh.Positions, mesh.Indices)
	}
	mesh.Elapsed = time.Since(start)
	Logger().Debug("isomesh: extraction done",
		"mode", cfg.Mode,
		"blocks", blocks,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"elapsed", mesh.Elapsed,
	)
	return mesh, nil
}
