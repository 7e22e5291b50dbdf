package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/field"
	"github.com/soypat/isomesh/internal/d3"
)

// ErrInvalidConfig is returned by Extract and Config.Validate on bad configuration.
var ErrInvalidConfig = errors.New("invalid extraction config")

const defaultBlockSize = 16

// Config describes a mesh extraction over a regular grid of cells.
type Config struct {
	// Offset is the world position of the minimum corner of cell (0,0,0).
	Offset ms3.Vec
	// TexelSize is the world size of a cell along each axis.
	TexelSize ms3.Vec
	// Resolution is the amount of cells along each axis.
	Resolution [3]int
	// Isolevel is the raw field value at which the surface is extracted.
	// Samples are clamped to [0, Isolevel] and normalized to [0, 1].
	Isolevel float32
	Mode     Mode
	// Threads is the worker count used in FixedThreads mode.
	Threads int
	// SkipBackFaces drops triangles whose normals all point towards -Z.
	SkipBackFaces bool
	Grid          field.Grid
	// BlockSize is the amount of cells per axis of a parallel work unit.
	// Zero components default to 16. Ignored in SingleThread mode.
	BlockSize [3]int
	// WeldSeams merges vertices duplicated on block boundaries after all
	// blocks are merged. Blocks are welded independently when false, so
	// vertices on block seams appear once per block.
	WeldSeams bool
}

// Validate checks the configuration. The returned error wraps ErrInvalidConfig.
func (cfg *Config) Validate() error {
	var reason string
	switch {
	case cfg.Resolution[0] <= 0 || cfg.Resolution[1] <= 0 || cfg.Resolution[2] <= 0:
		reason = fmt.Sprintf("resolution %v must be positive along all axes", cfg.Resolution)
	case !(cfg.Isolevel > 0) || math32.IsInf(cfg.Isolevel, 1):
		reason = fmt.Sprintf("isolevel %g must be positive and finite", cfg.Isolevel)
	case cfg.Grid == nil:
		reason = "nil grid"
	case d3.LTEZero(cfg.TexelSize) || d3.HasNaN(cfg.TexelSize):
		reason = fmt.Sprintf("texel size %v must be positive", cfg.TexelSize)
	case d3.HasNaN(cfg.Offset):
		reason = "NaN offset"
	case cfg.Mode > MaxThreads:
		reason = "unknown mode " + cfg.Mode.String()
	case cfg.Mode == FixedThreads && cfg.Threads < 1:
		reason = fmt.Sprintf("FixedThreads mode needs at least 1 thread, got %d", cfg.Threads)
	case cfg.BlockSize[0] < 0 || cfg.BlockSize[1] < 0 || cfg.BlockSize[2] < 0:
		reason = fmt.Sprintf("negative block size %v", cfg.BlockSize)
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, reason)
}

// withDefaults returns a copy of cfg with zero valued optional fields set.
func (cfg Config) withDefaults() Config {
	for i := range cfg.BlockSize {
		if cfg.BlockSize[i] == 0 {
			cfg.BlockSize[i] = defaultBlockSize
		}
	}
	return cfg
}

// domain returns the box of all cells.
func (cfg *Config) domain() ibox {
	return ibox{max: ivec{x: cfg.Resolution[0], y: cfg.Resolution[1], z: cfg.Resolution[2]}}
}

// maxFitResolution is the largest amount of cells per axis FitBounds produces.
const maxFitResolution = 1 << 16

// FitBounds sets Offset, TexelSize and Resolution so that cubic cells of
// size cellSize cover bb. The box is grown slightly about its center so the
// domain boundary does not lie on a surface touching bb.
// Unbounded boxes and boxes needing more than 65536 cells along an axis are rejected.
func (cfg *Config) FitBounds(bb ms3.Box, cellSize float32) error {
	if !(cellSize > 0) || math32.IsInf(cellSize, 1) {
		return fmt.Errorf("%w: cell size %g must be positive and finite", ErrInvalidConfig, cellSize)
	}
	if !finite(bb.Min) || !finite(bb.Max) {
		return fmt.Errorf("%w: unbounded box %v", ErrInvalidConfig, bb)
	}
	bb = d3.ScaleAboutCenter(bb, 1.01)
	sz := d3.BoxSize(bb)
	if !finite(sz) || sz.X < 0 || sz.Y < 0 || sz.Z < 0 {
		return fmt.Errorf("%w: bad bounds %v", ErrInvalidConfig, bb)
	}
	var res [3]int
	for i, side := range [3]float32{sz.X, sz.Y, sz.Z} {
		n := math32.Ceil(side / cellSize)
		if n > maxFitResolution {
			return fmt.Errorf("%w: %g cells along axis %d exceeds %d", ErrInvalidConfig, n, i, maxFitResolution)
		}
		res[i] = max(1, int(n))
	}
	cfg.Offset = bb.Min
	cfg.TexelSize = d3.Elem(cellSize)
	cfg.Resolution = res
	return nil
}

func finite(v ms3.Vec) bool {
	return !d3.HasNaN(v) && !math32.IsInf(v.X, 0) && !math32.IsInf(v.Y, 0) && !math32.IsInf(v.Z, 0)
}
