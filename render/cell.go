package render

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/field"
)

// cellSample holds the corner positions and normalized values of one cell.
type cellSample struct {
	p   [8]ms3.Vec
	val [8]float32
}

// cellEvaluator samples the 8 corners of grid cells.
type cellEvaluator struct {
	offset   ms3.Vec
	texel    ms3.Vec
	isolevel float32
	sampler  field.Sampler
	raw      [8]float32
}

func newCellEvaluator(cfg *Config, s field.Sampler) *cellEvaluator {
	return &cellEvaluator{
		offset:   cfg.Offset,
		texel:    cfg.TexelSize,
		isolevel: cfg.Isolevel,
		sampler:  s,
	}
}

// cornerPos returns the world position of an integer corner coordinate.
// Neighboring cells sharing a corner compute bit-identical positions.
func (ce *cellEvaluator) cornerPos(c ivec) ms3.Vec {
	return ms3.Add(ce.offset, ms3.MulElem(ce.texel, c.Vec()))
}

// evaluate fills dst with the corners of the cell at c.
func (ce *cellEvaluator) evaluate(c ivec, dst *cellSample) error {
	for i, off := range mcCornerOffsets {
		dst.p[i] = ce.cornerPos(c.Add(off))
	}
	err := ce.sampler.Sample(dst.p[:], ce.raw[:])
	if err != nil {
		return err
	}
	for i, raw := range ce.raw {
		if math32.IsNaN(raw) {
			return fmt.Errorf("NaN sample at %v", dst.p[i])
		}
		dst.val[i] = normalize(raw, ce.isolevel)
	}
	return nil
}

// normalize clamps raw to [0, isolevel] and maps it onto [0, 1].
func normalize(raw, isolevel float32) float32 {
	if raw <= 0 {
		return 0
	} else if raw >= isolevel {
		return 1
	}
	return raw / isolevel
}
