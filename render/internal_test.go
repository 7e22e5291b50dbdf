package render

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/field"
	"github.com/soypat/isomesh/internal/d3"
)

func TestMarchingCubes(t *testing.T) {
	max := 0
	for _, tri := range mcTriangleTable {
		if len(tri) > max {
			max = len(tri)
		}
	}
	got := max / 3
	if got != marchingCubesMaxTriangles {
		t.Errorf("mismatch marching cubes max triangles. got %d. want %d", got, marchingCubesMaxTriangles)
	}
}

func TestMarchingCubesTables(t *testing.T) {
	for ci := 0; ci < 256; ci++ {
		var wantEdges uint16
		for e, corners := range mcEdgeCorners {
			a := ci>>corners[0]&1 != 0
			b := ci>>corners[1]&1 != 0
			if a != b {
				wantEdges |= 1 << e
			}
		}
		if mcEdgeTable[ci] != wantEdges {
			t.Errorf("case %d: edge table %#03x, want %#03x", ci, mcEdgeTable[ci], wantEdges)
		}
		row := mcTriangleTable[ci]
		if len(row)%3 != 0 {
			t.Errorf("case %d: triangle row length %d not a multiple of 3", ci, len(row))
			continue
		}
		var usedEdges uint16
		for _, e := range row {
			if e >= 12 {
				t.Fatalf("case %d: edge index %d out of range", ci, e)
			}
			usedEdges |= 1 << e
		}
		if usedEdges != wantEdges {
			t.Errorf("case %d: triangles use edges %#03x, want %#03x", ci, usedEdges, wantEdges)
		}
		if (ci == 0 || ci == 255) != (len(row) == 0) {
			t.Errorf("case %d: unexpected triangle count %d", ci, len(row)/3)
		}
	}
	// Complementary cases cross the same edges.
	for ci := 0; ci < 128; ci++ {
		if mcEdgeTable[ci] != mcEdgeTable[255-ci] {
			t.Errorf("case %d and %d edge tables differ", ci, 255-ci)
		}
	}
}

func unitCube() (p [8]ms3.Vec) {
	for i, off := range mcCornerOffsets {
		p[i] = off.Vec()
	}
	return p
}

func TestPolygonizeSingleCorner(t *testing.T) {
	var tris [marchingCubesMaxTriangles]Triangle
	val := [8]float32{0, 1, 1, 1, 1, 1, 1, 1}
	n := Polygonize(tris[:], unitCube(), val, 0.5)
	if n != 1 {
		t.Fatalf("got %d triangles, want 1", n)
	}
	want := map[ms3.Vec]bool{
		{X: 0.5}: true,
		{Y: 0.5}: true,
		{Z: 0.5}: true,
	}
	for _, v := range tris[0].V {
		if !want[v] {
			t.Errorf("unexpected vertex %v", v)
		}
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing vertices %v", want)
	}
	norm := tris[0].N[0]
	if math32.Abs(ms3.Norm(norm)-1) > 1e-6 {
		t.Errorf("normal %v not unit", norm)
	}
	if ms3.Dot(norm, d3.Elem(1)) >= 0 {
		t.Errorf("normal %v should point towards the inside corner", norm)
	}
	if tris[0].N[0] != tris[0].N[1] || tris[0].N[0] != tris[0].N[2] {
		t.Errorf("vertex normals differ: %v", tris[0].N)
	}
}

func TestPolygonizeUniform(t *testing.T) {
	var tris [marchingCubesMaxTriangles]Triangle
	for _, v := range []float32{0, 0.5, 1, 2} {
		var val [8]float32
		for i := range val {
			val[i] = v
		}
		n := Polygonize(tris[:], unitCube(), val, 1)
		if n != 0 {
			t.Errorf("uniform value %g produced %d triangles", v, n)
		}
	}
}

func TestPolygonizeTriangleCounts(t *testing.T) {
	var tris [marchingCubesMaxTriangles]Triangle
	p := unitCube()
	for ci := 0; ci < 256; ci++ {
		var val [8]float32
		for c := range val {
			if ci>>c&1 == 0 {
				val[c] = 1
			}
		}
		n := Polygonize(tris[:], p, val, 0.5)
		if n != len(mcTriangleTable[ci])/3 {
			t.Errorf("case %d: got %d triangles, want %d", ci, n, len(mcTriangleTable[ci])/3)
		}
		// Every vertex lies on an edge midpoint.
		for _, tri := range tris[:n] {
			for _, v := range tri.V {
				halves := 0
				for _, x := range [3]float32{v.X, v.Y, v.Z} {
					if x == 0.5 {
						halves++
					} else if x != 0 && x != 1 {
						halves = -10
					}
				}
				if halves != 1 {
					t.Fatalf("case %d: vertex %v is not an edge midpoint", ci, v)
				}
			}
		}
	}
}

func TestMCInterpolate(t *testing.T) {
	a := ms3.Vec{X: 1, Y: 2, Z: 3}
	b := ms3.Vec{X: 1, Y: 4, Z: 3}
	got := mcInterpolate(1, a, b, 0.25, 0.25)
	if got != (ms3.Vec{X: 1, Y: 3, Z: 3}) {
		t.Errorf("equal values should yield the midpoint, got %v", got)
	}
	if got := mcInterpolate(1, a, b, 1, 0); got != a {
		t.Errorf("t=0 got %v, want %v", got, a)
	}
	if got := mcInterpolate(1, a, b, 0, 1); got != b {
		t.Errorf("t=1 got %v, want %v", got, b)
	}
	// Shared edges must produce the same vertex from either direction.
	const th = 0.3
	p1 := ms3.Vec{X: 0.1, Y: 0.7, Z: 0.3}
	p2 := ms3.Vec{X: 0.1, Y: 0.2, Z: 0.9}
	fwd := mcInterpolate(th, p1, p2, 0.13, 0.77)
	rev := mcInterpolate(th, p2, p1, 0.77, 0.13)
	if fwd != rev {
		t.Errorf("interpolation depends on endpoint order: %v != %v", fwd, rev)
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	v := ms3.Vec{X: 1, Y: 1, Z: 1}
	got := faceNormal([3]ms3.Vec{v, v, {X: 2, Y: 2, Z: 2}})
	if got != (ms3.Vec{}) {
		t.Errorf("degenerate triangle normal %v, want zero", got)
	}
}

func TestNormalize(t *testing.T) {
	for _, test := range []struct {
		raw, iso, want float32
	}{
		{raw: -3, iso: 2, want: 0},
		{raw: 0, iso: 2, want: 0},
		{raw: 1, iso: 2, want: 0.5},
		{raw: 2, iso: 2, want: 1},
		{raw: 30, iso: 2, want: 1},
		{raw: math32.Inf(1), iso: 2, want: 1},
	} {
		got := normalize(test.raw, test.iso)
		if got != test.want {
			t.Errorf("normalize(%g, %g) = %g, want %g", test.raw, test.iso, got, test.want)
		}
	}
}

func TestVertexWelder(t *testing.T) {
	w := newVertexWelder(0)
	a := ms3.Vec{X: 1}
	b := ms3.Vec{Y: 1}
	for i, test := range []struct {
		v    ms3.Vec
		want uint32
	}{
		{a, 0}, {b, 1}, {a, 0}, {b, 1}, {ms3.Vec{Z: 1}, 2},
		// Nearby but not equal positions are not merged.
		{ms3.Vec{X: 1 + 1.0/(1<<22)}, 3},
	} {
		got := w.getOrInsert(test.v)
		if got != test.want {
			t.Errorf("%d: getOrInsert(%v) = %d, want %d", i, test.v, got, test.want)
		}
	}
	if len(w.positions) != 4 {
		t.Errorf("got %d positions, want 4", len(w.positions))
	}
}

func TestPartition(t *testing.T) {
	for _, test := range []struct {
		res, stride [3]int
		wantBlocks  int
	}{
		{res: [3]int{1, 1, 1}, stride: [3]int{16, 16, 16}, wantBlocks: 1},
		{res: [3]int{16, 16, 16}, stride: [3]int{16, 16, 16}, wantBlocks: 1},
		{res: [3]int{17, 16, 16}, stride: [3]int{16, 16, 16}, wantBlocks: 2},
		{res: [3]int{7, 5, 3}, stride: [3]int{2, 4, 1}, wantBlocks: 4 * 2 * 3},
		{res: [3]int{10, 1, 9}, stride: [3]int{3, 3, 3}, wantBlocks: 4 * 1 * 3},
	} {
		blocks := partition(test.res, test.stride)
		if len(blocks) != test.wantBlocks {
			t.Errorf("res=%v stride=%v: got %d blocks, want %d", test.res, test.stride, len(blocks), test.wantBlocks)
		}
		nx, ny := test.res[0], test.res[1]
		covered := make([]int, nx*ny*test.res[2])
		for _, bt := range blocks {
			sz := bt.box.size()
			if sz.x > test.stride[0] || sz.y > test.stride[1] || sz.z > test.stride[2] || bt.box.cells() == 0 {
				t.Errorf("bad block %v", bt.box)
			}
			for k := bt.box.min.z; k < bt.box.max.z; k++ {
				for j := bt.box.min.y; j < bt.box.max.y; j++ {
					for i := bt.box.min.x; i < bt.box.max.x; i++ {
						covered[i+nx*(j+ny*k)]++
					}
				}
			}
		}
		for i, c := range covered {
			if c != 1 {
				t.Fatalf("res=%v stride=%v: cell %d covered %d times", test.res, test.stride, i, c)
			}
		}
	}
}

func TestWorkerPool(t *testing.T) {
	for _, workers := range []int{1, 3, 0} {
		pool := newWorkerPool(workers)
		var sum atomic.Int64
		work := make([]func(), 100)
		for i := range work {
			work[i] = func() { sum.Add(int64(i)) }
		}
		pool.executeAll(work)
		if got := sum.Load(); got != 99*100/2 {
			t.Errorf("workers=%d: sum %d, want %d", workers, got, 99*100/2)
		}
		pool.close()
		pool.close()
		// No-op after close.
		pool.executeAll(work)
		if got := sum.Load(); got != 99*100/2 {
			t.Errorf("workers=%d: work ran on closed pool", workers)
		}
	}
}

func TestMergeRebase(t *testing.T) {
	var m merger
	a := &blockMesh{
		positions: []ms3.Vec{{X: 0}, {X: 1}, {X: 2}},
		indices:   []uint32{0, 1, 2},
	}
	b := &blockMesh{
		positions: []ms3.Vec{{Y: 1}, {Y: 2}, {Y: 3}, {Y: 4}},
		indices:   []uint32{0, 1, 2, 2, 1, 3},
	}
	for _, bm := range []*blockMesh{a, b} {
		if err := m.merge(bm); err != nil {
			t.Fatal(err)
		}
		if bm.positions != nil || bm.indices != nil {
			t.Error("merged block buffers not released")
		}
	}
	wantIdx := []uint32{0, 1, 2, 3, 4, 5, 5, 4, 6}
	if len(m.indices) != len(wantIdx) {
		t.Fatalf("got %d indices, want %d", len(m.indices), len(wantIdx))
	}
	for i := range wantIdx {
		if m.indices[i] != wantIdx[i] {
			t.Errorf("index %d: got %d, want %d", i, m.indices[i], wantIdx[i])
		}
	}
	if len(m.positions) != 7 || m.positions[3] != (ms3.Vec{Y: 1}) {
		t.Errorf("unexpected positions %v", m.positions)
	}
}

func TestWeldSeams(t *testing.T) {
	p := []ms3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 1}, {X: 2}, {X: 3}}
	idx := []uint32{0, 1, 2, 3, 4, 5}
	gotP, gotIdx := weldSeams(p, idx)
	if len(gotP) != 4 {
		t.Fatalf("got %d positions, want 4", len(gotP))
	}
	want := []uint32{0, 1, 2, 1, 2, 3}
	for i := range want {
		if gotIdx[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, gotIdx[i], want[i])
		}
	}
}

func validConfig() Config {
	return Config{
		TexelSize:  d3.Elem(1),
		Resolution: [3]int{2, 2, 2},
		Isolevel:   1,
		Grid:       field.Func(func(ms3.Vec) float32 { return 0 }),
	}
}

func TestConfigValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{name: "valid", modify: func(*Config) {}, valid: true},
		{name: "fixed threads", modify: func(c *Config) { c.Mode = FixedThreads; c.Threads = 2 }, valid: true},
		{name: "zero resolution", modify: func(c *Config) { c.Resolution[1] = 0 }},
		{name: "negative resolution", modify: func(c *Config) { c.Resolution[2] = -4 }},
		{name: "zero isolevel", modify: func(c *Config) { c.Isolevel = 0 }},
		{name: "negative isolevel", modify: func(c *Config) { c.Isolevel = -1 }},
		{name: "NaN isolevel", modify: func(c *Config) { c.Isolevel = math32.NaN() }},
		{name: "nil grid", modify: func(c *Config) { c.Grid = nil }},
		{name: "zero texel", modify: func(c *Config) { c.TexelSize.Y = 0 }},
		{name: "fixed threads without threads", modify: func(c *Config) { c.Mode = FixedThreads }},
		{name: "negative block size", modify: func(c *Config) { c.BlockSize[0] = -1 }},
		{name: "unknown mode", modify: func(c *Config) { c.Mode = 42 }},
	} {
		cfg := validConfig()
		test.modify(&cfg)
		err := cfg.Validate()
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
		} else if !test.valid && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: got error %v, want ErrInvalidConfig", test.name, err)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.BlockSize = [3]int{0, 4, 0}
	got := cfg.withDefaults().BlockSize
	if got != [3]int{defaultBlockSize, 4, defaultBlockSize} {
		t.Errorf("got block size %v", got)
	}
}

func TestBlockWeldsWithinBlock(t *testing.T) {
	cfg := validConfig()
	cfg.Resolution = [3]int{6, 6, 6}
	center := d3.Elem(3)
	cfg.Grid = field.Func(func(p ms3.Vec) float32 {
		return ms3.Norm(ms3.Sub(p, center)) - 1.7
	})
	cfg.Isolevel = 0.4
	bm, err := blockTask{box: cfg.domain()}.run(&cfg, cfg.Grid.Accessor())
	if err != nil {
		t.Fatal(err)
	}
	if len(bm.indices) == 0 {
		t.Fatal("empty block mesh")
	}
	seen := make(map[ms3.Vec]bool, len(bm.positions))
	for _, p := range bm.positions {
		if seen[p] {
			t.Fatalf("duplicate position %v within block", p)
		}
		seen[p] = true
	}
	// Every welded vertex is referenced.
	refs := make([]bool, len(bm.positions))
	for _, idx := range bm.indices {
		refs[idx] = true
	}
	for i, r := range refs {
		if !r {
			t.Errorf("position %d unreferenced", i)
		}
	}
}

func TestCellEvaluatorCorners(t *testing.T) {
	cfg := validConfig()
	cfg.Offset = ms3.Vec{X: -1, Y: 0.5, Z: 2}
	cfg.TexelSize = ms3.Vec{X: 0.1, Y: 0.25, Z: 3}
	ce := newCellEvaluator(&cfg, cfg.Grid.Accessor())
	var a, b cellSample
	if err := ce.evaluate(ivec{x: 3, y: 4, z: 5}, &a); err != nil {
		t.Fatal(err)
	}
	if err := ce.evaluate(ivec{x: 4, y: 4, z: 5}, &b); err != nil {
		t.Fatal(err)
	}
	// Corner 1 of a is corner 0 of its +X neighbor.
	pairs := [][2]int{{1, 0}, {2, 3}, {5, 4}, {6, 7}}
	for _, pr := range pairs {
		if a.p[pr[0]] != b.p[pr[1]] {
			t.Errorf("shared corner mismatch: %v != %v", a.p[pr[0]], b.p[pr[1]])
		}
	}
}

func TestWeldSizeHint(t *testing.T) {
	for _, test := range []struct {
		box  ibox
		want int
	}{
		{box: ibox{}, want: 0},
		{box: ibox{max: ivec{x: 2, y: 2, z: 2}}, want: 24},
		{box: ibox{min: ivec{x: 4}, max: ivec{x: 5, y: 3, z: 2}}, want: 2 * (3 + 6 + 2)},
		{box: ibox{max: ivec{x: 512, y: 512, z: 512}}, want: maxWeldSizeHint},
	} {
		got := weldSizeHint(test.box)
		if got != test.want {
			t.Errorf("weldSizeHint(%v) = %d, want %d", test.box, got, test.want)
		}
	}
}
