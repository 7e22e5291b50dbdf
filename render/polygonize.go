package render

import (
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

// normalizedThreshold is the isovalue of normalized cell values.
const normalizedThreshold = 1.0

// Triangle is a triangle emitted by marching cubes.
type Triangle struct {
	V [3]ms3.Vec // Vertex positions.
	N [3]ms3.Vec // Vertex normals. All three equal the face normal.
}

// Polygonize runs marching cubes over a single cube with corner positions p and
// corner values val, writing the resulting triangles to dst. Corners with a
// value below threshold are considered inside. It returns the amount of
// triangles written which is at most 5. dst must have room for 5 triangles.
//
// Corner numbering:
//
//	0:(0,0,0) 1:(1,0,0) 2:(1,1,0) 3:(0,1,0) 4:(0,0,1) 5:(1,0,1) 6:(1,1,1) 7:(0,1,1)
func Polygonize(dst []Triangle, p [8]ms3.Vec, val [8]float32, threshold float32) int {
	if len(dst) < marchingCubesMaxTriangles {
		panic("Polygonize: need room for 5 triangles")
	}
	var cubeIndex uint8
	for i := 0; i < 8; i++ {
		if val[i] < threshold {
			cubeIndex |= 1 << i
		}
	}
	if cubeIndex == 0 || cubeIndex == 255 {
		return 0 // Cube entirely on one side of the surface.
	}
	edges := mcEdgeTable[cubeIndex]
	var vertlist [12]ms3.Vec
	for e := 0; e < 12; e++ {
		if edges&(1<<e) == 0 {
			continue
		}
		a, b := mcEdgeCorners[e][0], mcEdgeCorners[e][1]
		vertlist[e] = mcInterpolate(threshold, p[a], p[b], val[a], val[b])
	}
	table := mcTriangleTable[cubeIndex]
	n := len(table) / 3
	for i := 0; i < n; i++ {
		t := &dst[i]
		t.V = [3]ms3.Vec{vertlist[table[3*i]], vertlist[table[3*i+1]], vertlist[table[3*i+2]]}
		norm := faceNormal(t.V)
		t.N = [3]ms3.Vec{norm, norm, norm}
	}
	return n
}

// mcInterpolate returns the point on segment p1-p2 where the linearly
// interpolated value equals threshold. Endpoints are put in a canonical order
// first so that an edge shared by neighboring cubes yields the same vertex
// regardless of the cube it is evaluated from.
func mcInterpolate(threshold float32, p1, p2 ms3.Vec, v1, v2 float32) ms3.Vec {
	if d3.Less(p2, p1) {
		p1, p2 = p2, p1
		v1, v2 = v2, v1
	}
	var t float32 = 0.5
	if v1 != v2 {
		t = (threshold - v1) / (v2 - v1)
	}
	switch t {
	case 0:
		return p1
	case 1:
		return p2
	}
	return ms3.Add(p1, ms3.Scale(t, ms3.Sub(p2, p1)))
}

// faceNormal returns the unit normal of the triangle with counter-clockwise
// vertices v. Degenerate triangles have a zero normal.
func faceNormal(v [3]ms3.Vec) ms3.Vec {
	n := ms3.Cross(ms3.Sub(v[1], v[0]), ms3.Sub(v[2], v[0]))
	l := ms3.Norm(n)
	if l == 0 {
		return ms3.Vec{}
	}
	return ms3.Scale(1/l, n)
}

// isBackFace reports whether all vertex normals of t point towards -Z.
func isBackFace(t *Triangle) bool {
	return t.N[0].Z < 0 && t.N[1].Z < 0 && t.N[2].Z < 0
}
