package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

const stlTriangleSize = 50

// WriteSTL writes the triangles of m to w in binary STL format and returns
// the amount of bytes written. Degenerate triangles are written with a zero normal.
func WriteSTL(w io.Writer, m Mesh) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if m.IsEmpty() {
		return 0, errors.New("empty mesh")
	}
	nt := int64(m.TriangleCount()) // int64 so the comparison is valid on 32 bit machines.
	if nt > math.MaxUint32 {
		return 0, errors.New("amount of triangles in mesh exceeds STL design limits")
	}
	header := stlHeader{Count: uint32(nt)}
	var buf [84]byte
	header.put(buf[:])
	n, err := w.Write(buf[:84])
	if err != nil {
		return n, err
	} else if n != len(buf) {
		return n, io.ErrShortWrite
	}
	var d stlTriangle
	for i := 0; i < len(m.Indices); i += 3 {
		v := [3]ms3.Vec{
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]],
		}
		d.Normal = vecArray(faceNormal(v))
		d.Vertex1 = vecArray(v[0])
		d.Vertex2 = vecArray(v[1])
		d.Vertex3 = vecArray(v[2])
		d.put(buf[:])
		ngot, err := w.Write(buf[:stlTriangleSize])
		n += ngot
		if err != nil {
			return n, err
		} else if ngot != stlTriangleSize {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// ReadSTL reads a binary STL triangle soup from r. Triangles with inf or NaN
// components are rejected. Normals are not checked against vertex winding.
func ReadSTL(r io.Reader) (tris []ms3.Triangle, err error) {
	var buf [84]byte
	_, err = io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	var header stlHeader
	header.get(buf[:])
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		d stlTriangle
		i int
	)
	defer func() {
		if err != nil {
			err = fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
	}()
	tris = make([]ms3.Triangle, 0, min(header.Count, 1<<20))
	for i = 0; i < int(header.Count); i++ {
		_, err = io.ReadFull(r, buf[:stlTriangleSize])
		if err != nil {
			return nil, err
		}
		d.get(buf[:stlTriangleSize])
		if err = d.validate(); err != nil {
			return nil, err
		}
		tris = append(tris, d.triangle())
	}
	return tris, nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

func (h stlHeader) put(b []byte) {
	_ = b[83] // early bounds check
	binary.LittleEndian.PutUint32(b[80:], h.Count)
}

func (h *stlHeader) get(b []byte) {
	_ = b[83]
	h.Count = binary.LittleEndian.Uint32(b[80:])
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	_ = b[stlTriangleSize-1]
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0) // Zero out attributes.
}

func (t *stlTriangle) get(b []byte) {
	_ = b[stlTriangleSize-1]
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	return nil
}

func (t stlTriangle) triangle() ms3.Triangle {
	return ms3.Triangle{vecFromArray(t.Vertex1), vecFromArray(t.Vertex2), vecFromArray(t.Vertex3)}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func vecFromArray(f [3]float32) ms3.Vec {
	return ms3.Vec{X: f[0], Y: f[1], Z: f[2]}
}

func vecArray(v ms3.Vec) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
