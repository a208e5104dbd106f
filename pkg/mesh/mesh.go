package mesh

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTopologyMismatch is returned when a mesh does not have the face or
// boundary structure an operation expects.
var ErrTopologyMismatch = errors.New("topology mismatch")

// Face is a loop of vertex indices, counter-clockwise seen from outside.
type Face []int

// Mesh is a polygon mesh in world space.
type Mesh struct {
	Verts []mgl64.Vec3
	Faces []Face
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Verts: make([]mgl64.Vec3, len(m.Verts)),
		Faces: make([]Face, len(m.Faces)),
	}
	copy(c.Verts, m.Verts)
	for i, f := range m.Faces {
		c.Faces[i] = append(Face(nil), f...)
	}
	return c
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// FaceNormal returns the unit normal of face i using Newell's method,
// which is robust for slightly non-planar loops.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	return newellNormal(m.Verts, m.Faces[i])
}

func newellNormal(verts []mgl64.Vec3, f Face) mgl64.Vec3 {
	var n mgl64.Vec3
	for j := range f {
		a := verts[f[j]]
		b := verts[f[(j+1)%len(f)]]
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return n
}

// FaceCenter returns the vertex average of face i.
func (m *Mesh) FaceCenter(i int) mgl64.Vec3 {
	var c mgl64.Vec3
	f := m.Faces[i]
	for _, vi := range f {
		c = c.Add(m.Verts[vi])
	}
	return c.Mul(1 / float64(len(f)))
}

// FaceArea returns the area of face i.
func (m *Mesh) FaceArea(i int) float64 {
	f := m.Faces[i]
	var sum mgl64.Vec3
	for j := range f {
		sum = sum.Add(m.Verts[f[j]].Cross(m.Verts[f[(j+1)%len(f)]]))
	}
	return 0.5 * math.Abs(sum.Dot(m.FaceNormal(i)))
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var a float64
	for i := range m.Faces {
		a += m.FaceArea(i)
	}
	return a
}

// Bounds returns the axis-aligned bounding box of the vertices referenced
// by faces. An empty mesh yields zero vectors.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	first := true
	for _, f := range m.Faces {
		for _, vi := range f {
			v := m.Verts[vi]
			if first {
				min, max = v, v
				first = false
				continue
			}
			for k := 0; k < 3; k++ {
				min[k] = math.Min(min[k], v[k])
				max[k] = math.Max(max[k], v[k])
			}
		}
	}
	return min, max
}

// Finite reports whether every vertex coordinate is a finite number.
func (m *Mesh) Finite() bool {
	for _, v := range m.Verts {
		for k := 0; k < 3; k++ {
			if math.IsNaN(v[k]) || math.IsInf(v[k], 0) {
				return false
			}
		}
	}
	return true
}

// Transform applies an affine matrix to every vertex in place.
func (m *Mesh) Transform(t mgl64.Mat4) {
	for i, v := range m.Verts {
		m.Verts[i] = t.Mul4x1(v.Vec4(1)).Vec3()
	}
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d mgl64.Vec3) {
	for i := range m.Verts {
		m.Verts[i] = m.Verts[i].Add(d)
	}
}

// TransformAbout applies t in a frame whose origin is pivot.
func (m *Mesh) TransformAbout(t mgl64.Mat4, pivot mgl64.Vec3) {
	full := mgl64.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(t).
		Mul4(mgl64.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
	m.Transform(full)
}

// Append adds all faces of o to m, offsetting o's vertex indices. The
// vertices are not shared; use Weld to merge coincident ones.
func (m *Mesh) Append(o *Mesh) {
	base := len(m.Verts)
	m.Verts = append(m.Verts, o.Verts...)
	for _, f := range o.Faces {
		nf := make(Face, len(f))
		for j, vi := range f {
			nf[j] = vi + base
		}
		m.Faces = append(m.Faces, nf)
	}
}

// Compact drops vertices no face references and renumbers the faces.
func (m *Mesh) Compact() {
	remap := make([]int, len(m.Verts))
	for i := range remap {
		remap[i] = -1
	}
	verts := make([]mgl64.Vec3, 0, len(m.Verts))
	for _, f := range m.Faces {
		for j, vi := range f {
			if remap[vi] < 0 {
				remap[vi] = len(verts)
				verts = append(verts, m.Verts[vi])
			}
			f[j] = remap[vi]
		}
	}
	m.Verts = verts
}

// Triangles fans every face into triangles. Faces produced by this package
// are convex, so a fan is exact.
func (m *Mesh) Triangles() [][3]mgl64.Vec3 {
	var tris [][3]mgl64.Vec3
	for _, f := range m.Faces {
		for j := 1; j+1 < len(f); j++ {
			tris = append(tris, [3]mgl64.Vec3{m.Verts[f[0]], m.Verts[f[j]], m.Verts[f[j+1]]})
		}
	}
	return tris
}

// Volume returns the signed volume enclosed by the mesh. It is only
// meaningful for closed meshes.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, t := range m.Triangles() {
		v += t[0].Dot(t[1].Cross(t[2]))
	}
	return v / 6
}
