package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// planeEpsilon is the distance under which a vertex counts as lying on a
// bisecting plane.
const planeEpsilon = 1e-9

// Inset shrinks each selected face inward by thickness, bridging the old
// and new outlines with a ring of quads. The selected indices then refer to
// the inner faces. Faces must be convex.
func (m *Mesh) Inset(sel Selection, thickness float64) error {
	if thickness <= 0 {
		return fmt.Errorf("inset thickness %g: %w", thickness, ErrTopologyMismatch)
	}
	for _, fi := range sel {
		f := m.Faces[fi]
		n := m.FaceNormal(fi)
		c := m.FaceCenter(fi)
		for j := range f {
			v := m.Verts[f[j]]
			q := m.Verts[f[(j+1)%len(f)]]
			if n.Cross(q.Sub(v).Normalize()).Dot(c.Sub(v)) <= thickness {
				return fmt.Errorf("inset of %g collapses face %d: %w", thickness, fi, ErrTopologyMismatch)
			}
		}
		inner := make(Face, len(f))
		for j := range f {
			p := m.Verts[f[(j+len(f)-1)%len(f)]]
			v := m.Verts[f[j]]
			q := m.Verts[f[(j+1)%len(f)]]
			in1 := n.Cross(v.Sub(p).Normalize())
			in2 := n.Cross(q.Sub(v).Normalize())
			b := in1.Add(in2)
			if b.Len() < 1e-12 {
				b = in1
			}
			b = b.Normalize()
			w := v.Add(b.Mul(thickness / b.Dot(in1)))
			inner[j] = len(m.Verts)
			m.Verts = append(m.Verts, w)
		}
		for j := range f {
			k := (j + 1) % len(f)
			m.Faces = append(m.Faces, Face{f[j], f[k], inner[k], inner[j]})
		}
		m.Faces[fi] = inner
	}
	return nil
}

// DeleteFaces removes the selected faces and any vertices left unused.
func (m *Mesh) DeleteFaces(sel Selection) {
	drop := make(map[int]bool, len(sel))
	for _, fi := range sel {
		drop[fi] = true
	}
	faces := m.Faces[:0]
	for i, f := range m.Faces {
		if !drop[i] {
			faces = append(faces, f)
		}
	}
	m.Faces = faces
	m.Compact()
}

// MoveVerts translates the given vertices by d.
func (m *Mesh) MoveVerts(idx []int, d mgl64.Vec3) {
	for _, vi := range idx {
		m.Verts[vi] = m.Verts[vi].Add(d)
	}
}

// ScaleVerts scales the given vertices component-wise about pivot.
func (m *Mesh) ScaleVerts(idx []int, factor, pivot mgl64.Vec3) {
	for _, vi := range idx {
		r := m.Verts[vi].Sub(pivot)
		m.Verts[vi] = pivot.Add(mgl64.Vec3{r[0] * factor[0], r[1] * factor[1], r[2] * factor[2]})
	}
}

// BisectOptions controls what Bisect keeps. The outer side is the one the
// plane normal points to.
type BisectOptions struct {
	ClearOuter bool
	ClearInner bool
	// Fill caps every closed loop left on the plane with a face. Open
	// outlines are left alone.
	Fill bool
}

// Bisect splits every face crossing the plane through point with the given
// normal. Vertices created on a shared edge are shared by both faces.
func (m *Mesh) Bisect(point, normal mgl64.Vec3, opt BisectOptions) error {
	if normal.Len() == 0 {
		return fmt.Errorf("bisect with zero normal: %w", ErrTopologyMismatch)
	}
	normal = normal.Normalize()
	dist := make([]float64, len(m.Verts))
	for i, v := range m.Verts {
		d := normal.Dot(v.Sub(point))
		if math.Abs(d) < planeEpsilon {
			d = 0
		}
		dist[i] = d
	}

	cuts := make(map[Edge]int)
	cut := func(a, b int) int {
		key := undirected(a, b)
		if vi, ok := cuts[key]; ok {
			return vi
		}
		t := dist[a] / (dist[a] - dist[b])
		v := m.Verts[a].Add(m.Verts[b].Sub(m.Verts[a]).Mul(t))
		vi := len(m.Verts)
		m.Verts = append(m.Verts, v)
		dist = append(dist, 0)
		cuts[key] = vi
		return vi
	}

	var faces []Face
	for _, f := range m.Faces {
		var neg, pos bool
		for _, vi := range f {
			neg = neg || dist[vi] < 0
			pos = pos || dist[vi] > 0
		}
		switch {
		case !pos:
			if !opt.ClearInner {
				faces = append(faces, f)
			}
			continue
		case !neg:
			if !opt.ClearOuter {
				faces = append(faces, f)
			}
			continue
		}
		var inner, outer Face
		for j := range f {
			a, b := f[j], f[(j+1)%len(f)]
			if dist[a] <= 0 {
				inner = append(inner, a)
			}
			if dist[a] >= 0 {
				outer = append(outer, a)
			}
			if dist[a]*dist[b] < 0 {
				c := cut(a, b)
				inner = append(inner, c)
				outer = append(outer, c)
			}
		}
		if !opt.ClearInner && len(inner) >= 3 {
			faces = append(faces, inner)
		}
		if !opt.ClearOuter && len(outer) >= 3 {
			faces = append(faces, outer)
		}
	}
	m.Faces = faces

	if opt.Fill {
		var onPlane []Edge
		for _, e := range m.BoundaryEdges() {
			if dist[e[0]] == 0 && dist[e[1]] == 0 {
				onPlane = append(onPlane, Edge{e[1], e[0]})
			}
		}
		m.Faces = append(m.Faces, loopsFrom(onPlane)...)
	}
	m.Compact()
	return nil
}
