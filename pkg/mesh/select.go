package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Selection is a set of face indices chosen by a predicate. It is only valid
// until the next operation that adds or removes faces.
type Selection []int

// Predicate decides whether face i of m belongs to a selection.
type Predicate func(m *Mesh, i int) bool

// Select returns the faces of m matching p, in face order.
func (m *Mesh) Select(p Predicate) Selection {
	var sel Selection
	for i := range m.Faces {
		if p(m, i) {
			sel = append(sel, i)
		}
	}
	return sel
}

// Verts returns the distinct vertex indices used by the selected faces.
func (s Selection) Verts(m *Mesh) []int {
	seen := make(map[int]bool)
	var out []int
	for _, fi := range s {
		for _, vi := range m.Faces[fi] {
			if !seen[vi] {
				seen[vi] = true
				out = append(out, vi)
			}
		}
	}
	return out
}

// And matches faces accepted by every predicate.
func And(ps ...Predicate) Predicate {
	return func(m *Mesh, i int) bool {
		for _, p := range ps {
			if !p(m, i) {
				return false
			}
		}
		return true
	}
}

// NormalAlong matches faces whose normal is parallel or anti-parallel to
// axis within tol (1 - |cos|).
func NormalAlong(axis mgl64.Vec3, tol float64) Predicate {
	axis = axis.Normalize()
	return func(m *Mesh, i int) bool {
		return 1-math.Abs(m.FaceNormal(i).Dot(axis)) <= tol
	}
}

// AtExtremum matches faces whose centre lies within eps of the mesh's
// minimum or maximum extent along axis.
func AtExtremum(axis mgl64.Vec3, eps float64) Predicate {
	axis = axis.Normalize()
	var lo, hi float64
	var cached *Mesh
	return func(m *Mesh, i int) bool {
		if cached != m {
			lo, hi = extent(m, axis)
			cached = m
		}
		c := m.FaceCenter(i).Dot(axis)
		return math.Abs(c-lo) <= eps || math.Abs(c-hi) <= eps
	}
}

// Beyond matches faces whose every vertex projects past value along axis by
// more than eps.
func Beyond(axis mgl64.Vec3, value, eps float64) Predicate {
	axis = axis.Normalize()
	return func(m *Mesh, i int) bool {
		for _, vi := range m.Faces[i] {
			if m.Verts[vi].Dot(axis) <= value+eps {
				return false
			}
		}
		return true
	}
}

func extent(m *Mesh, axis mgl64.Vec3) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, f := range m.Faces {
		for _, vi := range f {
			d := m.Verts[vi].Dot(axis)
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
	}
	return lo, hi
}
