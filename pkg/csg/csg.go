// Package csg implements boolean operations on polygon meshes.
//
// Each operand's faces are split by the planes of the other operand's
// faces wherever their bounding boxes meet, so that no resulting fragment
// crosses the other surface. Fragments are then classified by the
// generalized winding number of the other operand, sampled a short distance
// in front of and behind the fragment.
//
// Only closed operands bound a volume. An open shell (a tube, a ramp
// plane) can be unioned with anything and trimmed by a closed cutter, but
// it can never act as the cutter itself.
package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
)

// ErrBooleanOpFailed is returned for degenerate operands or results.
var ErrBooleanOpFailed = errors.New("boolean operation failed")

const (
	weldEpsilon   = 1e-7
	sampleEpsilon = 1e-5
	areaEpsilon   = 1e-12
)

type operand struct {
	polys  []polygon
	tris   [][3]mgl64.Vec3
	closed bool
	box    box
}

func prepare(m *mesh.Mesh, role string) (*operand, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("csg: %s operand is empty: %w", role, ErrBooleanOpFailed)
	}
	if !m.Finite() {
		return nil, fmt.Errorf("csg: %s operand has non-finite coordinates: %w", role, ErrBooleanOpFailed)
	}
	w := m.Clone()
	w.Weld(weldEpsilon)
	w.SplitTJunctions(weldEpsilon)
	op := &operand{closed: w.IsClosed(), tris: w.Triangles()}
	for i, f := range w.Faces {
		if w.FaceArea(i) < areaEpsilon {
			continue
		}
		n := w.FaceNormal(i)
		verts := make([]mgl64.Vec3, len(f))
		for j, vi := range f {
			verts[j] = w.Verts[vi]
		}
		op.polys = append(op.polys, newPolygon(verts, plane{n: n, w: n.Dot(w.FaceCenter(i))}))
	}
	if len(op.polys) == 0 {
		return nil, fmt.Errorf("csg: %s operand is degenerate: %w", role, ErrBooleanOpFailed)
	}
	lo, hi := w.Bounds()
	op.box = box{lo: lo, hi: hi}
	return op, nil
}

// inside reports whether p is enclosed by the operand.
func (o *operand) inside(p mgl64.Vec3) bool {
	return winding(p, o.tris) > 0.5
}

// winding returns the generalized winding number of p with respect to the
// triangles: the sum of their signed solid angles over 4π.
func winding(p mgl64.Vec3, tris [][3]mgl64.Vec3) float64 {
	var sum float64
	for _, t := range tris {
		a, b, c := t[0].Sub(p), t[1].Sub(p), t[2].Sub(p)
		la, lb, lc := a.Len(), b.Len(), c.Len()
		num := a.Dot(b.Cross(c))
		den := la*lb*lc + a.Dot(b)*lc + a.Dot(c)*lb + b.Dot(c)*la
		sum += 2 * math.Atan2(num, den)
	}
	return sum / (4 * math.Pi)
}

// fragments splits every polygon of a wherever the surface of b may cross
// it.
func fragments(a, b *operand) []polygon {
	var out []polygon
	for _, p := range a.polys {
		if !p.box.overlaps(b.box, weldEpsilon) {
			out = append(out, p)
			continue
		}
		frags := []polygon{p}
		for _, q := range b.polys {
			if !q.box.overlaps(p.box, weldEpsilon) {
				continue
			}
			var next []polygon
			for _, f := range frags {
				if f.box.overlaps(q.box, weldEpsilon) {
					next = append(next, split(q.plane, f)...)
				} else {
					next = append(next, f)
				}
			}
			frags = next
		}
		out = append(out, frags...)
	}
	return out
}

// samples returns points just in front of and just behind a fragment. ok is
// false for slivers too thin to sample.
func samples(f polygon) (ahead, behind mgl64.Vec3, ok bool) {
	if f.area() < areaEpsilon {
		return ahead, behind, false
	}
	eps := math.Min(sampleEpsilon, 0.1*f.inradius())
	if !(eps > 0) {
		return ahead, behind, false
	}
	c := f.centroid()
	d := f.plane.n.Mul(eps)
	return c.Add(d), c.Sub(d), true
}

func assemble(polys []polygon, op string) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}
	for _, p := range polys {
		f := make(mesh.Face, len(p.verts))
		for j, v := range p.verts {
			f[j] = len(m.Verts)
			m.Verts = append(m.Verts, v)
		}
		m.Faces = append(m.Faces, f)
	}
	m.Weld(weldEpsilon)
	m.SplitTJunctions(weldEpsilon)
	if m.IsEmpty() {
		return nil, fmt.Errorf("csg: %s produced an empty result: %w", op, ErrBooleanOpFailed)
	}
	if !m.IsManifold() {
		return nil, fmt.Errorf("csg: %s produced a non-manifold result: %w", op, ErrBooleanOpFailed)
	}
	return m, nil
}

// Union merges a and b. Surface of one operand inside the other is
// removed only when that other operand is closed.
func Union(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	A, err := prepare(a, "primary")
	if err != nil {
		return nil, err
	}
	B, err := prepare(b, "secondary")
	if err != nil {
		return nil, err
	}

	var out []polygon
	if B.closed {
		for _, f := range fragments(A, B) {
			if ahead, _, ok := samples(f); ok && !B.inside(ahead) {
				out = append(out, f)
			}
		}
	} else {
		out = append(out, A.polys...)
	}
	if A.closed {
		for _, f := range fragments(B, A) {
			if ahead, behind, ok := samples(f); ok && !A.inside(ahead) && !A.inside(behind) {
				out = append(out, f)
			}
		}
	} else {
		out = append(out, B.polys...)
	}
	return assemble(out, "union")
}

// Difference removes the volume of b from a. b must be closed. An open a
// is trimmed; a closed a is also capped with the part of b's surface that
// lies inside it.
func Difference(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	A, err := prepare(a, "primary")
	if err != nil {
		return nil, err
	}
	B, err := prepare(b, "secondary")
	if err != nil {
		return nil, err
	}
	if !B.closed {
		return nil, fmt.Errorf("csg: difference cutter is not closed: %w", ErrBooleanOpFailed)
	}

	var out []polygon
	for _, f := range fragments(A, B) {
		if _, behind, ok := samples(f); ok && !B.inside(behind) {
			out = append(out, f)
		}
	}
	if A.closed {
		for _, f := range fragments(B, A) {
			if ahead, behind, ok := samples(f); ok && A.inside(ahead) && A.inside(behind) {
				out = append(out, f.flipped())
			}
		}
	}
	return assemble(out, "difference")
}

// Intersection keeps the volume common to a and b. Both must be closed.
func Intersection(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	A, err := prepare(a, "primary")
	if err != nil {
		return nil, err
	}
	B, err := prepare(b, "secondary")
	if err != nil {
		return nil, err
	}
	if !A.closed || !B.closed {
		return nil, fmt.Errorf("csg: intersection needs closed operands: %w", ErrBooleanOpFailed)
	}

	var out []polygon
	for _, f := range fragments(A, B) {
		if _, behind, ok := samples(f); ok && B.inside(behind) {
			out = append(out, f)
		}
	}
	for _, f := range fragments(B, A) {
		if ahead, behind, ok := samples(f); ok && A.inside(ahead) && A.inside(behind) {
			out = append(out, f)
		}
	}
	return assemble(out, "intersection")
}
