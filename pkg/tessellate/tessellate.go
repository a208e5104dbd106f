// Package tessellate converts built maze pieces into flat-shaded triangle
// meshes for viewers. One mesh is produced per piece.
package tessellate

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/kernel"
	"github.com/chazu/marblemaze/pkg/layout"
	"github.com/chazu/marblemaze/pkg/mesh"
)

// Tessellate produces one triangle mesh per piece of l, in layout order.
// It is read-only and never mutates the pieces.
func Tessellate(l *layout.Layout) ([]*kernel.Mesh, error) {
	if l == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, l.Len())
	for _, p := range l.Pieces {
		if p.Solid == nil {
			return nil, fmt.Errorf("tessellate: piece %q has no geometry", p.Name())
		}
		km, err := Mesh(p.Name(), p.Solid.Mesh)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, km)
	}
	return meshes, nil
}

// Mesh triangulates m into the flat kernel.Mesh layout with one normal per
// triangle. Open shells have zero thickness, so their triangles are emitted
// a second time with reversed winding to stay visible from both sides.
func Mesh(name string, m *mesh.Mesh) (*kernel.Mesh, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("tessellate: piece %q is empty", name)
	}
	if !m.Finite() {
		return nil, fmt.Errorf("tessellate: piece %q has non-finite coordinates", name)
	}

	tris := m.Triangles()
	if !m.IsClosed() {
		n := len(tris)
		for i := 0; i < n; i++ {
			t := tris[i]
			tris = append(tris, [3]mgl64.Vec3{t[0], t[2], t[1]})
		}
	}

	out := &kernel.Mesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
		PartName: name,
	}
	for i, t := range tris {
		n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		for j := 0; j < 3; j++ {
			out.Vertices = append(out.Vertices, float32(t[j].X()), float32(t[j].Y()), float32(t[j].Z()))
			out.Normals = append(out.Normals, float32(n.X()), float32(n.Y()), float32(n.Z()))
			out.Indices = append(out.Indices, uint32(i*3+j))
		}
	}
	return out, nil
}
