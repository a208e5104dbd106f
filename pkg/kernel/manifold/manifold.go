//go:build manifold

// Package manifold is a printable-part backend on the Manifold C library
// (https://github.com/elalish/manifold). Its booleans always return
// watertight meshes, so STL export of maze pieces skips marching cubes.
//
// Requires manifoldc. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/marblemaze/pkg/kernel"
	"github.com/chazu/marblemaze/pkg/kernel/sdfx"
)

// Available reports whether this build links the Manifold library.
const Available = true

var (
	_ kernel.Kernel = (*ManifoldKernel)(nil)
	_ kernel.Solid  = (*solid)(nil)
)

type solid struct {
	ptr *C.ManifoldManifold
}

// own hands ptr to the Go garbage collector.
func own(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func ptrOf(s kernel.Solid) *C.ManifoldManifold {
	return s.(*solid).ptr
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)
	min = [3]float64{
		float64(C.manifold_box_min_x(box)),
		float64(C.manifold_box_min_y(box)),
		float64(C.manifold_box_min_z(box)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(box)),
		float64(C.manifold_box_max_y(box)),
		float64(C.manifold_box_max_z(box)),
	}
	return min, max
}

// ManifoldKernel builds printable pieces with Manifold.
type ManifoldKernel struct{}

// New returns a ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box is centered on the origin.
func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	return own(C.manifold_cube(C.manifold_alloc_manifold(),
		C.double(x), C.double(y), C.double(z), C.int(1)))
}

// Cylinder runs along Z, centered on the origin.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return k.Cone(height, radius, radius, segments)
}

// Cone runs along Z, centered on the origin, with bottomRadius at
// -height/2 and topRadius at +height/2.
func (k *ManifoldKernel) Cone(height, bottomRadius, topRadius float64, segments int) kernel.Solid {
	return own(C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(height), C.double(bottomRadius), C.double(topRadius),
		C.int(segments), C.int(1)))
}

func (k *ManifoldKernel) Sphere(radius float64, segments int) kernel.Solid {
	return own(C.manifold_sphere(C.manifold_alloc_manifold(), C.double(radius), C.int(segments)))
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_union(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_difference(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_intersection(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return own(C.manifold_translate(C.manifold_alloc_manifold(), ptrOf(s),
		C.double(x), C.double(y), C.double(z)))
}

// Rotate applies Euler angles in degrees about X, then Y, then Z.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return own(C.manifold_rotate(C.manifold_alloc_manifold(), ptrOf(s),
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh copies the MeshGL of s. Positions are the first three vertex
// properties; normals, when present, the next three.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), ptrOf(s))
	defer C.manifold_delete_meshgl(gl)

	nv := int(C.manifold_meshgl_num_vert(gl))
	nt := int(C.manifold_meshgl_num_tri(gl))
	if nv == 0 || nt == 0 {
		return &kernel.Mesh{}, nil
	}
	np := int(C.manifold_meshgl_num_prop(gl))
	if np < 3 {
		return nil, fmt.Errorf("manifold: %d vertex properties, want at least 3", np)
	}

	props := make([]float32, nv*np)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	indices := make([]uint32, nt*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), gl)

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, nv*3),
		Indices:  indices,
	}
	for i := 0; i < nv; i++ {
		m.Vertices = append(m.Vertices, props[i*np:i*np+3]...)
	}
	if np >= 6 {
		m.Normals = make([]float32, 0, nv*3)
		for i := 0; i < nv; i++ {
			m.Normals = append(m.Normals, props[i*np+3:i*np+6]...)
		}
	} else {
		m.Normals = vertexNormals(m.Vertices, indices)
	}
	return m, nil
}

// WriteSTL writes the exact Manifold mesh of s to path.
func (k *ManifoldKernel) WriteSTL(s kernel.Solid, path string) error {
	m, err := k.ToMesh(s)
	if err != nil {
		return err
	}
	return sdfx.SaveMesh(m, path)
}

// vertexNormals averages the area-weighted normals of the triangles around
// each vertex.
func vertexNormals(vertices []float32, indices []uint32) []float32 {
	at := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{vertices[3*i], vertices[3*i+1], vertices[3*i+2]}
	}
	sum := make([]mgl32.Vec3, len(vertices)/3)
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := at(b).Sub(at(a)).Cross(at(c).Sub(at(a)))
		sum[a] = sum[a].Add(n)
		sum[b] = sum[b].Add(n)
		sum[c] = sum[c].Add(n)
	}
	out := make([]float32, 0, len(vertices))
	for _, n := range sum {
		if n.Len() > 1e-12 {
			n = n.Normalize()
		}
		out = append(out, n[0], n[1], n[2])
	}
	return out
}
