package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Default tessellation of the primitives, matching the usual modelling-host
// defaults so that empirically tuned constants keep their meaning.
const (
	DefaultSegments = 32
	DefaultRings    = 16
)

// Cylinder returns a closed cylinder centred on the origin along Z with
// n-gon caps. Side face k spans ring vertices k and k+1.
func Cylinder(segments int, radius, depth float64) *Mesh {
	m := &Mesh{}
	h := depth / 2
	for _, z := range []float64{-h, h} {
		for k := 0; k < segments; k++ {
			a := 2 * math.Pi * float64(k) / float64(segments)
			m.Verts = append(m.Verts, mgl64.Vec3{radius * math.Cos(a), radius * math.Sin(a), z})
		}
	}
	for k := 0; k < segments; k++ {
		k1 := (k + 1) % segments
		m.Faces = append(m.Faces, Face{k, k1, segments + k1, segments + k})
	}
	top := make(Face, segments)
	bottom := make(Face, segments)
	for k := 0; k < segments; k++ {
		top[k] = segments + k
		bottom[k] = segments - 1 - k
	}
	m.Faces = append(m.Faces, bottom, top)
	return m
}

// Plane returns a single square face of the given full size in the XY
// plane, facing +Z.
func Plane(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Verts: []mgl64.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}},
		Faces: []Face{{0, 1, 2, 3}},
	}
}

// Disc returns a filled n-gon of the given radius in the XY plane, facing +Z.
func Disc(segments int, radius float64) *Mesh {
	m := &Mesh{}
	f := make(Face, segments)
	for k := 0; k < segments; k++ {
		a := 2 * math.Pi * float64(k) / float64(segments)
		m.Verts = append(m.Verts, mgl64.Vec3{radius * math.Cos(a), radius * math.Sin(a), 0})
		f[k] = k
	}
	m.Faces = []Face{f}
	return m
}

// UVSphere returns a closed latitude/longitude sphere centred on the origin.
func UVSphere(segments, rings int, radius float64) *Mesh {
	m := &Mesh{}
	m.Verts = append(m.Verts, mgl64.Vec3{0, 0, radius})
	for i := 1; i < rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		rho, z := radius*math.Sin(phi), radius*math.Cos(phi)
		for k := 0; k < segments; k++ {
			a := 2 * math.Pi * float64(k) / float64(segments)
			m.Verts = append(m.Verts, mgl64.Vec3{rho * math.Cos(a), rho * math.Sin(a), z})
		}
	}
	south := len(m.Verts)
	m.Verts = append(m.Verts, mgl64.Vec3{0, 0, -radius})

	ring := func(i, k int) int { return 1 + (i-1)*segments + k%segments }
	for k := 0; k < segments; k++ {
		m.Faces = append(m.Faces, Face{0, ring(1, k), ring(1, k+1)})
	}
	for i := 1; i < rings-1; i++ {
		for k := 0; k < segments; k++ {
			m.Faces = append(m.Faces, Face{ring(i, k), ring(i+1, k), ring(i+1, k+1), ring(i, k+1)})
		}
	}
	for k := 0; k < segments; k++ {
		m.Faces = append(m.Faces, Face{south, ring(rings-1, k+1), ring(rings-1, k)})
	}
	return m
}
