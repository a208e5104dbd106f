package csg

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// splitEpsilon is the slab half-width within which a vertex counts as
// lying on a splitting plane.
const splitEpsilon = 1e-9

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = front | back
)

type plane struct {
	n mgl64.Vec3
	w float64
}

func (p plane) dist(v mgl64.Vec3) float64 {
	return p.n.Dot(v) - p.w
}

type box struct {
	lo, hi mgl64.Vec3
}

func (b box) overlaps(o box, eps float64) bool {
	for k := 0; k < 3; k++ {
		if b.lo[k] > o.hi[k]+eps || o.lo[k] > b.hi[k]+eps {
			return false
		}
	}
	return true
}

// polygon is a convex planar loop of positions, counter-clockwise around
// its plane normal.
type polygon struct {
	verts []mgl64.Vec3
	plane plane
	box   box
}

func newPolygon(verts []mgl64.Vec3, pl plane) polygon {
	b := box{lo: verts[0], hi: verts[0]}
	for _, v := range verts[1:] {
		for k := 0; k < 3; k++ {
			b.lo[k] = math.Min(b.lo[k], v[k])
			b.hi[k] = math.Max(b.hi[k], v[k])
		}
	}
	return polygon{verts: verts, plane: pl, box: b}
}

func (p polygon) centroid() mgl64.Vec3 {
	var c mgl64.Vec3
	for _, v := range p.verts {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p.verts)))
}

func (p polygon) area() float64 {
	var sum mgl64.Vec3
	for j := range p.verts {
		sum = sum.Add(p.verts[j].Cross(p.verts[(j+1)%len(p.verts)]))
	}
	return 0.5 * math.Abs(sum.Dot(p.plane.n))
}

// inradius is the smallest distance from the centroid to an edge line.
func (p polygon) inradius() float64 {
	c := p.centroid()
	r := math.Inf(1)
	for j := range p.verts {
		a, b := p.verts[j], p.verts[(j+1)%len(p.verts)]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		r = math.Min(r, d.Cross(c.Sub(a)).Len()/l)
	}
	return r
}

func (p polygon) flipped() polygon {
	v := make([]mgl64.Vec3, len(p.verts))
	for i, x := range p.verts {
		v[len(v)-1-i] = x
	}
	return polygon{verts: v, plane: plane{n: p.plane.n.Mul(-1), w: -p.plane.w}, box: p.box}
}

// intersect returns the point where segment a-b meets pl. The endpoints
// are ordered first so both faces sharing an edge compute the same point.
func intersect(pl plane, a, b mgl64.Vec3) mgl64.Vec3 {
	if less(b, a) {
		a, b = b, a
	}
	da, db := pl.dist(a), pl.dist(b)
	t := da / (da - db)
	return a.Add(b.Sub(a).Mul(t))
}

func less(a, b mgl64.Vec3) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

// split cuts p by pl. A polygon lying in pl, or wholly on one side, comes
// back unchanged as the only element.
func split(pl plane, p polygon) []polygon {
	types := make([]int, len(p.verts))
	kind := coplanar
	for i, v := range p.verts {
		d := pl.dist(v)
		t := coplanar
		if d < -splitEpsilon {
			t = back
		} else if d > splitEpsilon {
			t = front
		}
		types[i] = t
		kind |= t
	}
	if kind != spanning {
		return []polygon{p}
	}
	var f, b []mgl64.Vec3
	for i, vi := range p.verts {
		j := (i + 1) % len(p.verts)
		ti, tj := types[i], types[j]
		if ti != back {
			f = append(f, vi)
		}
		if ti != front {
			b = append(b, vi)
		}
		if ti|tj == spanning {
			x := intersect(pl, vi, p.verts[j])
			f = append(f, x)
			b = append(b, x)
		}
	}
	var out []polygon
	if len(f) >= 3 {
		out = append(out, newPolygon(f, p.plane))
	}
	if len(b) >= 3 {
		out = append(out, newPolygon(b, p.plane))
	}
	return out
}
