package mesh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Edge is a directed vertex pair as it appears in a face loop.
type Edge [2]int

func undirected(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// edgeUses counts how many faces use each undirected edge.
func (m *Mesh) edgeUses() map[Edge]int {
	uses := make(map[Edge]int)
	for _, f := range m.Faces {
		for j := range f {
			uses[undirected(f[j], f[(j+1)%len(f)])]++
		}
	}
	return uses
}

// BoundaryEdges returns the directed edges used by exactly one face, in face
// order.
func (m *Mesh) BoundaryEdges() []Edge {
	uses := m.edgeUses()
	var out []Edge
	for _, f := range m.Faces {
		for j := range f {
			a, b := f[j], f[(j+1)%len(f)]
			if uses[undirected(a, b)] == 1 {
				out = append(out, Edge{a, b})
			}
		}
	}
	return out
}

// IsClosed reports whether every edge is shared by exactly two faces.
func (m *Mesh) IsClosed() bool {
	if m.IsEmpty() {
		return false
	}
	for _, n := range m.edgeUses() {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsManifold reports whether no edge is shared by more than two faces.
func (m *Mesh) IsManifold() bool {
	for _, n := range m.edgeUses() {
		if n > 2 {
			return false
		}
	}
	return true
}

// BoundaryLoops counts the connected components of the boundary edges.
// A closed mesh has none; a support has two.
func (m *Mesh) BoundaryLoops() int {
	parent := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		r := find(p)
		parent[x] = r
		return r
	}
	for _, e := range m.BoundaryEdges() {
		ra, rb := find(e[0]), find(e[1])
		if ra != rb {
			parent[ra] = rb
		}
	}
	loops := 0
	for x := range parent {
		if find(x) == x {
			loops++
		}
	}
	return loops
}

// Weld merges vertices that fall in the same eps-sized grid cell, drops
// repeated indices inside faces and faces left with fewer than three
// vertices, then compacts the vertex list.
func (m *Mesh) Weld(eps float64) {
	type cell [3]int64
	first := make(map[cell]int)
	remap := make([]int, len(m.Verts))
	for i, v := range m.Verts {
		k := cell{
			int64(math.Round(v[0] / eps)),
			int64(math.Round(v[1] / eps)),
			int64(math.Round(v[2] / eps)),
		}
		if j, ok := first[k]; ok {
			remap[i] = j
			continue
		}
		first[k] = i
		remap[i] = i
	}
	faces := m.Faces[:0]
	for _, f := range m.Faces {
		nf := make(Face, 0, len(f))
		for _, vi := range f {
			vi = remap[vi]
			if len(nf) > 0 && nf[len(nf)-1] == vi {
				continue
			}
			nf = append(nf, vi)
		}
		if len(nf) > 1 && nf[0] == nf[len(nf)-1] {
			nf = nf[:len(nf)-1]
		}
		if len(nf) >= 3 {
			faces = append(faces, nf)
		}
	}
	m.Faces = faces
	m.Compact()
}

// loopsFrom chains directed edges into loops. Chains that do not return to
// their start are reported as open and skipped.
func loopsFrom(edges []Edge) []Face {
	next := make(map[int]int, len(edges))
	var order []int
	for _, e := range edges {
		if _, dup := next[e[0]]; dup {
			continue
		}
		next[e[0]] = e[1]
		order = append(order, e[0])
	}
	used := make(map[int]bool)
	var loops []Face
	for _, start := range order {
		if used[start] {
			continue
		}
		var loop Face
		v := start
		closed := false
		for {
			if used[v] {
				closed = v == start
				break
			}
			used[v] = true
			loop = append(loop, v)
			n, ok := next[v]
			if !ok {
				break
			}
			v = n
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// SplitTJunctions inserts into each face edge every vertex that lies on the
// edge's interior within eps, so that neighbouring faces split at different
// points share their edges again. Call after Weld.
func (m *Mesh) SplitTJunctions(eps float64) {
	if len(m.Verts) == 0 {
		return
	}
	var byAxis [3][]int
	for k := 0; k < 3; k++ {
		idx := make([]int, len(m.Verts))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return m.Verts[idx[a]][k] < m.Verts[idx[b]][k] })
		byAxis[k] = idx
	}

	type hit struct {
		t  float64
		vi int
	}
	onEdge := func(a, b int) []hit {
		pa, pb := m.Verts[a], m.Verts[b]
		d := pb.Sub(pa)
		l2 := d.Dot(d)
		if l2 == 0 {
			return nil
		}
		axis := 0
		for k := 1; k < 3; k++ {
			if math.Abs(d[k]) < math.Abs(d[axis]) {
				axis = k
			}
		}
		lo, hi := math.Min(pa[axis], pb[axis])-eps, math.Max(pa[axis], pb[axis])+eps
		idx := byAxis[axis]
		start := sort.Search(len(idx), func(i int) bool { return m.Verts[idx[i]][axis] >= lo })
		var hits []hit
		for _, vi := range idx[start:] {
			v := m.Verts[vi]
			if v[axis] > hi {
				break
			}
			if vi == a || vi == b {
				continue
			}
			t := v.Sub(pa).Dot(d) / l2
			if t <= 0 || t >= 1 {
				continue
			}
			if pa.Add(d.Mul(t)).Sub(v).Len() <= eps {
				hits = append(hits, hit{t, vi})
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })
		return hits
	}

	for fi, f := range m.Faces {
		var nf Face
		changed := false
		for j := range f {
			a, b := f[j], f[(j+1)%len(f)]
			nf = append(nf, a)
			for _, h := range onEdge(a, b) {
				nf = append(nf, h.vi)
				changed = true
			}
		}
		if changed {
			m.Faces[fi] = nf
		}
	}
}
