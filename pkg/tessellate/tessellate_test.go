package tessellate_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/layout"
	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/tessellate"
)

// buildLayout builds one piece per spec into a fresh layout.
func buildLayout(t *testing.T, specs ...maze.PieceSpec) *layout.Layout {
	t.Helper()
	b := maze.NewBuilder(nil, maze.DefaultConfig())
	l := layout.New()
	for _, spec := range specs {
		s, err := b.Build(spec)
		if err != nil {
			t.Fatalf("build %s: %v", spec.Name, err)
		}
		l.Add(&layout.Piece{Spec: spec, Solid: s})
	}
	return l
}

func TestClosedPrimitive(t *testing.T) {
	m := mesh.Cylinder(mesh.DefaultSegments, 1, 2)

	km, err := tessellate.Mesh("cyl", m)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	// 32 side quads plus two 32-gon caps fanned into 30 triangles each.
	want := 2*32 + 2*30
	if km.TriangleCount() != want {
		t.Errorf("triangle count = %d, want %d", km.TriangleCount(), want)
	}
	if km.VertexCount() != want*3 {
		t.Errorf("vertex count = %d, want %d", km.VertexCount(), want*3)
	}
	if len(km.Normals) != len(km.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(km.Normals), len(km.Vertices))
	}
	if km.PartName != "cyl" {
		t.Errorf("PartName = %q, want cyl", km.PartName)
	}
}

func TestOpenShellIsDoubleSided(t *testing.T) {
	m := mesh.Plane(1)

	km, err := tessellate.Mesh("plane", m)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if km.TriangleCount() != 4 {
		t.Fatalf("triangle count = %d, want 4", km.TriangleCount())
	}
	// Front triangles face +Z, the copies face -Z.
	for tri := 0; tri < 4; tri++ {
		nz := km.Normals[tri*9+2]
		want := float32(1)
		if tri >= 2 {
			want = -1
		}
		if math.Abs(float64(nz-want)) > 1e-6 {
			t.Errorf("triangle %d normal z = %f, want %f", tri, nz, want)
		}
	}
}

func TestTessellateLayout(t *testing.T) {
	l := buildLayout(t,
		maze.PieceSpec{Kind: "support", Name: "S0"},
		maze.PieceSpec{Kind: "marble", Name: "M0", Location: mgl64.Vec3{0, 0, 2}},
	)

	meshes, err := tessellate.Tessellate(l)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for i, name := range []string{"S0", "M0"} {
		if meshes[i].PartName != name {
			t.Errorf("mesh %d PartName = %q, want %q", i, meshes[i].PartName, name)
		}
		if meshes[i].IsEmpty() {
			t.Errorf("mesh %s is empty", name)
		}
	}

	// The marble sits at z = 2*1.5 + 0.75 with radius 0.25.
	min, max := meshes[1].Bounds()
	if math.Abs(float64(min[2])-3.5) > 1e-4 || math.Abs(float64(max[2])-4.0) > 1e-4 {
		t.Errorf("marble Z extent = [%f, %f], want [3.5, 4]", min[2], max[2])
	}
}

func TestTessellateErrors(t *testing.T) {
	t.Run("nil layout", func(t *testing.T) {
		meshes, err := tessellate.Tessellate(nil)
		if err != nil || meshes != nil {
			t.Errorf("Tessellate(nil) = %v, %v, want nil, nil", meshes, err)
		}
	})

	t.Run("empty layout", func(t *testing.T) {
		meshes, err := tessellate.Tessellate(layout.New())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(meshes) != 0 {
			t.Errorf("expected no meshes, got %d", len(meshes))
		}
	})

	t.Run("piece without solid", func(t *testing.T) {
		l := layout.New()
		l.Add(&layout.Piece{Spec: maze.PieceSpec{Kind: "support", Name: "ghost"}})
		if _, err := tessellate.Tessellate(l); err == nil {
			t.Error("expected error for piece without geometry")
		}
	})

	t.Run("empty mesh", func(t *testing.T) {
		if _, err := tessellate.Mesh("empty", &mesh.Mesh{}); err == nil {
			t.Error("expected error for empty mesh")
		}
	})

	t.Run("non-finite", func(t *testing.T) {
		m := mesh.Plane(1)
		m.Verts[0] = mgl64.Vec3{math.NaN(), 0, 0}
		if _, err := tessellate.Mesh("nan", m); err == nil {
			t.Error("expected error for non-finite coordinates")
		}
	})
}
