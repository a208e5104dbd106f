package mesh_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
)

const tol = 1e-9

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// ngonArea is the area of a regular n-gon with circumradius r.
func ngonArea(n int, r float64) float64 {
	return 0.5 * float64(n) * r * r * math.Sin(2*math.Pi/float64(n))
}

func TestPrimitivesClosed(t *testing.T) {
	tests := []struct {
		name   string
		m      *mesh.Mesh
		closed bool
		faces  int
	}{
		{"cylinder", mesh.Cylinder(32, 1, 2), true, 34},
		{"sphere", mesh.UVSphere(32, 16, 1), true, 32 * 16},
		{"plane", mesh.Plane(2), false, 1},
		{"disc", mesh.Disc(32, 1), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsClosed(); got != tt.closed {
				t.Errorf("IsClosed = %v, want %v", got, tt.closed)
			}
			if got := tt.m.FaceCount(); got != tt.faces {
				t.Errorf("FaceCount = %d, want %d", got, tt.faces)
			}
		})
	}
}

func TestCylinderVolumeOutward(t *testing.T) {
	m := mesh.Cylinder(32, 1, 2)
	want := ngonArea(32, 1) * 2
	if v := m.Volume(); !near(v, want, 1e-9) {
		t.Errorf("Volume = %g, want %g (positive means outward faces)", v, want)
	}
}

func TestSphereVolumePositive(t *testing.T) {
	m := mesh.UVSphere(32, 16, 1)
	v := m.Volume()
	if v <= 0 || v > 4.0/3.0*math.Pi {
		t.Errorf("Volume = %g, want in (0, 4/3 pi]", v)
	}
}

func TestPlaneAndDisc(t *testing.T) {
	if a := mesh.Plane(2).Area(); !near(a, 4, tol) {
		t.Errorf("plane area = %g, want 4", a)
	}
	if a := mesh.Disc(32, 1).Area(); !near(a, ngonArea(32, 1), tol) {
		t.Errorf("disc area = %g", a)
	}
	if n := mesh.Plane(2).FaceNormal(0); !near(n.Z(), 1, tol) {
		t.Errorf("plane normal = %v, want +Z", n)
	}
}

func capSelection(m *mesh.Mesh) mesh.Selection {
	z := mgl64.Vec3{0, 0, 1}
	return m.Select(mesh.And(mesh.NormalAlong(z, 1e-6), mesh.AtExtremum(z, 1e-6)))
}

func TestSelectCaps(t *testing.T) {
	m := mesh.Cylinder(32, 1, 2)
	sel := capSelection(m)
	if len(sel) != 2 {
		t.Fatalf("selected %d caps, want 2", len(sel))
	}
	if got := len(sel.Verts(m)); got != 64 {
		t.Errorf("cap vertices = %d, want 64", got)
	}
}

func TestInsetDeleteOpensTwoLoops(t *testing.T) {
	m := mesh.Cylinder(32, 1, 2)
	sel := capSelection(m)
	if err := m.Inset(sel, 0.25); err != nil {
		t.Fatalf("Inset: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("inset mesh should still be closed")
	}
	for _, fi := range sel {
		for _, vi := range m.Faces[fi] {
			v := m.Verts[vi]
			r := math.Hypot(v.X(), v.Y())
			// the offset is measured from the edges, so the corners sit
			// slightly inside 0.75
			if !near(r, 0.75, 1e-3) {
				t.Fatalf("inner vertex radius = %g, want ~0.75", r)
			}
		}
	}
	m.DeleteFaces(sel)
	if got := m.BoundaryLoops(); got != 2 {
		t.Errorf("BoundaryLoops = %d, want 2", got)
	}
	if m.IsClosed() {
		t.Error("opened tube reported closed")
	}
}

func TestInsetTooThick(t *testing.T) {
	for _, thickness := range []float64{1.5, 0, -0.1} {
		m := mesh.Plane(2)
		if err := m.Inset(mesh.Selection{0}, thickness); !errors.Is(err, mesh.ErrTopologyMismatch) {
			t.Errorf("Inset(%g) = %v, want ErrTopologyMismatch", thickness, err)
		}
	}
}

func TestBisectFillsClosedCut(t *testing.T) {
	m := mesh.Cylinder(32, 1, 2)
	whole := m.Volume()
	err := m.Bisect(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mesh.BisectOptions{ClearOuter: true, Fill: true})
	if err != nil {
		t.Fatalf("Bisect: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("filled half cylinder should be closed")
	}
	if v := m.Volume(); !near(v, whole/2, 1e-9) {
		t.Errorf("Volume = %g, want %g", v, whole/2)
	}
	_, hi := m.Bounds()
	if hi.Y() > 1e-9 {
		t.Errorf("max Y = %g, want 0", hi.Y())
	}
}

func TestBisectOpenTubeLeavesOutlineOpen(t *testing.T) {
	m := mesh.Cylinder(32, 1, 2)
	sel := capSelection(m)
	if err := m.Inset(sel, 0.25); err != nil {
		t.Fatal(err)
	}
	m.DeleteFaces(sel)
	before := m.FaceCount()
	err := m.Bisect(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mesh.BisectOptions{ClearOuter: true, Fill: true})
	if err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() >= before {
		t.Errorf("FaceCount = %d, want fewer than %d", m.FaceCount(), before)
	}
	if got := m.BoundaryLoops(); got != 1 {
		t.Errorf("BoundaryLoops = %d, want a single open rim", got)
	}
}

func TestBisectSplitsCrossingFaces(t *testing.T) {
	m := mesh.Plane(2)
	err := m.Bisect(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, 1, 0}, mesh.BisectOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() != 2 {
		t.Fatalf("FaceCount = %d, want 2", m.FaceCount())
	}
	if len(m.Verts) != 6 {
		t.Errorf("vertex count = %d, want 6 (cut vertices shared)", len(m.Verts))
	}
	if a := m.Area(); !near(a, 4, tol) {
		t.Errorf("Area = %g, want 4", a)
	}
}

func TestWeld(t *testing.T) {
	a := mesh.Plane(2)
	b := mesh.Plane(2)
	b.Translate(mgl64.Vec3{2, 0, 0})
	a.Append(b)
	if len(a.Verts) != 8 {
		t.Fatalf("vertex count = %d, want 8", len(a.Verts))
	}
	a.Weld(1e-6)
	if len(a.Verts) != 6 {
		t.Errorf("welded vertex count = %d, want 6", len(a.Verts))
	}
	if got := a.BoundaryLoops(); got != 1 {
		t.Errorf("BoundaryLoops = %d, want 1", got)
	}
}

func TestIsManifold(t *testing.T) {
	m := mesh.Cylinder(8, 1, 2)
	if !m.IsManifold() {
		t.Fatal("cylinder should be manifold")
	}
	// A third face on edge {0, 1}.
	m.Faces = append(m.Faces, mesh.Face{1, 0, len(m.Verts)})
	m.Verts = append(m.Verts, mgl64.Vec3{0, 0, -5})
	if m.IsManifold() {
		t.Error("edge shared by three faces reported manifold")
	}
}

func TestScaleVertsAboutPivot(t *testing.T) {
	m := mesh.Disc(8, 1)
	idx := mesh.Selection{0}.Verts(m)
	m.ScaleVerts(idx, mgl64.Vec3{2, 2, 1}, mgl64.Vec3{})
	for _, v := range m.Verts {
		if r := math.Hypot(v.X(), v.Y()); !near(r, 2, tol) {
			t.Fatalf("radius = %g, want 2", r)
		}
	}
}

func TestTransformAbout(t *testing.T) {
	m := mesh.Plane(2)
	pivot := mgl64.Vec3{1, 1, 0}
	m.TransformAbout(mgl64.Scale3D(2, 2, 2), pivot)
	lo, hi := m.Bounds()
	if !lo.ApproxEqual(mgl64.Vec3{-3, -3, 0}) || !hi.ApproxEqual(mgl64.Vec3{1, 1, 0}) {
		t.Errorf("Bounds = %v %v", lo, hi)
	}
}

func TestCloneIndependent(t *testing.T) {
	m := mesh.Plane(2)
	c := m.Clone()
	c.Translate(mgl64.Vec3{1, 0, 0})
	c.Faces[0][0] = 3
	if m.Verts[0].X() != -1 || m.Faces[0][0] != 0 {
		t.Error("Clone shares storage with original")
	}
}
