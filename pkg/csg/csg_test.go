package csg_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/csg"
	"github.com/chazu/marblemaze/pkg/mesh"
)

// cube returns a closed axis-aligned cube with outward faces.
func cube(c mgl64.Vec3, h float64) *mesh.Mesh {
	m := &mesh.Mesh{}
	for _, z := range []float64{-h, h} {
		m.Verts = append(m.Verts,
			c.Add(mgl64.Vec3{-h, -h, z}),
			c.Add(mgl64.Vec3{h, -h, z}),
			c.Add(mgl64.Vec3{h, h, z}),
			c.Add(mgl64.Vec3{-h, h, z}),
		)
	}
	m.Faces = []mesh.Face{
		{3, 2, 1, 0}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // -Y
		{1, 2, 6, 5}, // +X
		{2, 3, 7, 6}, // +Y
		{3, 0, 4, 7}, // -X
	}
	return m
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCubeHelperClosed(t *testing.T) {
	m := cube(mgl64.Vec3{}, 1)
	if !m.IsClosed() {
		t.Fatal("cube not closed")
	}
	if v := m.Volume(); !near(v, 8, 1e-12) {
		t.Fatalf("cube volume = %g, want 8", v)
	}
}

func TestClosedBooleans(t *testing.T) {
	tests := []struct {
		name   string
		op     func(a, b *mesh.Mesh) (*mesh.Mesh, error)
		a, b   *mesh.Mesh
		volume float64
	}{
		{"union overlapping", csg.Union, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{1, 0, 0}, 1), 12},
		{"union disjoint", csg.Union, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{5, 0, 0}, 1), 16},
		{"difference corner", csg.Difference, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{1, 1, 1}, 0.5), 8 - 0.125},
		{"difference disjoint", csg.Difference, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{5, 0, 0}, 1), 8},
		{"intersection", csg.Intersection, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{1, 0, 0}, 1), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v := got.Volume(); !near(v, tt.volume, 1e-9) {
				t.Errorf("Volume = %g, want %g", v, tt.volume)
			}
			if !got.IsClosed() {
				t.Error("result not closed")
			}
		})
	}
}

func TestOperandsUntouched(t *testing.T) {
	a := cube(mgl64.Vec3{}, 1)
	b := cube(mgl64.Vec3{1, 0, 0}, 1)
	if _, err := csg.Union(a, b); err != nil {
		t.Fatal(err)
	}
	if len(a.Faces) != 6 || len(b.Faces) != 6 {
		t.Error("operands were modified")
	}
}

func TestUnionOpenShellsKeepsEveryFace(t *testing.T) {
	a := mesh.Plane(2)
	b := mesh.Plane(2)
	b.Transform(mgl64.HomogRotate3DX(math.Pi / 2))
	got, err := csg.Union(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got.FaceCount() != 2 {
		t.Errorf("FaceCount = %d, want 2", got.FaceCount())
	}
	if !near(got.Area(), 8, 1e-9) {
		t.Errorf("Area = %g, want 8", got.Area())
	}
}

func TestUnionOpenShellInsideClosedIsDropped(t *testing.T) {
	ramp := mesh.Plane(1)
	got, err := csg.Union(ramp, cube(mgl64.Vec3{}, 1))
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Volume(); !near(v, 8, 1e-9) {
		t.Errorf("Volume = %g, want 8", v)
	}
	if !got.IsClosed() {
		t.Error("interior ramp should have been removed")
	}
}

func TestDifferenceTrimsOpenPrimary(t *testing.T) {
	sheet := mesh.Plane(2)
	got, err := csg.Difference(sheet, cube(mgl64.Vec3{1, 1, 0}, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if a := got.Area(); !near(a, 4-0.25, 1e-9) {
		t.Errorf("Area = %g, want 3.75", a)
	}
}

func TestDifferenceDisjointKeepsArea(t *testing.T) {
	sheet := mesh.Plane(2)
	got, err := csg.Difference(sheet, cube(mgl64.Vec3{0, 0, 5}, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if a := got.Area(); !near(a, 4, 1e-12) {
		t.Errorf("Area = %g, want 4", a)
	}
}

func TestDifferenceCylinderBlindHole(t *testing.T) {
	wall := mesh.Cylinder(32, 0.5, 1.5)
	cutter := mesh.Cylinder(32, 0.2, 2)
	cutter.Transform(mgl64.HomogRotate3DX(math.Pi / 2))
	cutter.Translate(mgl64.Vec3{0, -0.8, 0})
	got, err := csg.Difference(wall, cutter)
	if err != nil {
		t.Fatal(err)
	}
	before := wall.Volume()
	// the bore is at most 0.7 deep
	if v := got.Volume(); v >= before || v < before-math.Pi*0.04*0.7 {
		t.Errorf("Volume = %g, want within a bore of %g", v, before)
	}
	if got.FaceCount() <= wall.FaceCount() {
		t.Errorf("FaceCount = %d, want more than %d", got.FaceCount(), wall.FaceCount())
	}
}

func TestFailures(t *testing.T) {
	nan := cube(mgl64.Vec3{}, 1)
	nan.Verts[0] = mgl64.Vec3{math.NaN(), 0, 0}

	tests := []struct {
		name string
		op   func(a, b *mesh.Mesh) (*mesh.Mesh, error)
		a, b *mesh.Mesh
	}{
		{"empty primary", csg.Union, &mesh.Mesh{}, cube(mgl64.Vec3{}, 1)},
		{"nil secondary", csg.Union, cube(mgl64.Vec3{}, 1), nil},
		{"non-finite", csg.Difference, nan, cube(mgl64.Vec3{}, 1)},
		{"open cutter", csg.Difference, cube(mgl64.Vec3{}, 1), mesh.Plane(1)},
		{"open intersection", csg.Intersection, mesh.Plane(1), cube(mgl64.Vec3{}, 1)},
		{"empty intersection", csg.Intersection, cube(mgl64.Vec3{}, 1), cube(mgl64.Vec3{5, 0, 0}, 1)},
		{"everything removed", csg.Difference, cube(mgl64.Vec3{}, 0.5), cube(mgl64.Vec3{}, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op(tt.a, tt.b)
			if !errors.Is(err, csg.ErrBooleanOpFailed) {
				t.Errorf("err = %v, want ErrBooleanOpFailed", err)
			}
		})
	}
}

func TestUnionRejectsThreeFacesOnOneEdge(t *testing.T) {
	// Two sheets hinged on the Y axis, and a fin hanging from the same hinge.
	hinge := &mesh.Mesh{
		Verts: []mgl64.Vec3{
			{-1, -1, 1}, {0, -1, 0}, {0, 1, 0}, {-1, 1, 1},
			{1, -1, 1}, {1, 1, 1},
		},
		Faces: []mesh.Face{{0, 1, 2, 3}, {1, 4, 5, 2}},
	}
	fin := &mesh.Mesh{
		Verts: []mgl64.Vec3{{0, -1, 0}, {0, 1, 0}, {0, 1, -1}, {0, -1, -1}},
		Faces: []mesh.Face{{0, 1, 2, 3}},
	}
	if !hinge.IsManifold() || !fin.IsManifold() {
		t.Fatal("operands should be manifold on their own")
	}

	_, err := csg.Union(hinge, fin)
	if !errors.Is(err, csg.ErrBooleanOpFailed) {
		t.Fatalf("err = %v, want ErrBooleanOpFailed", err)
	}
}
