package maze

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/scene"
)

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (b *Builder) place(name string, loc mgl64.Vec3, m *mesh.Mesh, scale mgl64.Vec3) (*scene.Solid, error) {
	if !finite(loc) || !finite(scale) {
		return nil, fmt.Errorf("maze: %q at %v scale %v: %w", name, loc, scale, ErrInvalidParameter)
	}
	pos := b.WorldPos(loc)
	m.Transform(mgl64.Scale3D(scale[0], scale[1], scale[2]))
	m.Translate(pos)
	s, err := b.doc.Create(name, m)
	if err != nil {
		return nil, err
	}
	s.Origin = pos
	return s, nil
}

// MakeCylinder creates a closed cylinder of radius 1 and depth 2 along Z.
func (b *Builder) MakeCylinder(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	return b.place(name, loc, mesh.Cylinder(b.cfg.Segments, 1, 2), mgl64.Vec3{1, 1, 1})
}

// MakePlane creates a 2x2 plane facing +Z scaled by sx and sy.
func (b *Builder) MakePlane(name string, loc mgl64.Vec3, sx, sy float64) (*scene.Solid, error) {
	return b.place(name, loc, mesh.Plane(2), mgl64.Vec3{sx, sy, 1})
}

// MakeDisc creates a filled unit circle facing +Z scaled by sx and sy.
func (b *Builder) MakeDisc(name string, loc mgl64.Vec3, sx, sy float64) (*scene.Solid, error) {
	return b.place(name, loc, mesh.Disc(b.cfg.Segments, 1), mgl64.Vec3{sx, sy, 1})
}

// MakeSphere creates a UV sphere of the given radius.
func (b *Builder) MakeSphere(name string, loc mgl64.Vec3, scale float64) (*scene.Solid, error) {
	return b.place(name, loc, mesh.UVSphere(b.cfg.Segments, b.cfg.Rings, 1), mgl64.Vec3{scale, scale, scale})
}
