package maze

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/physics"
	"github.com/chazu/marblemaze/pkg/scene"
)

// MakeMarble creates the rolling ball as a dynamic sphere body.
func (b *Builder) MakeMarble(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	mc := b.cfg.Marble
	s, err := b.MakeSphere(name, loc, mc.Radius)
	if err != nil {
		return nil, b.fail(name, "sphere", err)
	}
	s.Kind = scene.KindMarble
	physics.TagDynamic(s,
		physics.WithShape(physics.ShapeSphere),
		physics.WithMass(mc.Mass),
		physics.WithFriction(mc.Friction),
		physics.WithRestitution(mc.Restitution),
	)
	b.logger().Info("piece built", "kind", s.Kind, "name", name)
	return s, nil
}

// MakeGround creates the square base plane the maze stands on: 2*size
// wide, centred on the origin at Z=0.
func (b *Builder) MakeGround(name string, size float64) (*scene.Solid, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, b.fail(name, "validate", fmt.Errorf("ground size %g: %w", size, ErrInvalidParameter))
	}
	m := mesh.Plane(2 * size)
	s, err := b.doc.Create(name, m)
	if err != nil {
		return nil, b.fail(name, "plane", err)
	}
	s.Kind = scene.KindGround
	physics.TagStatic(s, physics.ShapeBox)
	b.logger().Info("piece built", "kind", s.Kind, "name", name, "size", size)
	return s, nil
}
