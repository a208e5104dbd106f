package maze

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/scene"
)

// flareEpsilon keeps faces that merely touch the mid plane out of the
// flared ring.
const flareEpsilon = 1e-9

// MakeFunnel builds a support whose top ring is widened by the flare
// factor about the tube axis. The bottom radius is unchanged.
func (b *Builder) MakeFunnel(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	return b.flared(name, loc, axisZ, scene.KindFunnel)
}

// MakeSupportBase is the upside-down funnel: a support with a widened foot.
func (b *Builder) MakeSupportBase(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	return b.flared(name, loc, axisZ.Mul(-1), scene.KindSupportBase)
}

func (b *Builder) flared(name string, loc, toward mgl64.Vec3, kind scene.Kind) (*scene.Solid, error) {
	s, err := b.hollowTube(name, loc)
	if err != nil {
		return nil, err
	}
	c := s.Origin

	b.step(name, "flare")
	ring := s.Mesh.Select(mesh.Beyond(toward, c.Dot(toward), flareEpsilon))
	f := b.cfg.Funnel.Flare
	s.Mesh.ScaleVerts(ring.Verts(s.Mesh), mgl64.Vec3{f, f, 1}, c)

	s.Kind = kind
	b.tagStructure(s)
	b.logger().Info("piece built", "kind", kind, "name", name)
	return s, nil
}
