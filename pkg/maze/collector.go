package maze

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/scene"
)

// MakeCollector builds the terminal basin: a support with an exit bore cut
// through its -Y wall, an egress ramp leading to that bore, a wide low
// retaining ring around its foot and a tilted floor disc inside the ring.
// Marbles enter through "top" and leave through "exit".
func (b *Builder) MakeCollector(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	cc := b.cfg.Collector
	s, err := b.hollowTube(name, loc)
	if err != nil {
		return nil, err
	}
	c := s.Origin
	floor := c.Sub(mgl64.Vec3{0, 0, b.cfg.Support.HalfHeight})

	b.step(name, "exit bore")
	hole, err := b.MakeCylinder(name+".hole", loc)
	if err != nil {
		return nil, b.fail(name, "exit bore", err)
	}
	bore := b.cfg.Support.BoreRadius()
	hole.Mesh.TransformAbout(
		mgl64.HomogRotate3DX(cc.HoleTilt).Mul4(mgl64.Scale3D(bore, bore, cc.HoleHalfLength)),
		c,
	)
	hole.Mesh.Translate(cc.HoleOffset)
	if err := b.Difference(s, hole); err != nil {
		return nil, b.fail(name, "exit bore", err)
	}

	b.step(name, "egress ramp")
	rc := cc.Ramp
	ramp, err := b.MakePlane(name+".ramp", loc, rc.HalfWidth, rc.HalfDepth)
	if err != nil {
		return nil, b.fail(name, "egress ramp", err)
	}
	ramp.Mesh.TransformAbout(mgl64.HomogRotate3DX(rc.Tilt), ramp.Origin)
	ramp.Mesh.Translate(rc.Offset)
	if err := b.Union(s, ramp); err != nil {
		return nil, b.fail(name, "egress ramp", err)
	}

	b.step(name, "retaining ring")
	ring, err := b.hollowTube(name+".ring", loc)
	if err != nil {
		return nil, err
	}
	ring.Mesh.TransformAbout(mgl64.Scale3D(cc.RingScale, cc.RingScale, cc.RingHeight), floor)
	if err := b.Union(s, ring); err != nil {
		return nil, b.fail(name, "retaining ring", err)
	}

	b.step(name, "floor disc")
	r := b.cfg.Support.Radius * cc.RingScale
	disc, err := b.MakeDisc(name+".disc", loc, r, r)
	if err != nil {
		return nil, b.fail(name, "floor disc", err)
	}
	disc.Mesh.TransformAbout(mgl64.HomogRotate3DX(cc.DiscTilt), disc.Origin)
	disc.Mesh.Translate(floor.Sub(disc.Origin).Add(mgl64.Vec3{0, 0, cc.DiscLift}))
	if err := b.Union(s, disc); err != nil {
		return nil, b.fail(name, "floor disc", err)
	}

	s.Kind = scene.KindCollector
	exit := c.Add(cc.HoleOffset)
	exit[1] = c[1] - b.cfg.Support.Radius
	s.Ports = []scene.Port{
		{Name: "top", Pos: s.Ports[0].Pos},
		{Name: "exit", Pos: exit},
	}
	b.tagStructure(s)
	b.logger().Info("piece built", "kind", s.Kind, "name", name)
	return s, nil
}
