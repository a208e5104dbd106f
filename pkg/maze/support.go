package maze

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/physics"
	"github.com/chazu/marblemaze/pkg/scene"
)

// capTolerance bounds both the normal alignment and the distance to the
// extremal Z of a cap face.
const capTolerance = 1e-6

// MakeSupport builds a hollow open-ended tube: the basic tower and passage
// piece. Ports "top" and "bottom" sit at the centres of its two bores.
func (b *Builder) MakeSupport(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	s, err := b.hollowTube(name, loc)
	if err != nil {
		return nil, err
	}
	b.tagStructure(s)
	b.logger().Info("piece built", "kind", s.Kind, "name", name)
	return s, nil
}

// hollowTube builds an untagged support. The other builders start from it
// and tag their piece once all shaping is done.
func (b *Builder) hollowTube(name string, loc mgl64.Vec3) (*scene.Solid, error) {
	sc := b.cfg.Support
	b.step(name, "cylinder")
	s, err := b.MakeCylinder(name, loc)
	if err != nil {
		return nil, b.fail(name, "cylinder", err)
	}
	c := s.Origin
	s.Mesh.TransformAbout(mgl64.Scale3D(sc.Radius, sc.Radius, sc.HalfHeight), c)

	b.step(name, "select caps")
	caps := s.Mesh.Select(mesh.And(
		mesh.NormalAlong(axisZ, capTolerance),
		mesh.AtExtremum(axisZ, capTolerance),
	))
	if len(caps) != 2 {
		return nil, b.fail(name, "select caps", fmt.Errorf("found %d cap faces, want 2: %w", len(caps), mesh.ErrTopologyMismatch))
	}

	b.step(name, "inset caps")
	if err := s.Mesh.Inset(caps, sc.Inset); err != nil {
		return nil, b.fail(name, "inset caps", err)
	}
	for _, fi := range caps {
		if s.Mesh.FaceNormal(fi).Z() > 0 {
			s.Mesh.MoveVerts(mesh.Selection{fi}.Verts(s.Mesh), mgl64.Vec3{0, 0, -sc.LipDrop})
		}
	}

	b.step(name, "open bores")
	s.Mesh.DeleteFaces(caps)
	if n := s.Mesh.BoundaryLoops(); n != 2 {
		return nil, b.fail(name, "open bores", fmt.Errorf("%d boundary loops, want 2: %w", n, mesh.ErrTopologyMismatch))
	}

	s.Kind = scene.KindSupport
	s.Ports = []scene.Port{
		{Name: "top", Pos: c.Add(mgl64.Vec3{0, 0, sc.HalfHeight})},
		{Name: "bottom", Pos: c.Sub(mgl64.Vec3{0, 0, sc.HalfHeight})},
	}
	return s, nil
}

// tagStructure marks a finished structural piece as an exact-mesh static
// collider.
func (b *Builder) tagStructure(s *scene.Solid) {
	physics.TagStatic(s, physics.ShapeMesh, physics.WithFriction(b.cfg.Support.Friction))
}
