package maze

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/physics"
	"github.com/chazu/marblemaze/pkg/scene"
)

// MakeTrack builds a descending half-pipe between two end supports placed
// length-EndInset either side of loc along Y. The +Y end is higher and
// carries a ramp; its ports are "entry.top" and "entry.bottom", the -Y
// end's are "exit.top" and "exit.bottom".
func (b *Builder) MakeTrack(name string, loc mgl64.Vec3, length float64) (*scene.Solid, error) {
	tc := b.cfg.Track
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= tc.CutterTrim {
		return nil, b.fail(name, "validate", fmt.Errorf("track length %g must exceed %g: %w", length, tc.CutterTrim, ErrInvalidParameter))
	}

	ch, err := b.hollowTube(name, loc)
	if err != nil {
		return nil, err
	}
	c := ch.Origin

	b.step(name, "bisect")
	if err := ch.Mesh.Bisect(c, axisY, mesh.BisectOptions{ClearOuter: true, Fill: true}); err != nil {
		return nil, b.fail(name, "bisect", err)
	}

	// The tube's Z axis is stretched and tipped past vertical so the open
	// side faces up. Only the channel is lifted by the nudge: the cutter
	// stays on the support axis, so the bore floor meets the channel floor.
	align := func(m *mesh.Mesh, scale, lift mgl64.Vec3) {
		at := c.Add(lift)
		t := mgl64.Translate3D(at[0], at[1], at[2]).
			Mul4(mgl64.HomogRotate3DX(tc.Tilt)).
			Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2])).
			Mul4(mgl64.Translate3D(-c[0], -c[1], -c[2]))
		m.Transform(t)
	}
	b.step(name, "align channel")
	align(ch.Mesh, mgl64.Vec3{1, 1, length + tc.LengthPad}, tc.Nudge)

	b.step(name, "cutter")
	cutter, err := b.MakeCylinder(name+".cutter", loc)
	if err != nil {
		return nil, b.fail(name, "cutter", err)
	}
	bore := b.cfg.Support.BoreRadius()
	align(cutter.Mesh, mgl64.Vec3{bore, bore, length - tc.CutterTrim}, mgl64.Vec3{})

	b.step(name, "end supports")
	off := mgl64.Vec3{0, length - tc.EndInset, 0}
	exit, err := b.hollowTube(name+".exit", loc.Sub(off))
	if err != nil {
		return nil, err
	}
	entry, err := b.hollowTube(name+".entry", loc.Add(off))
	if err != nil {
		return nil, err
	}
	cutter2, err := b.doc.Duplicate(cutter, name+".cutter.001")
	if err != nil {
		return nil, b.fail(name, "cutter", err)
	}

	b.step(name, "bore ends")
	if err := b.Difference(exit, cutter); err != nil {
		return nil, b.fail(name, "bore exit", err)
	}
	if err := b.Difference(entry, cutter2); err != nil {
		return nil, b.fail(name, "bore entry", err)
	}

	ports := []scene.Port{
		{Name: "entry.top", Pos: entry.Ports[0].Pos},
		{Name: "entry.bottom", Pos: entry.Ports[1].Pos},
		{Name: "exit.top", Pos: exit.Ports[0].Pos},
		{Name: "exit.bottom", Pos: exit.Ports[1].Pos},
	}

	b.step(name, "join ends")
	if err := b.Union(ch, exit); err != nil {
		return nil, b.fail(name, "join exit", err)
	}
	if err := b.Union(ch, entry); err != nil {
		return nil, b.fail(name, "join entry", err)
	}

	b.step(name, "entry ramp")
	rc := tc.Ramp
	ramp, err := b.MakePlane(name+".ramp", loc.Add(off), rc.HalfWidth, rc.HalfDepth)
	if err != nil {
		return nil, b.fail(name, "entry ramp", err)
	}
	ramp.Mesh.TransformAbout(mgl64.HomogRotate3DX(rc.Tilt), ramp.Origin)
	ramp.Mesh.Translate(rc.Offset)
	physics.TagStatic(ramp, physics.ShapeMesh)
	if err := b.Union(ch, ramp); err != nil {
		return nil, b.fail(name, "join ramp", err)
	}

	ch.Kind = scene.KindTrack
	ch.Ports = ports
	b.tagStructure(ch)
	b.logger().Info("piece built", "kind", ch.Kind, "name", name, "length", length)
	return ch, nil
}
