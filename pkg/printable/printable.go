// Package printable rebuilds maze pieces as thick-walled watertight solids
// on a geometry kernel. The scene meshes are zero-thickness surfaces that a
// physics engine accepts but a slicer does not; the solids built here
// follow the same constants with real walls.
package printable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/kernel"
	"github.com/chazu/marblemaze/pkg/layout"
	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/scene"
)

const (
	// overcut extends cutters past the faces they open so no coplanar
	// skin is left behind.
	overcut = 0.01

	// GroundThickness is the depth of the printed base slab below Z=0.
	GroundThickness = 0.25
)

// Part is one printable solid named after its piece.
type Part struct {
	Name  string
	Kind  scene.Kind
	Solid kernel.Solid
}

// STLWriter renders a solid to an STL file.
type STLWriter interface {
	WriteSTL(s kernel.Solid, path string) error
}

// Build returns the printable solid for one piece.
func Build(k kernel.Kernel, spec maze.PieceSpec, cfg maze.Config) (kernel.Solid, error) {
	b := &builder{k: k, cfg: cfg, c: cfg.WorldPos(spec.Location)}
	var (
		s   kernel.Solid
		err error
	)
	switch spec.Kind {
	case scene.KindSupport:
		s = b.at(b.tube(b.height(), cfg.Support.Radius, cfg.Support.BoreRadius()), b.c)
	case scene.KindFunnel:
		s = b.at(b.flared(false), b.c)
	case scene.KindSupportBase:
		s = b.at(b.flared(true), b.c)
	case scene.KindTrack:
		s, err = b.track(spec.Length)
	case scene.KindCollector:
		s = b.collector()
	case scene.KindMarble:
		s = b.at(k.Sphere(cfg.Marble.Radius, cfg.Segments), b.c)
	case scene.KindGround:
		if !(spec.Size > 0) {
			return nil, fmt.Errorf("printable: ground %q size %g: %w", spec.Name, spec.Size, maze.ErrInvalidParameter)
		}
		s = k.Translate(k.Box(2*spec.Size, 2*spec.Size, GroundThickness), 0, 0, -GroundThickness/2)
	default:
		return nil, fmt.Errorf("printable: piece %q: unknown kind %q: %w", spec.Name, spec.Kind, maze.ErrInvalidParameter)
	}
	if err != nil {
		return nil, fmt.Errorf("printable: piece %q: %w", spec.Name, err)
	}
	return s, nil
}

// BuildLayout builds every piece of l in layout order.
func BuildLayout(k kernel.Kernel, l *layout.Layout, cfg maze.Config) ([]Part, error) {
	parts := make([]Part, 0, l.Len())
	for _, p := range l.Pieces {
		s, err := Build(k, p.Spec, cfg)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{Name: p.Name(), Kind: p.Spec.Kind, Solid: s})
	}
	return parts, nil
}

// WriteSTL writes each part to dir as <name>.stl and returns the paths
// written. dir is created if missing.
func WriteSTL(w STLWriter, parts []Part, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("printable: %w", err)
	}
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		path := filepath.Join(dir, fileName(p.Name))
		if err := w.WriteSTL(p.Solid, path); err != nil {
			return paths, fmt.Errorf("printable: part %q: %w", p.Name, err)
		}
		maze.Logger().Info("stl written", "part", p.Name, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func fileName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_")
	name = r.Replace(name)
	if name == "" || name == "." || name == ".." {
		name = "part"
	}
	return name + ".stl"
}

type builder struct {
	k   kernel.Kernel
	cfg maze.Config
	c   mgl64.Vec3
}

func (b *builder) height() float64 { return 2 * b.cfg.Support.HalfHeight }

func (b *builder) at(s kernel.Solid, p mgl64.Vec3) kernel.Solid {
	return b.k.Translate(s, p[0], p[1], p[2])
}

// tube is an open-ended hollow cylinder along Z centered on the origin.
func (b *builder) tube(height, outer, inner float64) kernel.Solid {
	seg := b.cfg.Segments
	return b.k.Difference(
		b.k.Cylinder(height, outer, seg),
		b.k.Cylinder(height+2*overcut, inner, seg),
	)
}

// flared is a tube whose top (or bottom, for a base) widens by the flare
// factor while keeping the wall thickness.
func (b *builder) flared(foot bool) kernel.Solid {
	sc := b.cfg.Support
	f := b.cfg.Funnel.Flare
	narrowOut, wideOut := sc.Radius, sc.Radius*f
	narrowIn, wideIn := sc.BoreRadius(), sc.Radius*f-sc.Inset
	h := b.height()

	// Extend the inner cone along its own slope so it cuts through both ends.
	hi := h + 2*overcut
	slope := (wideIn - narrowIn) / h
	narrowIn -= slope * overcut
	wideIn += slope * overcut

	if foot {
		return b.k.Difference(
			b.k.Cone(h, wideOut, narrowOut, b.cfg.Segments),
			b.k.Cone(hi, wideIn, narrowIn, b.cfg.Segments),
		)
	}
	return b.k.Difference(
		b.k.Cone(h, narrowOut, wideOut, b.cfg.Segments),
		b.k.Cone(hi, narrowIn, wideIn, b.cfg.Segments),
	)
}

// slab is a thin plate standing in for a ramp plane.
func (b *builder) slab(rc maze.RampConfig, center mgl64.Vec3) kernel.Solid {
	s := b.k.Box(2*rc.HalfWidth, 2*rc.HalfDepth, b.cfg.Support.Inset/2)
	s = b.k.Rotate(s, mgl64.RadToDeg(rc.Tilt), 0, 0)
	return b.at(s, center.Add(rc.Offset))
}

func (b *builder) track(length float64) (kernel.Solid, error) {
	tc := b.cfg.Track
	sc := b.cfg.Support
	if !(length > tc.CutterTrim) {
		return nil, fmt.Errorf("track length %g must exceed %g: %w", length, tc.CutterTrim, maze.ErrInvalidParameter)
	}
	k := b.k
	tilt := mgl64.RadToDeg(tc.Tilt)
	at := b.c.Add(tc.Nudge)

	// Half-pipe: the -Y half of a stretched tube, tipped so the open side
	// faces up.
	run := b.height() * (length + tc.LengthPad)
	pipe := b.tube(run, sc.Radius, sc.BoreRadius())
	lid := k.Translate(k.Box(2*sc.Radius+1, sc.Radius+1, run+1), 0, (sc.Radius+1)/2, 0)
	channel := b.at(k.Rotate(k.Difference(pipe, lid), tilt, 0, 0), at)

	off := mgl64.Vec3{0, length - tc.EndInset, 0}
	end := b.tube(b.height(), sc.Radius, sc.BoreRadius())
	entry := b.c.Add(off)
	s := k.Union(channel, b.at(end, b.c.Sub(off)))
	s = k.Union(s, b.at(end, entry))

	cutter := k.Cylinder(b.height()*(length-tc.CutterTrim), sc.BoreRadius(), b.cfg.Segments)
	s = k.Difference(s, b.at(k.Rotate(cutter, tilt, 0, 0), at))

	return k.Union(s, b.slab(tc.Ramp, entry)), nil
}

func (b *builder) collector() kernel.Solid {
	k := b.k
	sc := b.cfg.Support
	cc := b.cfg.Collector
	floor := b.c.Sub(mgl64.Vec3{0, 0, sc.HalfHeight})

	s := b.at(b.tube(b.height(), sc.Radius, sc.BoreRadius()), b.c)

	hole := k.Cylinder(2*cc.HoleHalfLength, sc.BoreRadius(), b.cfg.Segments)
	hole = k.Rotate(hole, mgl64.RadToDeg(cc.HoleTilt), 0, 0)
	s = k.Difference(s, b.at(hole, b.c.Add(cc.HoleOffset)))

	s = k.Union(s, b.slab(cc.Ramp, b.c))

	ringR := sc.Radius * cc.RingScale
	ringH := b.height() * cc.RingHeight
	ring := b.tube(ringH, ringR, ringR-sc.Inset)
	s = k.Union(s, b.at(ring, floor.Add(mgl64.Vec3{0, 0, ringH / 2})))

	disc := k.Cylinder(sc.Inset/2, ringR-sc.Inset, b.cfg.Segments)
	disc = k.Rotate(disc, mgl64.RadToDeg(cc.DiscTilt), 0, 0)
	return k.Union(s, b.at(disc, floor.Add(mgl64.Vec3{0, 0, cc.DiscLift})))
}
