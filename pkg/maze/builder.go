// Package maze builds the parametric marble-maze pieces.
//
// Every piece starts from the same hollow support tube and is shaped with
// face selection, inset, bisect and boolean operations on explicit
// scene.Solid handles. Intermediate solids are named after the piece
// ("T0.cutter", "T0.entry", ...) and are consumed by the boolean that
// merges them, so a successful builder call leaves exactly one new solid in
// the document.
package maze

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/scene"
)

// Reserved names are the default names a modelling host gives new
// primitives. Callers may not use them.
var ReservedNames = []string{"Cylinder", "Plane", "Circle", "Sphere"}

var (
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Builder creates pieces in a document. It is not safe for concurrent use.
type Builder struct {
	doc *scene.Document
	cfg Config
}

// NewBuilder returns a builder working on doc with the given constants. A
// nil doc gets a fresh document.
func NewBuilder(doc *scene.Document, cfg Config) *Builder {
	if doc == nil {
		doc = scene.NewDocument()
	}
	doc.Reserve(ReservedNames...)
	return &Builder{doc: doc, cfg: cfg}
}

// Document returns the document the builder works on.
func (b *Builder) Document() *scene.Document { return b.doc }

// Config returns the builder's constants.
func (b *Builder) Config() Config { return b.cfg }

func (b *Builder) logger() *slog.Logger { return Logger() }

func (b *Builder) step(piece, step string) {
	b.logger().Debug("piece step", "piece", piece, "step", step)
}

// WorldPos applies the level stacking rule to a piece location.
func (b *Builder) WorldPos(loc mgl64.Vec3) mgl64.Vec3 {
	return b.cfg.WorldPos(loc)
}
