// Package scene holds the live set of named solids a builder works on.
//
// A Document replaces the ambient "current selection" of an interactive
// modelling host: every operation takes explicit *Solid handles, and the
// document only tracks which names are live and which solid was produced
// last.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/physics"
)

var (
	// ErrNameCollision is returned when a name already identifies a live solid.
	ErrNameCollision = errors.New("name collision")
	// ErrReservedName is returned for names the document keeps for itself.
	ErrReservedName = errors.New("reserved name")
	// ErrNotFound is returned when no live solid has the requested name.
	ErrNotFound = errors.New("solid not found")
)

// Kind identifies which builder produced a solid.
type Kind string

const (
	KindPrimitive   Kind = "primitive"
	KindSupport     Kind = "support"
	KindSupportBase Kind = "support_base"
	KindTrack       Kind = "track"
	KindFunnel      Kind = "funnel"
	KindCollector   Kind = "collector"
	KindMarble      Kind = "marble"
	KindGround      Kind = "ground"
)

// Port is a bore opening through which a marble enters or leaves a piece.
type Port struct {
	Name string     `json:"name"`
	Pos  mgl64.Vec3 `json:"pos"`
}

// Solid is a named mesh owned by a Document.
type Solid struct {
	name string
	doc  *Document
	body physics.Body

	Mesh   *mesh.Mesh
	Origin mgl64.Vec3
	Kind   Kind
	Ports  []Port
}

// Name returns the solid's name.
func (s *Solid) Name() string { return s.name }

// Body returns the physics tag; the zero Body means untagged.
func (s *Solid) Body() physics.Body { return s.body }

// SetBody implements physics.Taggable.
func (s *Solid) SetBody(b physics.Body) { s.body = b }

// Live reports whether the solid is still part of its document.
func (s *Solid) Live() bool {
	return s.doc != nil && s.doc.solids[s.name] == s
}

// In reports whether the solid is live in d.
func (s *Solid) In(d *Document) bool {
	return d != nil && s.doc == d && s.Live()
}

// Port returns the named port.
func (s *Solid) Port(name string) (Port, bool) {
	for _, p := range s.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

var _ physics.Taggable = (*Solid)(nil)

// Document is the live set of solids. It is not safe for concurrent use.
type Document struct {
	solids   map[string]*Solid
	order    []*Solid
	reserved map[string]bool
	active   *Solid
}

// NewDocument returns an empty document that refuses the given names.
func NewDocument(reserved ...string) *Document {
	d := &Document{
		solids:   make(map[string]*Solid),
		reserved: make(map[string]bool),
	}
	d.Reserve(reserved...)
	return d
}

// Reserve adds names that callers may not use.
func (d *Document) Reserve(names ...string) {
	for _, n := range names {
		d.reserved[n] = true
	}
}

// Reserved reports whether name is kept by the document.
func (d *Document) Reserved(name string) bool {
	return name == "" || d.reserved[name]
}

// Create adds a solid with the given mesh. The new solid becomes active.
func (d *Document) Create(name string, m *mesh.Mesh) (*Solid, error) {
	if d.Reserved(name) {
		return nil, fmt.Errorf("scene: create %q: %w", name, ErrReservedName)
	}
	if _, ok := d.solids[name]; ok {
		return nil, fmt.Errorf("scene: create %q: %w", name, ErrNameCollision)
	}
	s := &Solid{name: name, doc: d, Mesh: m, Kind: KindPrimitive}
	d.solids[name] = s
	d.order = append(d.order, s)
	d.active = s
	return s, nil
}

// Duplicate copies src under a new name. The copy becomes active.
func (d *Document) Duplicate(src *Solid, name string) (*Solid, error) {
	if !src.Live() {
		return nil, fmt.Errorf("scene: duplicate %q: %w", src.name, ErrNotFound)
	}
	s, err := d.Create(name, src.Mesh.Clone())
	if err != nil {
		return nil, err
	}
	s.Origin = src.Origin
	s.Kind = src.Kind
	s.Ports = append([]Port(nil), src.Ports...)
	s.body = src.body
	return s, nil
}

// Get returns the live solid with the given name.
func (d *Document) Get(name string) (*Solid, error) {
	s, ok := d.solids[name]
	if !ok {
		return nil, fmt.Errorf("scene: %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// Has reports whether name identifies a live solid.
func (d *Document) Has(name string) bool {
	_, ok := d.solids[name]
	return ok
}

// Remove destroys the named solid and frees its name.
func (d *Document) Remove(name string) error {
	s, ok := d.solids[name]
	if !ok {
		return fmt.Errorf("scene: remove %q: %w", name, ErrNotFound)
	}
	d.Consume(s)
	return nil
}

// Consume destroys s. The handle must not be used afterwards.
func (d *Document) Consume(s *Solid) {
	if !s.In(d) {
		return
	}
	delete(d.solids, s.name)
	for i, o := range d.order {
		if o == s {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.active == s {
		d.active = nil
	}
	s.doc = nil
}

// Active returns the solid produced or selected last, or nil.
func (d *Document) Active() *Solid { return d.active }

// SetActive makes s the active solid.
func (d *Document) SetActive(s *Solid) {
	if s.In(d) {
		d.active = s
	}
}

// Names returns the live names in creation order.
func (d *Document) Names() []string {
	names := make([]string, len(d.order))
	for i, s := range d.order {
		names[i] = s.name
	}
	return names
}

// Solids returns the live solids in creation order.
func (d *Document) Solids() []*Solid {
	return append([]*Solid(nil), d.order...)
}

// Len returns the number of live solids.
func (d *Document) Len() int { return len(d.order) }

// Clear destroys every solid.
func (d *Document) Clear() {
	for _, s := range d.order {
		s.doc = nil
	}
	d.solids = make(map[string]*Solid)
	d.order = nil
	d.active = nil
}
