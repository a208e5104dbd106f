// Package physics assigns rigid-body roles to finished solids. It does not
// simulate anything; the tags are handed to an external physics host.
package physics

import "fmt"

// Role is how the physics host treats a body.
type Role int

const (
	RoleNone Role = iota
	RoleDynamic
	RoleStatic
)

func (r Role) String() string {
	switch r {
	case RoleDynamic:
		return "dynamic"
	case RoleStatic:
		return "static"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	for _, v := range []Role{RoleNone, RoleDynamic, RoleStatic} {
		if v.String() == string(text) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("physics: unknown role %q", text)
}

// Shape is the collision shape the host should derive from the mesh.
type Shape int

const (
	ShapeMesh Shape = iota
	ShapeConvexHull
	ShapeSphere
	ShapeBox
)

func (s Shape) String() string {
	switch s {
	case ShapeMesh:
		return "mesh"
	case ShapeConvexHull:
		return "convex_hull"
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	for _, v := range []Shape{ShapeMesh, ShapeConvexHull, ShapeSphere, ShapeBox} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("physics: unknown shape %q", text)
}

// DefaultFriction is the host's friction coefficient when none is given.
const DefaultFriction = 0.5

// Body holds the physics parameters of one solid.
type Body struct {
	Role        Role    `json:"role"`
	Shape       Shape   `json:"shape"`
	Friction    float64 `json:"friction"`
	Restitution float64 `json:"restitution"`
	Mass        float64 `json:"mass,omitempty"`
}

// Taggable is anything that can carry a Body.
type Taggable interface {
	SetBody(Body)
}

// Option adjusts a Body while it is being tagged.
type Option func(*Body)

// WithFriction sets the friction coefficient.
func WithFriction(f float64) Option {
	return func(b *Body) { b.Friction = f }
}

// WithRestitution sets the bounciness.
func WithRestitution(r float64) Option {
	return func(b *Body) { b.Restitution = r }
}

// WithMass sets the mass of a dynamic body.
func WithMass(m float64) Option {
	return func(b *Body) { b.Mass = m }
}

// WithShape overrides the collision shape.
func WithShape(s Shape) Option {
	return func(b *Body) { b.Shape = s }
}

// TagDynamic marks t as a freely simulated rigid body. Any previous tag is
// replaced.
func TagDynamic(t Taggable, opts ...Option) Body {
	b := Body{Role: RoleDynamic, Shape: ShapeConvexHull, Friction: DefaultFriction, Mass: 1}
	for _, o := range opts {
		o(&b)
	}
	t.SetBody(b)
	return b
}

// TagStatic marks t as an immovable collider with the given shape. Any
// previous tag is replaced.
func TagStatic(t Taggable, shape Shape, opts ...Option) Body {
	b := Body{Role: RoleStatic, Shape: shape, Friction: DefaultFriction}
	for _, o := range opts {
		o(&b)
	}
	t.SetBody(b)
	return b
}
