package maze

import (
	"fmt"

	"github.com/chazu/marblemaze/pkg/csg"
	"github.com/chazu/marblemaze/pkg/mesh"
	"github.com/chazu/marblemaze/pkg/scene"
)

type booleanOp func(a, b *mesh.Mesh) (*mesh.Mesh, error)

// Union merges secondary into primary. On success secondary is destroyed,
// its name is free again, and primary becomes the active solid. On failure
// both are left untouched.
func (b *Builder) Union(primary, secondary *scene.Solid) error {
	return b.combine("union", csg.Union, primary, secondary)
}

// Difference subtracts secondary from primary with the same ownership rules
// as Union. secondary must be closed.
func (b *Builder) Difference(primary, secondary *scene.Solid) error {
	return b.combine("difference", csg.Difference, primary, secondary)
}

func (b *Builder) combine(name string, op booleanOp, primary, secondary *scene.Solid) error {
	for _, s := range []*scene.Solid{primary, secondary} {
		if s == nil || !s.In(b.doc) {
			return fmt.Errorf("maze: %s: operand not in this document: %w", name, scene.ErrNotFound)
		}
	}
	if primary == secondary {
		return fmt.Errorf("maze: %s of %q with itself: %w", name, primary.Name(), ErrInvalidParameter)
	}
	result, err := op(primary.Mesh, secondary.Mesh)
	if err != nil {
		return fmt.Errorf("maze: %s %q with %q: %w", name, primary.Name(), secondary.Name(), err)
	}
	primary.Mesh = result
	b.doc.Consume(secondary)
	b.doc.SetActive(primary)
	return nil
}
