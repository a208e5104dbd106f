package maze

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/scene"
)

// PieceSpec describes one piece to build. Length applies to tracks, Size to
// the ground plane.
type PieceSpec struct {
	Kind     scene.Kind `json:"kind" yaml:"kind"`
	Name     string     `json:"name" yaml:"name"`
	Location mgl64.Vec3 `json:"location" yaml:"location"`
	Length   float64    `json:"length,omitempty" yaml:"length,omitempty"`
	Size     float64    `json:"size,omitempty" yaml:"size,omitempty"`
}

// Build dispatches spec to the matching builder.
func (b *Builder) Build(spec PieceSpec) (*scene.Solid, error) {
	switch spec.Kind {
	case scene.KindSupport:
		return b.MakeSupport(spec.Name, spec.Location)
	case scene.KindSupportBase:
		return b.MakeSupportBase(spec.Name, spec.Location)
	case scene.KindTrack:
		return b.MakeTrack(spec.Name, spec.Location, spec.Length)
	case scene.KindFunnel:
		return b.MakeFunnel(spec.Name, spec.Location)
	case scene.KindCollector:
		return b.MakeCollector(spec.Name, spec.Location)
	case scene.KindMarble:
		return b.MakeMarble(spec.Name, spec.Location)
	case scene.KindGround:
		return b.MakeGround(spec.Name, spec.Size)
	default:
		return nil, b.fail(spec.Name, "build", fmt.Errorf("unknown piece kind %q: %w", spec.Kind, ErrInvalidParameter))
	}
}
