//go:build !manifold

// Package manifold is the Manifold STL backend. Without the manifold build
// tag only this stub is compiled, and -kernel manifold is refused.
package manifold

import (
	"errors"

	"github.com/chazu/marblemaze/pkg/kernel"
)

// Available reports whether this build links the Manifold library.
const Available = false

// New always fails in this build.
func New() (kernel.Kernel, error) {
	return nil, errors.New("manifold kernel not available: build with -tags=manifold")
}
