package maze

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned for piece parameters no template can be
// built from.
var ErrInvalidParameter = errors.New("invalid parameter")

// PieceError reports which step of which piece failed. The underlying
// sentinel (scene.ErrNameCollision, csg.ErrBooleanOpFailed, ...) is
// reachable through errors.Is.
type PieceError struct {
	Piece string
	Step  string
	Err   error
}

func (e *PieceError) Error() string {
	return fmt.Sprintf("maze: piece %q: %s: %v", e.Piece, e.Step, e.Err)
}

func (e *PieceError) Unwrap() error {
	return e.Err
}

func (b *Builder) fail(piece, step string, err error) error {
	b.logger().Warn("piece failed", "piece", piece, "step", step, "err", err)
	return &PieceError{Piece: piece, Step: step, Err: err}
}
