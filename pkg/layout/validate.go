package layout

import (
	"fmt"

	"github.com/chazu/marblemaze/pkg/scene"
)

// Severity indicates whether a finding blocks use of the layout or is
// merely advisory.
type Severity int

const (
	SeverityError   Severity = iota // layout is unusable
	SeverityWarning                 // advisory
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finding describes a single validation result.
type Finding struct {
	Piece    string   `json:"piece,omitempty"` // empty for layout-level findings
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (f Finding) Error() string {
	if f.Piece == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] piece %s: %s", f.Severity, f.Piece, f.Message)
}

// Validate checks the layout and returns its findings. It never mutates the
// layout.
func Validate(l *Layout) []Finding {
	var out []Finding
	out = append(out, validateNames(l)...)
	out = append(out, validateSolids(l)...)
	out = append(out, validateConnectivity(l)...)
	out = append(out, validateEnds(l)...)
	return out
}

// Split separates findings into errors and warnings.
func Split(fs []Finding) (errs, warnings []Finding) {
	for _, f := range fs {
		if f.Severity == SeverityWarning {
			warnings = append(warnings, f)
		} else {
			errs = append(errs, f)
		}
	}
	return errs, warnings
}

func validateNames(l *Layout) []Finding {
	var out []Finding
	seen := make(map[string]bool)
	for i, p := range l.Pieces {
		if p.Name() == "" {
			out = append(out, Finding{
				Message:  fmt.Sprintf("piece %d has no name", i),
				Severity: SeverityError,
			})
			continue
		}
		if seen[p.Name()] {
			out = append(out, Finding{
				Piece:    p.Name(),
				Message:  "duplicate piece name",
				Severity: SeverityError,
			})
		}
		seen[p.Name()] = true
	}
	return out
}

func validateSolids(l *Layout) []Finding {
	var out []Finding
	for _, p := range l.Pieces {
		if p.Solid == nil || p.Solid.Mesh.IsEmpty() {
			out = append(out, Finding{
				Piece:    p.Name(),
				Message:  "piece has no geometry",
				Severity: SeverityError,
			})
		}
	}
	return out
}

// structural reports whether a piece is meant to be joined to others.
func structural(k scene.Kind) bool {
	return k != scene.KindMarble && k != scene.KindGround
}

func validateConnectivity(l *Layout) []Finding {
	var pieces []*Piece
	for _, p := range l.Pieces {
		if structural(p.Spec.Kind) {
			pieces = append(pieces, p)
		}
	}
	if len(pieces) < 2 {
		return nil
	}
	linked := make(map[string]bool)
	for _, c := range l.Connections() {
		linked[c.From] = true
		linked[c.To] = true
	}
	var out []Finding
	for _, p := range pieces {
		if !linked[p.Name()] {
			out = append(out, Finding{
				Piece:    p.Name(),
				Message:  "no port meets another piece",
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

func validateEnds(l *Layout) []Finding {
	if len(l.OfKind(scene.KindTrack)) == 0 {
		return nil
	}
	var out []Finding
	if len(l.OfKind(scene.KindFunnel)) == 0 {
		out = append(out, Finding{Message: "layout has tracks but no funnel", Severity: SeverityWarning})
	}
	if len(l.OfKind(scene.KindCollector)) == 0 {
		out = append(out, Finding{Message: "layout has tracks but no collector", Severity: SeverityWarning})
	}
	return out
}
