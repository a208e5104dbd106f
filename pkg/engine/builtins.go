package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/marblemaze/pkg/layout"
	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms maze script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: support-base -> support_base
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a level-space or world-space vector.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPiece is the value returned by piece builtins.
type sexpPiece struct {
	name string
	kind scene.Kind
}

func (p *sexpPiece) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", p.kind, p.name)
}
func (p *sexpPiece) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPieceName accepts a piece value or a plain name string.
func toPieceName(s zygo.Sexp) (string, error) {
	if p, ok := s.(*sexpPiece); ok {
		return p.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected piece or name: %w", err)
	}
	return name, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// DefaultGroundSize is the half-extent of the ground plane when a script
// does not pass :size.
const DefaultGroundSize = 75.0

// pieceBuiltins maps script function names to the piece kind they build.
var pieceBuiltins = map[string]scene.Kind{
	"support":      scene.KindSupport,
	"support_base": scene.KindSupportBase,
	"track":        scene.KindTrack,
	"funnel":       scene.KindFunnel,
	"collector":    scene.KindCollector,
	"marble":       scene.KindMarble,
	"ground":       scene.KindGround,
}

// registerBuiltins installs the maze DSL builtins into a zygomys environment.
// Piece builtins build through b and append to l as they run, so a script
// observes pieces in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *maze.Builder, l *layout.Layout) {

	// -----------------------------------------------------------------------
	// (vec3 x y z) or (vec3 '(x y z))
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 1 {
			items, err := sexpListToSlice(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			args = items
		}
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 3 components, got %d", len(args))
		}
		var v mgl64.Vec3
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (support "S0" (vec3 0 0 0)), (track "T0" (vec3 0 2 1) :length 2.45),
	// (ground "Base" :size 75), ...
	// -----------------------------------------------------------------------
	for fn, kind := range pieceBuiltins {
		env.AddFunction(fn, pieceBuiltin(b, l, kind))
	}

	// -----------------------------------------------------------------------
	// (port "S0" :top) returns the world position of a built piece's port.
	// -----------------------------------------------------------------------
	env.AddFunction("port", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("port requires a piece and a port name")
		}
		pieceName, err := toPieceName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("port: %w", err)
		}
		portName, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("port: %w", err)
		}
		p := l.Lookup(pieceName)
		if p == nil || p.Solid == nil {
			return zygo.SexpNull, fmt.Errorf("port: no piece named %q", pieceName)
		}
		pt, ok := p.Solid.Port(portName)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("port: piece %q has no port %q", pieceName, portName)
		}
		return &sexpVec3{vec: pt.Pos}, nil
	})
}

// pieceBuiltin returns the builtin for one piece kind. The first positional
// argument is the piece name, the second (or :at) the level location.
func pieceBuiltin(b *maze.Builder, l *layout.Layout, kind scene.Kind) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, fn string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a name argument", fn)
		}
		spec := maze.PieceSpec{Kind: kind}
		var err error
		spec.Name, err = toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
		}

		loc := pa.kw["at"]
		if len(pa.positional) > 1 {
			loc = pa.positional[1]
		}
		if loc != nil {
			spec.Location, err = toVec3(loc)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: location: %w", fn, err)
			}
		}

		switch kind {
		case scene.KindTrack:
			v, ok := pa.kw["length"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: :length is required", fn)
			}
			spec.Length, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: length: %w", fn, err)
			}
		case scene.KindGround:
			spec.Size = DefaultGroundSize
			if v, ok := pa.kw["size"]; ok {
				spec.Size, err = toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: size: %w", fn, err)
				}
			}
		}

		solid, err := b.Build(spec)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		l.Add(&layout.Piece{Spec: spec, Solid: solid})
		return &sexpPiece{name: spec.Name, kind: kind}, nil
	}
}
