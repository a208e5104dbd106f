package main

import (
	"github.com/chazu/marblemaze/pkg/engine"
	"github.com/chazu/marblemaze/pkg/layout"
	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/physics"
	"github.com/chazu/marblemaze/pkg/scene"
	"github.com/chazu/marblemaze/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to pieces
// of kinds without a color of their own.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// kindColors keeps every piece of a kind the same color.
var kindColors = map[scene.Kind]string{
	scene.KindSupport:     "#4A90D9",
	scene.KindSupportBase: "#3498DB",
	scene.KindTrack:       "#E67E22",
	scene.KindFunnel:      "#2ECC71",
	scene.KindCollector:   "#9B59B6",
	scene.KindMarble:      "#E74C3C",
	scene.KindGround:      "#1ABC9C",
}

func colorFor(k scene.Kind, i int) string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return colorPalette[i%len(colorPalette)]
}

// App evaluates maze scripts into render meshes, a physics manifest and
// piece connectivity. It is UI-agnostic; the CLI and any front end share it.
type App struct {
	engine *engine.Engine
	cfg    maze.Config
}

// MeshData is the JSON-serializable mesh format sent to viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Kind     string    `json:"kind"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Piece   string `json:"piece,omitempty"`
	Message string `json:"message"`
}

// ConnectionData is a pair of coincident ports.
type ConnectionData struct {
	From     string `json:"from"`
	FromPort string `json:"fromPort"`
	To       string `json:"to"`
	ToPort   string `json:"toPort"`
}

// EvalResult is the full result of one evaluation. Slices are never nil so
// they encode as empty JSON arrays.
type EvalResult struct {
	Meshes      []MeshData       `json:"meshes"`
	Bodies      []physics.Entry  `json:"bodies"`
	Connections []ConnectionData `json:"connections"`
	Errors      []EvalErrorData  `json:"errors"`
	Warnings    []EvalErrorData  `json:"warnings"`
}

// NewApp creates a new App whose pieces use cfg.
func NewApp(cfg maze.Config) *App {
	return &App{
		engine: engine.NewEngine(engine.WithConfig(cfg)),
		cfg:    cfg,
	}
}

// Config returns the piece constants the app builds with.
func (a *App) Config() maze.Config { return a.cfg }

// Evaluate takes Lisp source and returns mesh data, physics bodies,
// connections and errors.
func (a *App) Evaluate(source string) EvalResult {
	result, _ := a.evaluate(source)
	return result
}

// evaluate also returns the layout so the CLI can export it further. The
// layout is nil whenever result carries errors.
func (a *App) evaluate(source string) (EvalResult, *layout.Layout) {
	log := maze.Logger()
	result := EvalResult{
		Meshes:      []MeshData{},
		Bodies:      []physics.Entry{},
		Connections: []ConnectionData{},
		Errors:      []EvalErrorData{},
		Warnings:    []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a layout of built pieces.
	l, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}

	// Step 3: Validate the layout.
	errs, warnings := layout.Split(layout.Validate(l))
	for _, f := range warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Piece: f.Piece, Message: f.Message})
	}
	if len(errs) > 0 {
		for _, f := range errs {
			result.Errors = append(result.Errors, EvalErrorData{Piece: f.Piece, Message: f.Message})
		}
		return result, nil
	}

	// Step 4: Tessellate the pieces into triangle meshes.
	meshes, err := tessellate.Tessellate(l)
	if err != nil {
		log.Error("tessellate error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result, nil
	}
	for i, m := range meshes {
		kind := l.Pieces[i].Spec.Kind
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Kind:     string(kind),
			Color:    colorFor(kind, i),
		})
	}

	// Step 5: Physics bodies and connectivity.
	manifest := manifestOf(l)
	result.Bodies = append(result.Bodies, manifest.Bodies...)
	for _, c := range l.Connections() {
		result.Connections = append(result.Connections, ConnectionData{
			From:     c.From,
			FromPort: c.FromPort,
			To:       c.To,
			ToPort:   c.ToPort,
		})
	}

	log.Info("evaluated", "pieces", l.Len(), "connections", len(result.Connections), "warnings", len(result.Warnings))
	return result, l
}

// manifestOf lists the physics body of every piece in layout order.
func manifestOf(l *layout.Layout) *physics.Manifest {
	m := &physics.Manifest{}
	for _, p := range l.Pieces {
		if p.Solid != nil {
			m.Add(p.Name(), p.Solid.Body())
		}
	}
	return m
}
