// Command marblemaze evaluates a maze layout script and writes the built
// scene as JSON: render meshes, physics bodies and piece connections.
// Optionally it exports thick-walled STL files for printing.
//
//	marblemaze -script maze.lisp -out scene.json -stl ./stl
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/marblemaze/pkg/kernel"
	"github.com/chazu/marblemaze/pkg/kernel/manifold"
	"github.com/chazu/marblemaze/pkg/kernel/sdfx"
	"github.com/chazu/marblemaze/pkg/maze"
	"github.com/chazu/marblemaze/pkg/printable"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit. It returns 0 on success, 1 when the
// script fails and 2 on usage or I/O errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("marblemaze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		scriptPath   = fs.String("script", "-", "maze script to evaluate (- for stdin)")
		configPath   = fs.String("config", "", "YAML file overriding piece constants")
		outPath      = fs.String("out", "-", "scene JSON output (- for stdout)")
		manifestPath = fs.String("manifest", "", "write the physics manifest to this file")
		stlDir       = fs.String("stl", "", "write printable STL files to this directory")
		kernelName   = fs.String("kernel", "sdfx", "STL backend: sdfx or manifold")
		cells        = fs.Int("cells", sdfx.DefaultMeshCells, "marching cubes resolution for the sdfx backend")
		verbose      = fs.Bool("v", false, "log every build step")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	maze.SetLogger(log)

	k, err := newBackend(*kernelName, *cells)
	if err != nil {
		log.Error("kernel", "err", err)
		return 2
	}

	cfg := maze.DefaultConfig()
	if *configPath != "" {
		cfg, err = maze.LoadConfig(*configPath)
		if err != nil {
			log.Error("config", "err", err)
			return 2
		}
	}

	source, err := readSource(*scriptPath, stdin)
	if err != nil {
		log.Error("script", "err", err)
		return 2
	}

	app := NewApp(cfg)
	result, l := app.evaluate(string(source))

	if err := writeJSON(*outPath, stdout, result); err != nil {
		log.Error("output", "err", err)
		return 2
	}
	for _, w := range result.Warnings {
		log.Warn("layout", "piece", w.Piece, "msg", w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			log.Error("script failed", "line", e.Line, "piece", e.Piece, "msg", e.Message)
		}
		return 1
	}

	if *manifestPath != "" {
		f, err := os.Create(*manifestPath)
		if err != nil {
			log.Error("manifest", "err", err)
			return 2
		}
		err = manifestOf(l).WriteJSON(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Error("manifest", "err", err)
			return 2
		}
	}

	if *stlDir != "" {
		parts, err := printable.BuildLayout(k, l, cfg)
		if err != nil {
			log.Error("printable", "err", err)
			return 1
		}
		if _, err := printable.WriteSTL(k, parts, *stlDir); err != nil {
			log.Error("stl", "err", err)
			return 2
		}
	}
	return 0
}

// backend is a kernel that can also export its solids as STL.
type backend interface {
	kernel.Kernel
	printable.STLWriter
}

func newBackend(name string, cells int) (backend, error) {
	switch name {
	case "sdfx":
		return sdfx.NewWithCells(cells), nil
	case "manifold":
		k, err := manifold.New()
		if err != nil {
			return nil, err
		}
		b, ok := k.(backend)
		if !ok {
			return nil, fmt.Errorf("manifold kernel cannot write STL")
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown kernel %q (want sdfx or manifold)", name)
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(path string, stdout io.Writer, v any) error {
	w := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
