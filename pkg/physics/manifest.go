package physics

import (
	"encoding/json"
	"fmt"
	"io"
)

// Entry is one named body in a Manifest.
type Entry struct {
	Name string `json:"name"`
	Body
}

// Manifest lists the bodies of a scene in the order they were built.
type Manifest struct {
	Bodies []Entry `json:"bodies"`
}

// Add appends a body. Untagged bodies are skipped.
func (m *Manifest) Add(name string, b Body) {
	if b.Role == RoleNone {
		return
	}
	m.Bodies = append(m.Bodies, Entry{Name: name, Body: b})
}

// WriteJSON encodes the manifest as indented JSON.
func (m *Manifest) WriteJSON(w io.Writer) error {
	if m.Bodies == nil {
		m.Bodies = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("physics: encode manifest: %w", err)
	}
	return nil
}
