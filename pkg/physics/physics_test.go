package physics_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/chazu/marblemaze/pkg/physics"
)

type holder struct {
	body  physics.Body
	calls int
}

func (h *holder) SetBody(b physics.Body) {
	h.body = b
	h.calls++
}

var _ physics.Taggable = (*holder)(nil)

func TestTagStatic(t *testing.T) {
	h := &holder{}
	physics.TagStatic(h, physics.ShapeMesh, physics.WithFriction(0.1))
	if h.body.Role != physics.RoleStatic {
		t.Errorf("Role = %v, want static", h.body.Role)
	}
	if h.body.Shape != physics.ShapeMesh {
		t.Errorf("Shape = %v, want mesh", h.body.Shape)
	}
	if h.body.Friction != 0.1 {
		t.Errorf("Friction = %g, want 0.1", h.body.Friction)
	}
}

func TestTagDefaults(t *testing.T) {
	h := &holder{}
	physics.TagStatic(h, physics.ShapeBox)
	if h.body.Friction != physics.DefaultFriction {
		t.Errorf("Friction = %g, want default", h.body.Friction)
	}
	physics.TagDynamic(h)
	if h.body.Role != physics.RoleDynamic || h.body.Mass != 1 {
		t.Errorf("dynamic body = %+v", h.body)
	}
}

func TestRetagOverwrites(t *testing.T) {
	h := &holder{}
	physics.TagDynamic(h, physics.WithShape(physics.ShapeSphere), physics.WithMass(0.2), physics.WithRestitution(0.3))
	physics.TagStatic(h, physics.ShapeMesh)
	if h.calls != 2 {
		t.Fatalf("SetBody called %d times, want 2", h.calls)
	}
	want := physics.Body{Role: physics.RoleStatic, Shape: physics.ShapeMesh, Friction: physics.DefaultFriction}
	if h.body != want {
		t.Errorf("body = %+v, want %+v", h.body, want)
	}
}

func TestManifestJSON(t *testing.T) {
	var m physics.Manifest
	m.Add("S0", physics.Body{Role: physics.RoleStatic, Shape: physics.ShapeMesh, Friction: 0.1})
	m.Add("ghost", physics.Body{})
	m.Add("M0", physics.Body{Role: physics.RoleDynamic, Shape: physics.ShapeSphere, Friction: 0.5, Mass: 1})

	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Bodies []struct {
			Name  string `json:"name"`
			Role  string `json:"role"`
			Shape string `json:"shape"`
		} `json:"bodies"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Bodies) != 2 {
		t.Fatalf("bodies = %d, want 2 (untagged skipped)", len(decoded.Bodies))
	}
	if decoded.Bodies[0].Name != "S0" || decoded.Bodies[0].Role != "static" || decoded.Bodies[0].Shape != "mesh" {
		t.Errorf("first body = %+v", decoded.Bodies[0])
	}
	if decoded.Bodies[1].Role != "dynamic" || decoded.Bodies[1].Shape != "sphere" {
		t.Errorf("second body = %+v", decoded.Bodies[1])
	}
}

func TestEmptyManifestEncodesArray(t *testing.T) {
	var m physics.Manifest
	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"bodies": []`)) {
		t.Errorf("got %s, want empty array", buf.String())
	}
}

func TestManifestDecodes(t *testing.T) {
	var m physics.Manifest
	m.Add("M0", physics.Body{Role: physics.RoleDynamic, Shape: physics.ShapeSphere, Friction: 0.5, Mass: 1})
	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var back physics.Manifest
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Bodies) != 1 || back.Bodies[0].Body != m.Bodies[0].Body {
		t.Errorf("decoded %+v, want %+v", back.Bodies, m.Bodies)
	}

	var bad physics.Manifest
	if err := json.Unmarshal([]byte(`{"bodies":[{"name":"x","role":"floating"}]}`), &bad); err == nil {
		t.Error("expected error for unknown role")
	}
}
