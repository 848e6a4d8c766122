package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/panelmesh/core"
)

const sampleYAML = `
personas:
  - id: dr-echo
    name: Dr. Echo
    prompt: You repeat things back with insight.
    moods: [neutral, thinking]
  - id: dr-mirror
    name: Dr. Mirror
    prompt: You reflect the user's feelings.
panels:
  - id: duo
    name: The Duo
    description: Two reflective voices
    persona_ids: [dr-echo, dr-mirror]
    default: true
moderator:
  id: moderator-host
  name: The Host
  prompt: You keep the duo on track.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	r := NewRegistry()
	path := writeFile(t, t.TempDir(), "panel.yaml", sampleYAML)

	if err := r.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	p, err := r.Persona("dr-echo")
	if err != nil || p.Name != "Dr. Echo" || len(p.Moods) != 2 {
		t.Fatalf("loaded persona wrong: %+v err=%v", p, err)
	}
	cfg, err := r.Config("duo")
	if err != nil || !cfg.Default || len(cfg.PersonaIDs) != 2 {
		t.Fatalf("loaded config wrong: %+v err=%v", cfg, err)
	}
	if mod, ok := r.Moderator(); !ok || mod.Name != "The Host" {
		t.Fatalf("loaded moderator wrong: %+v ok=%v", mod, ok)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}

	bad := writeFile(t, t.TempDir(), "bad.yaml", "personas: [this is: not: valid")
	if err := r.LoadFile(bad); err == nil {
		t.Error("malformed yaml should error")
	}

	invalid := writeFile(t, t.TempDir(), "invalid.yaml", "personas:\n  - name: missing id\n")
	if err := r.LoadFile(invalid); !core.IsValidation(err) {
		t.Errorf("persona without id should surface ValidationError, got %v", err)
	}
}

func TestLoadDir_LexicalMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-base.yaml", `
personas:
  - id: dr-echo
    name: Dr. Echo
    prompt: base prompt
`)
	writeFile(t, dir, "20-override.yml", `
personas:
  - id: dr-echo
    name: Dr. Echo Revised
    prompt: revised prompt
`)
	writeFile(t, dir, "ignore.txt", "not yaml")

	r := NewRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("load dir: %v", err)
	}

	p, err := r.Persona("dr-echo")
	if err != nil {
		t.Fatalf("persona: %v", err)
	}
	if p.Name != "Dr. Echo Revised" {
		t.Errorf("later file should win, got %q", p.Name)
	}
	if len(r.Personas()) != 1 {
		t.Errorf("expected exactly 1 persona, got %d", len(r.Personas()))
	}
}
