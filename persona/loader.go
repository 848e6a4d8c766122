package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/panelmesh/core"
)

// File is the on-disk YAML shape for persona and panel definitions:
//
//	personas:
//	  - id: dr-echo
//	    name: Dr. Echo
//	    prompt: You are ...
//	    moods: [neutral, thinking]
//	panels:
//	  - id: duo
//	    name: The Duo
//	    persona_ids: [dr-echo, dr-mirror]
//	    default: true
//	moderator:
//	  id: moderator-host
//	  name: The Host
//	  prompt: You moderate ...
//
// Every section is optional; files are merged into the registry in load
// order, later files overwriting same-id entries.
type File struct {
	Personas  []core.Persona     `yaml:"personas"`
	Panels    []core.PanelConfig `yaml:"panels"`
	Moderator *core.Persona      `yaml:"moderator,omitempty"`
}

// LoadFile reads one YAML definition file into the registry.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading persona definitions %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing persona definitions %s: %w", path, err)
	}
	for _, p := range f.Personas {
		if err := r.RegisterPersona(p); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, c := range f.Panels {
		if err := r.RegisterConfig(c); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if f.Moderator != nil {
		if err := r.SetModerator(*f.Moderator); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// LoadDir loads every .yaml/.yml file directly under dir in lexical order,
// so numbered files give deterministic overwrite behavior.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading persona directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
