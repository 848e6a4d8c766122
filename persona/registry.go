package persona

import (
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/panelmesh/core"
)

// Registry is an in-memory implementation of core.PersonaRegistry and
// core.ConfigRegistry plus an optional moderator profile. It is safe for
// concurrent use; lookups return clones so callers can never mutate
// registered state.
type Registry struct {
	mu        sync.RWMutex
	personas  map[string]*core.Persona
	configs   map[string]*core.PanelConfig
	moderator *core.Persona
}

// NewRegistry constructs an empty registry. Call Seed, LoadFile or the
// Register methods to populate it.
func NewRegistry() *Registry {
	return &Registry{
		personas: make(map[string]*core.Persona),
		configs:  make(map[string]*core.PanelConfig),
	}
}

// RegisterPersona adds or replaces a persona. ID and Name are required; the
// behavioral prompt may be empty only for profiles that are filled in later
// from files.
func (r *Registry) RegisterPersona(p core.Persona) error {
	if strings.TrimSpace(p.ID) == "" {
		return core.NewValidationError("persona id must not be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return core.NewValidationError("persona %q must have a display name", p.ID)
	}
	for _, m := range p.Moods {
		if !m.Valid() {
			return core.NewValidationError("persona %q lists unknown mood %q", p.ID, m)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas[p.ID] = clonePersona(&p)
	return nil
}

// RegisterConfig adds or replaces a panel configuration. Persona membership
// is validated lazily at session start, so configs may be registered before
// the personas they reference.
func (r *Registry) RegisterConfig(c core.PanelConfig) error {
	if strings.TrimSpace(c.ID) == "" {
		return core.NewValidationError("panel config id must not be empty")
	}
	if err := core.ValidatePanelSize(c.PersonaIDs); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[c.ID] = cloneConfig(&c)
	return nil
}

// SetModerator installs the moderator profile.
func (r *Registry) SetModerator(p core.Persona) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return core.NewValidationError("moderator must have id and name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moderator = clonePersona(&p)
	return nil
}

// Persona returns the persona for id, or NotFoundError.
func (r *Registry) Persona(id string) (*core.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.personas[id]
	if !ok {
		return nil, core.NewNotFoundError("persona", id)
	}
	return clonePersona(p), nil
}

// Personas returns all registered personas ordered by id.
func (r *Registry) Personas() []*core.Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, clonePersona(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Config returns the panel configuration for id, or NotFoundError.
func (r *Registry) Config(id string) (*core.PanelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[id]
	if !ok {
		return nil, core.NewNotFoundError("panel config", id)
	}
	return cloneConfig(c), nil
}

// Configs returns all panel configurations ordered by id.
func (r *Registry) Configs() []core.PanelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.PanelConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, *cloneConfig(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultConfig returns the configuration marked Default, or false when none
// is. With several marked (a file-authoring mistake), the lowest id wins so
// the result is stable.
func (r *Registry) DefaultConfig() (*core.PanelConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var def *core.PanelConfig
	for _, c := range r.configs {
		if !c.Default {
			continue
		}
		if def == nil || c.ID < def.ID {
			def = c
		}
	}
	if def == nil {
		return nil, false
	}
	return cloneConfig(def), true
}

// Moderator returns the moderator profile, or false when none is installed.
func (r *Registry) Moderator() (*core.Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.moderator == nil {
		return nil, false
	}
	return clonePersona(r.moderator), true
}

func clonePersona(p *core.Persona) *core.Persona {
	c := *p
	c.Moods = make([]core.Mood, len(p.Moods))
	copy(c.Moods, p.Moods)
	return &c
}

func cloneConfig(c *core.PanelConfig) *core.PanelConfig {
	out := *c
	out.PersonaIDs = make([]string, len(c.PersonaIDs))
	copy(out.PersonaIDs, c.PersonaIDs)
	return &out
}
