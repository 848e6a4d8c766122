package core

// Persona is a configured, named AI behavior profile: a display name, a
// static behavioral prompt that is never modified at runtime, and the mood
// vocabulary its responses are classified into.
type Persona struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Prompt string `json:"prompt" yaml:"prompt"`
	Moods  []Mood `json:"moods,omitempty" yaml:"moods,omitempty"`
}

// MoodVocabulary returns the persona's allowed moods, falling back to the
// full five-member vocabulary when none are configured.
func (p *Persona) MoodVocabulary() []Mood {
	if len(p.Moods) == 0 {
		return AllMoods()
	}
	out := make([]Mood, len(p.Moods))
	copy(out, p.Moods)
	return out
}

// PanelConfig names a curated panel: an ordered list of 2-4 persona ids plus
// display metadata. At most one config should be marked Default.
type PanelConfig struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	PersonaIDs  []string `json:"persona_ids" yaml:"persona_ids"`
	Default     bool     `json:"default,omitempty" yaml:"default,omitempty"`
}

// PersonaRegistry resolves persona ids to behavior profiles.
type PersonaRegistry interface {
	// Persona returns the persona for id, or NotFoundError.
	Persona(id string) (*Persona, error)
	// Personas returns all registered personas in stable (id) order.
	Personas() []*Persona
}

// ConfigRegistry resolves named panel configurations.
type ConfigRegistry interface {
	// Config returns the panel configuration for id, or NotFoundError.
	Config(id string) (*PanelConfig, error)
	// Configs returns all configurations in stable (id) order.
	Configs() []PanelConfig
	// DefaultConfig returns the configuration marked as default, or false
	// when none is.
	DefaultConfig() (*PanelConfig, bool)
}
