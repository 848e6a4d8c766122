package persona

import (
	"testing"

	"github.com/hupe1980/panelmesh/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.PersonaRegistry = (*Registry)(nil)
	_ core.ConfigRegistry  = (*Registry)(nil)
)

func TestSeed(t *testing.T) {
	r := NewRegistry()
	if err := r.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if got := len(r.Personas()); got != 6 {
		t.Fatalf("expected 6 seeded personas, got %d", got)
	}
	p, err := r.Persona(DefaultPersonaID)
	if err != nil {
		t.Fatalf("default persona missing: %v", err)
	}
	if p.Name != "Dr. Sigmund 2000" || p.Prompt == "" {
		t.Errorf("default persona incomplete: %+v", p)
	}

	def, ok := r.DefaultConfig()
	if !ok || def.ID != ConfigBalanced {
		t.Fatalf("expected %q as default config, got %+v", ConfigBalanced, def)
	}
	if len(def.PersonaIDs) != 3 {
		t.Errorf("balanced panel should have 3 personas, got %d", len(def.PersonaIDs))
	}

	tough, err := r.Config(ConfigToughLove)
	if err != nil || len(tough.PersonaIDs) != 2 {
		t.Errorf("tough-love config wrong: %+v err=%v", tough, err)
	}

	mod, ok := r.Moderator()
	if !ok || mod.ID != ModeratorID || mod.Name != ModeratorName {
		t.Errorf("moderator not seeded: %+v ok=%v", mod, ok)
	}
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Persona("nobody"); !core.IsNotFound(err) {
		t.Errorf("unknown persona should yield NotFoundError, got %v", err)
	}
	if _, err := r.Config("no-panel"); !core.IsNotFound(err) {
		t.Errorf("unknown config should yield NotFoundError, got %v", err)
	}
	if _, ok := r.Moderator(); ok {
		t.Error("empty registry should have no moderator")
	}
	if _, ok := r.DefaultConfig(); ok {
		t.Error("empty registry should have no default config")
	}
}

func TestRegistry_Validation(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterPersona(core.Persona{Name: "No ID"}); !core.IsValidation(err) {
		t.Errorf("missing id should be rejected, got %v", err)
	}
	if err := r.RegisterPersona(core.Persona{ID: "x"}); !core.IsValidation(err) {
		t.Errorf("missing name should be rejected, got %v", err)
	}
	if err := r.RegisterPersona(core.Persona{ID: "x", Name: "X", Moods: []core.Mood{"angry"}}); !core.IsValidation(err) {
		t.Errorf("unknown mood should be rejected, got %v", err)
	}
	if err := r.RegisterConfig(core.PanelConfig{ID: "solo", PersonaIDs: []string{"only-one"}}); !core.IsValidation(err) {
		t.Errorf("undersized panel config should be rejected, got %v", err)
	}
}

func TestRegistry_LookupIsolation(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterPersona(core.Persona{ID: "a", Name: "A", Moods: []core.Mood{core.MoodNeutral}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	p, _ := r.Persona("a")
	p.Name = "mutated"
	p.Moods[0] = core.MoodShocked

	again, _ := r.Persona("a")
	if again.Name != "A" || again.Moods[0] != core.MoodNeutral {
		t.Error("mutating a lookup result must not affect the registry")
	}
}

func TestRegistry_PersonasSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := r.RegisterPersona(core.Persona{ID: id, Name: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	got := r.Personas()
	if got[0].ID != "alpha" || got[1].ID != "mid" || got[2].ID != "zeta" {
		t.Errorf("personas not sorted by id: %v, %v, %v", got[0].ID, got[1].ID, got[2].ID)
	}
}
