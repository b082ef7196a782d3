package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Years != 250 {
		t.Errorf("years = %d, want 250", cfg.Simulation.Years)
	}
	lines := strings.Fields(cfg.Map)
	if len(lines) != 13 || len(lines[0]) != 21 {
		t.Errorf("default map is %dx%d, want 13x21", len(lines), len(lines[0]))
	}
	if len(cfg.Population) != 1 || cfg.Population[0].Count != 150 {
		t.Errorf("population = %+v", cfg.Population)
	}
	if len(cfg.Introductions) != 1 || cfg.Introductions[0].Year != 50 {
		t.Errorf("introductions = %+v", cfg.Introductions)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	user := `
simulation:
  years: 12
population:
  - {row: 2, col: 2, species: predator, age: 1, weight: 9, count: 3}
species:
  grazer:
    omega: 0.5
`
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Years != 12 {
		t.Errorf("years = %d, want 12", cfg.Simulation.Years)
	}
	if cfg.Simulation.LogEvery != 10 {
		t.Errorf("log_every = %d, want default 10", cfg.Simulation.LogEvery)
	}
	if len(cfg.Population) != 1 || cfg.Population[0].Species != "predator" {
		t.Errorf("population should be replaced: %+v", cfg.Population)
	}
	if _, ok := cfg.Species["predator"]; !ok {
		t.Error("default predator overrides should survive the merge")
	}
	if cfg.Species["grazer"]["omega"] != 0.5 {
		t.Errorf("grazer overrides = %v", cfg.Species["grazer"])
	}
	if g := cfg.Species["grazer"]; g["zeta"] != 3.2 || g["xi"] != 1.8 {
		t.Errorf("default grazer zeta/xi lost in the merge: %v", g)
	}
	if f := cfg.Landscape["J"]["f_max"]; f != 700 {
		t.Errorf("jungle f_max = %g, want default 700", f)
	}
}

func TestParseFoldsScopeAliases(t *testing.T) {
	cfg, err := Parse([]byte(`
species:
  Grazer:
    zeta: 3.0
  Carnivore:
    omega: 0.5
landscape:
  Jungle:
    f_max: 650
  savannah:
    alpha: 0.4
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Species) != 2 {
		t.Errorf("species scopes = %v, want grazer and predator only", cfg.Species)
	}
	store, err := cfg.Store()
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"grazer zeta", store.Species(components.Grazer).Zeta, 3.0},
		{"grazer xi", store.Species(components.Grazer).Xi, 1.8},
		{"predator omega", store.Species(components.Predator).Omega, 0.5},
		{"predator F", store.Species(components.Predator).F, 65},
		{"jungle f_max", store.Landscape(components.Jungle).FMax, 650},
		{"savannah alpha", store.Landscape(components.Savannah).Alpha, 0.4},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.want)
		}
	}
}

func TestDuplicateScopesRejected(t *testing.T) {
	if _, err := Parse([]byte("species: {grazer: {omega: 0.4}, Herbivore: {omega: 0.6}}")); err == nil {
		t.Error("Parse accepted two spellings of the grazer scope")
	}
	if _, err := Parse([]byte("landscape: {J: {f_max: 600}, jungle: {f_max: 500}}")); err == nil {
		t.Error("Parse accepted two spellings of the jungle scope")
	}

	cfg := &Config{Species: map[string]map[string]float64{
		"predator":  {"omega": 0.3},
		"Carnivore": {"omega": 0.5},
	}}
	if _, err := cfg.Store(); err == nil {
		t.Error("Store applied two spellings of the predator scope")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	tests := []struct {
		name string
		yaml string
	}{
		{"negative years", "simulation: {years: -1}"},
		{"negative log interval", "simulation: {log_every: -5}"},
		{"zero count", "population: [{row: 2, col: 2, species: grazer, age: 1, weight: 5, count: 0}]"},
		{"negative introduction year", "introductions: [{year: -2, population: []}]"},
		{"malformed", "simulation: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}

func TestStoreAppliesOverrides(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	store, err := cfg.Store()
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got := store.Species(components.Grazer).Zeta; got != 3.2 {
		t.Errorf("grazer zeta = %g, want 3.2", got)
	}
	if got := store.Species(components.Predator).F; got != 65 {
		t.Errorf("predator F = %g, want 65", got)
	}
	if got := store.Landscape(components.Jungle).FMax; got != 700 {
		t.Errorf("jungle f_max = %g, want 700", got)
	}
	if got := store.Landscape(components.Savannah).FMax; got != 300 {
		t.Errorf("savannah f_max = %g, want stock 300", got)
	}
}

func TestStoreRejectsBadOverrides(t *testing.T) {
	cfg, err := Parse([]byte("species: {grazer: {omega: 1.5}}"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = cfg.Store()
	var cfgErr *params.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *params.ConfigurationError", err)
	}
}

func TestSortedIntroductions(t *testing.T) {
	cfg := &Config{Introductions: []IntroductionConfig{
		{Year: 30}, {Year: 10}, {Year: 30, Population: []PlacementConfig{{Count: 1}}}, {Year: 0},
	}}
	got := cfg.SortedIntroductions()
	years := []int{got[0].Year, got[1].Year, got[2].Year, got[3].Year}
	if years[0] != 0 || years[1] != 10 || years[2] != 30 || years[3] != 30 {
		t.Errorf("years = %v", years)
	}
	if len(got[2].Population) != 0 || len(got[3].Population) != 1 {
		t.Error("same-year entries should keep file order")
	}
	if cfg.Introductions[0].Year != 30 {
		t.Error("SortedIntroductions modified the config")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Map != cfg.Map || back.Simulation != cfg.Simulation {
		t.Error("written config does not reload to the same scenario")
	}
}
