// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds a complete simulation scenario.
type Config struct {
	Simulation    SimulationConfig              `yaml:"simulation"`
	Map           string                        `yaml:"map"`
	Population    []PlacementConfig             `yaml:"population"`
	Introductions []IntroductionConfig          `yaml:"introductions"`
	Species       map[string]map[string]float64 `yaml:"species"`
	Landscape     map[string]map[string]float64 `yaml:"landscape"`
	Telemetry     TelemetryConfig               `yaml:"telemetry"`
	Output        OutputConfig                  `yaml:"output"`
}

// SimulationConfig holds run control parameters.
type SimulationConfig struct {
	Seed     uint64 `yaml:"seed"`      // 0 = time-based
	Years    int    `yaml:"years"`     // Total years to simulate
	LogEvery int    `yaml:"log_every"` // Log a year summary every N years (0 = never)
}

// PlacementConfig describes Count identical animals placed on one cell.
// Row and Col are 1-based.
type PlacementConfig struct {
	Row     int     `yaml:"row"`
	Col     int     `yaml:"col"`
	Species string  `yaml:"species"`
	Age     int     `yaml:"age"`
	Weight  float64 `yaml:"weight"`
	Count   int     `yaml:"count"`
}

// IntroductionConfig schedules animals to be added once Year years have
// been simulated.
type IntroductionConfig struct {
	Year       int               `yaml:"year"`
	Population []PlacementConfig `yaml:"population"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow      int `yaml:"perf_window"`      // Years averaged by the perf collector
	BookmarkHistory int `yaml:"bookmark_history"` // Years kept by the bookmark detector
}

// OutputConfig controls CSV output.
type OutputConfig struct {
	Dir          string `yaml:"dir"`          // Empty = no output files
	Distribution bool   `yaml:"distribution"` // Also write per-cell counts every year
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Lists in the user file
// replace the default lists. Species and landscape overrides are merged
// scope by scope and key by key, with aliases of a scope folded together.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from YAML text merged over the embedded
// defaults. Empty data yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	species, landscape := cfg.Species, cfg.Landscape
	var userSpecies, userLandscape map[string]map[string]float64
	if len(data) > 0 {
		// Only overwrites fields present in data. The override maps are
		// read fresh and merged below.
		cfg.Species, cfg.Landscape = nil, nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		userSpecies, userLandscape = cfg.Species, cfg.Landscape
	}

	var err error
	if cfg.Species, err = mergeOverrides("species", speciesKey, species, userSpecies); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Landscape, err = mergeOverrides("landscape", terrainKey, landscape, userLandscape); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// speciesKey spells a species scope the one way the config uses.
// Unknown names are kept so the store can report them.
func speciesKey(name string) string {
	if sp, ok := components.ParseSpecies(name); ok {
		return strings.ToLower(sp.String())
	}
	return name
}

// terrainKey reduces a terrain scope to its map letter.
func terrainKey(name string) string {
	if t, ok := components.ParseTerrain(name); ok {
		return string(t.Letter())
	}
	return name
}

// mergeOverrides folds each layer over the previous one under canonical
// scope keys. Values merge key by key. Two spellings of one scope within a
// single layer are an error.
func mergeOverrides(section string, key func(string) string, layers ...map[string]map[string]float64) (map[string]map[string]float64, error) {
	var out map[string]map[string]float64
	for _, layer := range layers {
		seen := make(map[string]string, len(layer))
		for _, name := range slices.Sorted(maps.Keys(layer)) {
			k := key(name)
			if prev, dup := seen[k]; dup {
				return nil, fmt.Errorf("%s: %q and %q name the same scope", section, prev, name)
			}
			seen[k] = name
			if out == nil {
				out = make(map[string]map[string]float64)
			}
			if out[k] == nil {
				out[k] = make(map[string]float64, len(layer[name]))
			}
			maps.Copy(out[k], layer[name])
		}
	}
	return out, nil
}

// validate checks the run-control values. Map, placement and parameter
// contents are checked by the packages that consume them.
func (c *Config) validate() error {
	var errs []error
	if c.Simulation.Years < 0 {
		errs = append(errs, fmt.Errorf("simulation.years must be >= 0, got %d", c.Simulation.Years))
	}
	if c.Simulation.LogEvery < 0 {
		errs = append(errs, fmt.Errorf("simulation.log_every must be >= 0, got %d", c.Simulation.LogEvery))
	}
	for i, p := range c.Population {
		if p.Count < 1 {
			errs = append(errs, fmt.Errorf("population[%d].count must be >= 1, got %d", i, p.Count))
		}
	}
	for i, in := range c.Introductions {
		if in.Year < 0 {
			errs = append(errs, fmt.Errorf("introductions[%d].year must be >= 0, got %d", i, in.Year))
		}
		for j, p := range in.Population {
			if p.Count < 1 {
				errs = append(errs, fmt.Errorf("introductions[%d].population[%d].count must be >= 1, got %d", i, j, p.Count))
			}
		}
	}
	return errors.Join(errs...)
}

// SortedIntroductions returns the introductions ordered by year. Entries
// for the same year keep their file order.
func (c *Config) SortedIntroductions() []IntroductionConfig {
	out := slices.Clone(c.Introductions)
	slices.SortStableFunc(out, func(a, b IntroductionConfig) int {
		return a.Year - b.Year
	})
	return out
}

// Store builds a parameter store from the stock constants with the
// species and landscape overrides applied. Aliases of one scope are
// rejected rather than applied in an arbitrary order.
func (c *Config) Store() (*params.Store, error) {
	store := params.New()
	species, err := mergeOverrides("species", speciesKey, c.Species)
	if err != nil {
		return nil, err
	}
	landscape, err := mergeOverrides("landscape", terrainKey, c.Landscape)
	if err != nil {
		return nil, err
	}
	for _, overrides := range []map[string]map[string]float64{species, landscape} {
		for _, scope := range slices.Sorted(maps.Keys(overrides)) {
			if err := store.Set(scope, overrides[scope]); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
