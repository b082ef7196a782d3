// Package params holds the per-species and per-terrain constants that drive
// organism and cell behaviour.
//
// A Store is shared by pointer between the orchestrator and every phase, so a
// change is visible to all existing and future organisms and cells at once.
// Values only change through Set calls, which keep each value strictly inside
// its declared open interval.
package params

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/biosim/components"
)

// Domain is an open interval (Min, Max).
type Domain struct {
	Min, Max float64
}

// Contains reports whether Min < v < Max. NaN is never contained.
func (d Domain) Contains(v float64) bool {
	return d.Min < v && v < d.Max
}

func (d Domain) String() string {
	return fmt.Sprintf("(%g, %g)", d.Min, d.Max)
}

var (
	unit     = Domain{0, 1}
	positive = Domain{0, math.Inf(1)}
)

// SpeciesParams are the constants shared by every organism of one species.
type SpeciesParams struct {
	PhiAge      float64 `yaml:"phi_age"`
	AHalf       float64 `yaml:"a_half"`
	PhiWeight   float64 `yaml:"phi_weight"`
	WHalf       float64 `yaml:"w_half"`
	WBirth      float64 `yaml:"w_birth"`
	SigmaBirth  float64 `yaml:"sigma_birth"`
	Omega       float64 `yaml:"omega"`
	Beta        float64 `yaml:"beta"`
	Gamma       float64 `yaml:"gamma"`
	Eta         float64 `yaml:"eta"`
	Mu          float64 `yaml:"mu"`
	Zeta        float64 `yaml:"zeta"`
	Xi          float64 `yaml:"xi"`
	F           float64 `yaml:"F"`
	DeltaPhiMax float64 `yaml:"DeltaPhiMax"`
}

// LandscapeParams are the vegetation constants of one terrain.
// Terrains without vegetation keep the zero value.
type LandscapeParams struct {
	FMax  float64 `yaml:"f_max"`
	Alpha float64 `yaml:"alpha"`
}

// field binds a constant name to its domain and storage.
type field[T any] struct {
	name   string
	domain Domain
	ref    func(*T) *float64
}

var speciesFields = []field[SpeciesParams]{
	{"phi_age", unit, func(p *SpeciesParams) *float64 { return &p.PhiAge }},
	{"a_half", positive, func(p *SpeciesParams) *float64 { return &p.AHalf }},
	{"phi_weight", positive, func(p *SpeciesParams) *float64 { return &p.PhiWeight }},
	{"w_half", positive, func(p *SpeciesParams) *float64 { return &p.WHalf }},
	{"w_birth", positive, func(p *SpeciesParams) *float64 { return &p.WBirth }},
	{"sigma_birth", positive, func(p *SpeciesParams) *float64 { return &p.SigmaBirth }},
	{"omega", unit, func(p *SpeciesParams) *float64 { return &p.Omega }},
	{"beta", unit, func(p *SpeciesParams) *float64 { return &p.Beta }},
	{"gamma", unit, func(p *SpeciesParams) *float64 { return &p.Gamma }},
	{"eta", unit, func(p *SpeciesParams) *float64 { return &p.Eta }},
	{"mu", unit, func(p *SpeciesParams) *float64 { return &p.Mu }},
	{"zeta", positive, func(p *SpeciesParams) *float64 { return &p.Zeta }},
	{"xi", positive, func(p *SpeciesParams) *float64 { return &p.Xi }},
	{"F", positive, func(p *SpeciesParams) *float64 { return &p.F }},
	{"DeltaPhiMax", positive, func(p *SpeciesParams) *float64 { return &p.DeltaPhiMax }},
}

var (
	jungleFields = []field[LandscapeParams]{
		{"f_max", positive, func(p *LandscapeParams) *float64 { return &p.FMax }},
	}
	savannahFields = []field[LandscapeParams]{
		{"f_max", positive, func(p *LandscapeParams) *float64 { return &p.FMax }},
		{"alpha", unit, func(p *LandscapeParams) *float64 { return &p.Alpha }},
	}
)

// landscapeFields returns the configurable constants of a terrain, or nil
// when the terrain has none.
func landscapeFields(t components.Terrain) []field[LandscapeParams] {
	switch t {
	case components.Jungle:
		return jungleFields
	case components.Savannah:
		return savannahFields
	}
	return nil
}

// DefaultSpecies returns the stock constants for a species.
func DefaultSpecies(s components.Species) SpeciesParams {
	if s == components.Predator {
		return SpeciesParams{
			PhiAge: 0.4, AHalf: 60, PhiWeight: 0.4, WHalf: 4,
			WBirth: 6, SigmaBirth: 1, Omega: 0.9, Beta: 0.75,
			Gamma: 0.8, Eta: 0.125, Mu: 0.4, Zeta: 3.5, Xi: 1.1,
			F: 50, DeltaPhiMax: 10,
		}
	}
	return SpeciesParams{
		PhiAge: 0.2, AHalf: 40, PhiWeight: 0.1, WHalf: 10,
		WBirth: 8, SigmaBirth: 1.5, Omega: 0.4, Beta: 0.9,
		Gamma: 0.2, Eta: 0.05, Mu: 0.25, Zeta: 3.5, Xi: 1.2,
		F: 10, DeltaPhiMax: 10, // DeltaPhiMax is never read for grazers
	}
}

// DefaultLandscape returns the stock vegetation constants for a terrain.
func DefaultLandscape(t components.Terrain) LandscapeParams {
	switch t {
	case components.Jungle:
		return LandscapeParams{FMax: 800}
	case components.Savannah:
		return LandscapeParams{FMax: 300, Alpha: 0.3}
	}
	return LandscapeParams{}
}

// Store is the process-wide parameter table of one simulation.
// It is not safe for concurrent mutation.
type Store struct {
	species   [components.NumSpecies]SpeciesParams
	landscape [components.NumTerrains]LandscapeParams
}

// New returns a store holding the default constants.
func New() *Store {
	s := &Store{}
	for _, sp := range components.AllSpecies {
		s.species[sp] = DefaultSpecies(sp)
	}
	for t := range s.landscape {
		s.landscape[t] = DefaultLandscape(components.Terrain(t))
	}
	return s
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := *s
	return &c
}

// Species returns a copy of the constants for sp.
func (s *Store) Species(sp components.Species) SpeciesParams {
	return s.species[sp]
}

// Landscape returns a copy of the vegetation constants for t.
func (s *Store) Landscape(t components.Terrain) LandscapeParams {
	return s.landscape[t]
}

// SetSpecies validates and applies constants for one species.
//
// Every name is checked before anything is written. Values are then applied
// in ascending name order; the first out-of-domain value aborts the call and
// values applied before it stay applied.
func (s *Store) SetSpecies(sp components.Species, values map[string]float64) error {
	if int(sp) >= components.NumSpecies {
		return &ConfigurationError{Scope: sp.String(), Reason: "unknown species"}
	}
	return apply(sp.String(), &s.species[sp], speciesFields, values)
}

// SetLandscape validates and applies constants for one terrain, with the
// same ordering rules as SetSpecies. Only Jungle and Savannah have
// configurable constants.
func (s *Store) SetLandscape(t components.Terrain, values map[string]float64) error {
	fields := landscapeFields(t)
	if fields == nil {
		return &ConfigurationError{Scope: t.String(), Reason: "terrain has no configurable parameters"}
	}
	return apply(t.String(), &s.landscape[t], fields, values)
}

// Set resolves scope as a species name (Grazer, Predator, or the aliases
// Herbivore, Carnivore) or a terrain letter/name, then applies values.
func (s *Store) Set(scope string, values map[string]float64) error {
	if sp, ok := components.ParseSpecies(scope); ok {
		return s.SetSpecies(sp, values)
	}
	if t, ok := components.ParseTerrain(scope); ok {
		return s.SetLandscape(t, values)
	}
	return &ConfigurationError{Scope: scope, Reason: "unknown scope"}
}

// Get reads one constant by scope and name.
func (s *Store) Get(scope, name string) (float64, error) {
	if sp, ok := components.ParseSpecies(scope); ok {
		return lookup(sp.String(), &s.species[sp], speciesFields, name)
	}
	if t, ok := components.ParseTerrain(scope); ok {
		fields := landscapeFields(t)
		if fields == nil {
			return 0, &ConfigurationError{Scope: t.String(), Name: name, Reason: "terrain has no configurable parameters"}
		}
		return lookup(t.String(), &s.landscape[t], fields, name)
	}
	return 0, &ConfigurationError{Scope: scope, Name: name, Reason: "unknown scope"}
}

// SpeciesNames lists the configurable species constants.
func SpeciesNames() []string {
	return names(speciesFields)
}

// LandscapeNames lists the configurable constants of a terrain.
func LandscapeNames(t components.Terrain) []string {
	return names(landscapeFields(t))
}

// SpeciesDomain returns the domain of a species constant.
func SpeciesDomain(name string) (Domain, bool) {
	for _, f := range speciesFields {
		if f.name == name {
			return f.domain, true
		}
	}
	return Domain{}, false
}

func apply[T any](scope string, target *T, fields []field[T], values map[string]float64) error {
	index := make(map[string]field[T], len(fields))
	for _, f := range fields {
		index[f.name] = f
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := index[k]; !ok {
			return &ConfigurationError{Scope: scope, Name: k, Value: values[k], Reason: "unknown parameter"}
		}
	}

	for _, k := range keys {
		f := index[k]
		v := values[k]
		if !f.domain.Contains(v) {
			return &ConfigurationError{Scope: scope, Name: k, Value: v, Reason: "value outside " + f.domain.String()}
		}
		*f.ref(target) = v
	}
	return nil
}

func lookup[T any](scope string, target *T, fields []field[T], name string) (float64, error) {
	for _, f := range fields {
		if f.name == name {
			return *f.ref(target), nil
		}
	}
	return 0, &ConfigurationError{Scope: scope, Name: name, Reason: "unknown parameter"}
}

func names[T any](fields []field[T]) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}
