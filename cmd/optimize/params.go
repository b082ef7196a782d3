// Package main provides CMA-ES optimization for island simulation parameters.
package main

import (
	"maps"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/params"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name  string  // Human-readable name
	Scope string  // Species or terrain scope, as used in the config file
	Key   string  // Constant name within the scope
	Min   float64 // Lower bound
	Max   float64 // Upper bound
}

// Path returns the config path for logging.
func (s ParamSpec) Path() string {
	return s.Scope + "." + s.Key
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Bounds stay inside each constant's open domain.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Grazer
			{Name: "grazer_omega", Scope: "grazer", Key: "omega", Min: 0.05, Max: 0.95},
			{Name: "grazer_gamma", Scope: "grazer", Key: "gamma", Min: 0.05, Max: 0.95},
			{Name: "grazer_beta", Scope: "grazer", Key: "beta", Min: 0.3, Max: 0.99},
			{Name: "grazer_F", Scope: "grazer", Key: "F", Min: 4, Max: 30},
			{Name: "grazer_zeta", Scope: "grazer", Key: "zeta", Min: 1.5, Max: 5},
			// Predator
			{Name: "pred_omega", Scope: "predator", Key: "omega", Min: 0.05, Max: 0.95},
			{Name: "pred_gamma", Scope: "predator", Key: "gamma", Min: 0.05, Max: 0.95},
			{Name: "pred_beta", Scope: "predator", Key: "beta", Min: 0.3, Max: 0.99},
			{Name: "pred_F", Scope: "predator", Key: "F", Min: 20, Max: 100},
			{Name: "pred_zeta", Scope: "predator", Key: "zeta", Min: 1.5, Max: 5},
			{Name: "pred_delta_phi_max", Scope: "predator", Key: "DeltaPhiMax", Min: 2, Max: 15},
			// Vegetation
			{Name: "jungle_f_max", Scope: "J", Key: "f_max", Min: 300, Max: 1200},
			{Name: "savannah_alpha", Scope: "S", Key: "alpha", Min: 0.05, Max: 0.95},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// ExtractFromStore reads the current parameter values from a store.
func (pv *ParamVector) ExtractFromStore(store *params.Store) ([]float64, error) {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val, err := store.Get(spec.Scope, spec.Key)
		if err != nil {
			return nil, err
		}
		v[i] = val
	}
	return v, nil
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into the config's species
// and landscape overrides.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		target := &cfg.Species
		if _, isSpecies := params.SpeciesDomain(spec.Key); !isSpecies {
			target = &cfg.Landscape
		}
		if *target == nil {
			*target = make(map[string]map[string]float64)
		}
		if (*target)[spec.Scope] == nil {
			(*target)[spec.Scope] = make(map[string]float64)
		}
		(*target)[spec.Scope][spec.Key] = clamped[i]
	}
}

// copyConfig returns a copy of cfg whose override maps can be changed
// without touching the original.
func copyConfig(cfg *config.Config) *config.Config {
	out := *cfg
	out.Species = cloneOverrides(cfg.Species)
	out.Landscape = cloneOverrides(cfg.Landscape)
	return &out
}

func cloneOverrides(m map[string]map[string]float64) map[string]map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]map[string]float64, len(m))
	for scope, values := range m {
		out[scope] = maps.Clone(values)
	}
	return out
}
