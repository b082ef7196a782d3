package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/telemetry"
)

// NewFromConfig builds a simulation from a scenario: map, parameter
// overrides and initial population. seed replaces cfg.Simulation.Seed.
func NewFromConfig(cfg *config.Config, seed uint64, output *telemetry.OutputManager) (*Simulation, error) {
	store, err := cfg.Store()
	if err != nil {
		return nil, fmt.Errorf("applying parameters: %w", err)
	}
	sim, err := New(Options{
		Seed:            seed,
		Map:             cfg.Map,
		Store:           store,
		LogEvery:        cfg.Simulation.LogEvery,
		PerfWindow:      cfg.Telemetry.PerfWindow,
		BookmarkHistory: cfg.Telemetry.BookmarkHistory,
		Output:          output,
	})
	if err != nil {
		return nil, err
	}
	if err := sim.AddPopulation(PlacementsFromConfig(cfg.Population)); err != nil {
		return nil, fmt.Errorf("initial population: %w", err)
	}
	return sim, nil
}

// Run simulates up to year until, adding each introduction once its year
// has been reached. Introductions for years already past or beyond until
// are skipped with a warning. An invalid introduction stops the run.
func (s *Simulation) Run(until int, intros []config.IntroductionConfig) error {
	for _, in := range intros {
		if in.Year < s.year || in.Year > until {
			slog.Warn("skipping introduction", "year", in.Year, "current_year", s.year, "until", until)
			continue
		}
		s.Simulate(in.Year - s.year)
		if err := s.AddPopulation(PlacementsFromConfig(in.Population)); err != nil {
			return fmt.Errorf("introduction at year %d: %w", in.Year, err)
		}
		slog.Info("introduced population",
			"year", s.year,
			"grazers", s.grid.Count(components.Grazer),
			"predators", s.grid.Count(components.Predator),
		)
	}
	s.Simulate(until - s.year)
	return nil
}
