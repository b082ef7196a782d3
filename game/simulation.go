// Package game runs the annual cycle of the island: it owns the grid, the
// parameter store and the random source, and applies the cell phase rules
// in a fixed order.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed uint64
	Map  string

	// Store holds the constants; nil means stock values. The simulation
	// keeps the pointer, so later changes through it apply immediately.
	Store *params.Store

	LogEvery        int // Log year stats every N years (0 = never)
	PerfWindow      int // Years averaged by the perf collector
	BookmarkHistory int // Years kept by the bookmark detector

	Output        *telemetry.OutputManager     // nil = no CSV output
	StatsCallback func(telemetry.YearStats) // called after every year
}

// Simulation is one island run. It is not safe for concurrent use.
type Simulation struct {
	grid  *systems.Grid
	store *params.Store
	rng   *rand.Rand
	year  int

	logEvery      int
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.YearStats)
	last          telemetry.YearStats
}

// New builds a simulation on the given map. The map is validated before
// anything else is set up.
func New(opts Options) (*Simulation, error) {
	store := opts.Store
	if store == nil {
		store = params.New()
	}
	grid, err := systems.NewGridFromMap(opts.Map, store)
	if err != nil {
		return nil, fmt.Errorf("building island: %w", err)
	}
	return &Simulation{
		grid:          grid,
		store:         store,
		rng:           newRand(opts.Seed),
		logEvery:      opts.LogEvery,
		collector:     telemetry.NewCollector(),
		perf:          telemetry.NewPerfCollector(opts.PerfWindow),
		bookmarks:     telemetry.NewBookmarkDetector(opts.BookmarkHistory),
		output:        opts.Output,
		statsCallback: opts.StatsCallback,
	}, nil
}

// newRand returns the PCG generator used for every draw of a run.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Step advances the island by one year.
//
// Pass 1 visits every cell in row-major order and runs regrowth, grazer
// feeding, predation, reproduction and migration on it. Pass 2 settles the
// year end of every cell. Migrants are Settled on arrival: a cell the scan
// reaches later does not let them act again, but they still count toward
// its breeding head count and can be hunted there.
func (s *Simulation) Step() {
	s.perf.StartYear()

	s.grid.Each(func(r, c int, cell *systems.Cell) {
		if !cell.Habitable() {
			return
		}
		s.perf.StartPhase(telemetry.PhaseRegenerate)
		cell.RegenerateFood(s.store)

		s.perf.StartPhase(telemetry.PhaseFeedGrazers)
		cell.FeedGrazers(s.store)

		s.perf.StartPhase(telemetry.PhaseFeedPredators)
		s.collector.RecordKills(cell.FeedPredators(s.store, s.rng))

		s.perf.StartPhase(telemetry.PhaseReproduce)
		births := cell.Reproduce(s.store, s.rng)
		for _, sp := range components.AllSpecies {
			s.collector.RecordBirths(sp, births[sp])
		}

		s.perf.StartPhase(telemetry.PhaseMigrate)
		s.collector.RecordMigrations(s.grid.Migrate(r, c, s.store, s.rng))
	})

	s.perf.StartPhase(telemetry.PhaseSettle)
	s.grid.Each(func(_, _ int, cell *systems.Cell) {
		if !cell.Habitable() {
			return
		}
		deaths := cell.SettleYearEnd(s.store, s.rng)
		for _, sp := range components.AllSpecies {
			s.collector.RecordDeaths(sp, deaths[sp])
		}
	})

	s.year++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.last = s.collector.Flush(s.year, s.census())
	s.perf.EndYear()

	s.report(s.last)
}

// Simulate advances the island by the given number of years.
func (s *Simulation) Simulate(years int) {
	for i := 0; i < years; i++ {
		s.Step()
	}
}

// Year returns the number of years simulated so far.
func (s *Simulation) Year() int {
	return s.year
}

// LastStats returns the summary of the most recent year.
func (s *Simulation) LastStats() telemetry.YearStats {
	return s.last
}

// Params returns the parameter store shared by every organism and cell.
func (s *Simulation) Params() *params.Store {
	return s.store
}

// SetSpeciesParameters validates and applies constants for one species.
// scope accepts Grazer, Predator and the aliases Herbivore, Carnivore.
func (s *Simulation) SetSpeciesParameters(scope string, values map[string]float64) error {
	sp, ok := components.ParseSpecies(scope)
	if !ok {
		return &params.ConfigurationError{Scope: scope, Reason: "unknown species"}
	}
	return s.store.SetSpecies(sp, values)
}

// SetLandscapeParameters validates and applies constants for one terrain.
// scope accepts a terrain letter or name.
func (s *Simulation) SetLandscapeParameters(scope string, values map[string]float64) error {
	t, ok := components.ParseTerrain(scope)
	if !ok {
		return &params.ConfigurationError{Scope: scope, Reason: "unknown terrain"}
	}
	return s.store.SetLandscape(t, values)
}

// census samples counts, weights, fitness and food at year end.
func (s *Simulation) census() telemetry.Census {
	var c telemetry.Census
	s.grid.Each(func(_, _ int, cell *systems.Cell) {
		if cell.Food > 0 {
			c.Food = append(c.Food, cell.Food)
		}
	})
	s.grid.Herd().Each(func(_ ecs.Entity, o *components.Organism) {
		sp := o.Species
		c.Counts[sp]++
		c.Weights[sp] = append(c.Weights[sp], o.Weight)
		c.Fitness[sp] = append(c.Fitness[sp], systems.Fitness(o, s.store))
	})
	return c
}
