package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/biosim/components"
)

// Census is the population state sampled at the end of a year.
type Census struct {
	Counts  [components.NumSpecies]int
	Weights [components.NumSpecies][]float64
	Fitness [components.NumSpecies][]float64
	Food    []float64 // per vegetated cell
}

// Collector accumulates events within one year and produces YearStats.
type Collector struct {
	births     [components.NumSpecies]int
	deaths     [components.NumSpecies]int
	kills      int
	migrations int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirths records n births of species s.
func (c *Collector) RecordBirths(s components.Species, n int) {
	c.births[s] += n
}

// RecordDeaths records n deaths of species s.
func (c *Collector) RecordDeaths(s components.Species, n int) {
	c.deaths[s] += n
}

// RecordKills records n grazers killed by predators.
func (c *Collector) RecordKills(n int) {
	c.kills += n
}

// RecordMigrations records n organisms moving to a neighbouring cell.
func (c *Collector) RecordMigrations(n int) {
	c.migrations += n
}

// Flush produces YearStats for the given year and resets counters.
func (c *Collector) Flush(year int, census Census) YearStats {
	gMean, gP10, gP50, gP90 := ComputeWeightStats(census.Weights[components.Grazer])
	pMean, pP10, pP50, pP90 := ComputeWeightStats(census.Weights[components.Predator])

	var food float64
	if len(census.Food) > 0 {
		food = floats.Sum(census.Food)
	}

	stats := YearStats{
		Year:      year,
		Grazers:   census.Counts[components.Grazer],
		Predators: census.Counts[components.Predator],

		GrazerBirths:   c.births[components.Grazer],
		PredatorBirths: c.births[components.Predator],
		GrazerDeaths:   c.deaths[components.Grazer],
		PredatorDeaths: c.deaths[components.Predator],
		Kills:          c.kills,
		Migrations:     c.migrations,

		GrazerWeightMean: gMean,
		GrazerWeightP10:  gP10,
		GrazerWeightP50:  gP50,
		GrazerWeightP90:  gP90,

		PredatorWeightMean: pMean,
		PredatorWeightP10:  pP10,
		PredatorWeightP50:  pP50,
		PredatorWeightP90:  pP90,

		GrazerFitnessMean:   Mean(census.Fitness[components.Grazer]),
		PredatorFitnessMean: Mean(census.Fitness[components.Predator]),

		Food: food,
	}

	*c = Collector{}
	return stats
}
