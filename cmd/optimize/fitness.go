package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/game"
	"github.com/pthm-cable/biosim/telemetry"
)

// FitnessEvaluator runs quiet simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	years      int
	seeds      []uint64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestHistory []telemetry.YearStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, years int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		years:       years,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHistory returns the yearly stats of the best single run so far.
func (fe *FitnessEvaluator) BestHistory() []telemetry.YearStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHistory
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Minimum viable population: a species below this for extinctionGraceYears
// consecutive years counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceYears = 3
)

// runResult holds the results from a single simulation run.
type runResult struct {
	coexistYears int // years both species survived after the last introduction
	history      []telemetry.YearStats
	err          error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	history []telemetry.YearStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Every seed runs in its own goroutine with its own parameter store and
// random stream.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := copyConfig(fe.baseConfig)
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			if result.err != nil {
				slog.Warn("run failed", "seed", s, "error", result.err)
			}
			quality := computeQuality(result.history)
			results[idx] = seedResult{
				fitness: computeFitness(result.coexistYears, quality),
				quality: quality,
				history: result.history,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHistory []telemetry.YearStats

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHistory = r.history
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHistory = bestSeedHistory
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes one run, a year at a time, until functional
// extinction or the year limit. cfg is only read.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) *runResult {
	result := &runResult{}

	sim, err := game.NewFromConfig(cfg, seed, nil)
	if err != nil {
		result.err = err
		return result
	}

	intros := cfg.SortedIntroductions()
	warmup := 0
	if len(intros) > 0 {
		warmup = intros[len(intros)-1].Year
	}

	var grazersBelow, predatorsBelow int
	for sim.Year() < fe.years {
		var due []config.IntroductionConfig
		for len(intros) > 0 && intros[0].Year <= sim.Year() {
			due = append(due, intros[0])
			intros = intros[1:]
		}
		if err := sim.Run(sim.Year()+1, due); err != nil {
			result.err = err
			return result
		}

		stats := sim.LastStats()
		result.history = append(result.history, stats)
		if stats.Year <= warmup {
			continue
		}

		// Hard extinction: either species completely gone
		if stats.Grazers == 0 || stats.Predators == 0 {
			return result
		}

		// Functional extinction: species below minimum viable population too long
		grazersBelow = belowCount(grazersBelow, stats.Grazers)
		predatorsBelow = belowCount(predatorsBelow, stats.Predators)
		if grazersBelow >= extinctionGraceYears || predatorsBelow >= extinctionGraceYears {
			return result
		}
		result.coexistYears++
	}
	return result
}

func belowCount(streak, pop int) int {
	if pop < minViablePop {
		return streak + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(coexistYears × (1.0 + 0.2 × quality))
// Coexistence dominates; quality adds up to 20% to separate configs that
// survive equally long.
func computeFitness(coexistYears int, quality float64) float64 {
	return -(float64(coexistYears) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.30
	qualityWeightHunting   = 0.30

	qualityWarmupYears = 10 // skip first N years of every run
	qualityMinPop      = 3  // exclude years where either species < this

	targetRatio       = 8.0 // grazers per predator
	targetKillsPerPop = 1.0 // kills per predator per year
)

// computeQuality computes ecosystem quality ∈ [0, 1] from yearly stats.
func computeQuality(history []telemetry.YearStats) float64 {
	if len(history) <= qualityWarmupYears {
		return 0
	}

	var ratioScores, huntScores []float64
	grazers := make([]float64, 0, len(history))
	predators := make([]float64, 0, len(history))

	for _, y := range history[qualityWarmupYears:] {
		if y.Grazers < qualityMinPop || y.Predators < qualityMinPop {
			continue
		}
		grazers = append(grazers, float64(y.Grazers))
		predators = append(predators, float64(y.Predators))

		// 1. Population ratio score
		logErr := math.Log(float64(y.Grazers) / float64(y.Predators) / targetRatio)
		ratioScores = append(ratioScores, math.Exp(-logErr*logErr))

		// 3. Hunting activity score
		killsPerPred := float64(y.Kills) / float64(y.Predators)
		huntScores = append(huntScores, math.Exp(-math.Pow((killsPerPred-targetKillsPerPop)/targetKillsPerPop, 2)))
	}

	if len(ratioScores) == 0 {
		return 0
	}

	// 2. Population stability (CV across all valid years)
	stabilityScore := 0.0
	if len(grazers) >= 2 {
		cvGrazers := cv(grazers)
		cvPredators := cv(predators)
		stabilityScore = math.Exp(-(cvGrazers*cvGrazers + cvPredators*cvPredators))
	}

	quality := qualityWeightRatio*stat.Mean(ratioScores, nil) +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*stat.Mean(huntScores, nil)

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 || floats.Sum(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
