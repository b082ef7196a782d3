// Command optimize searches species and vegetation constants for long
// grazer/predator coexistence using CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/biosim/config"
)

func main() {
	configPath := flag.String("config", "", "Base scenario YAML (empty = defaults)")
	years := flag.Int("years", 300, "Year cap per run")
	seeds := flag.Int("seeds", 3, "Runs per evaluation, one seed each")
	maxEvals := flag.Int("max-evals", 200, "Evaluation budget")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + 1.5*dim)")
	outputDir := flag.String("output", "", "Directory for the log and the best config")
	flag.Parse()

	// Runs log introductions; only warnings are of interest here.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(*configPath, *outputDir, *years, *seeds, *maxEvals, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, years, seeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base, err := config.Load(configPath)
	if err != nil {
		return err
	}
	base.Simulation.LogEvery = 0

	params := NewParamVector()
	store, err := base.Store()
	if err != nil {
		return fmt.Errorf("base overrides: %w", err)
	}
	start, err := params.ExtractFromStore(store)
	if err != nil {
		return err
	}

	runSeeds := make([]uint64, seeds)
	for i := range runSeeds {
		runSeeds[i] = uint64(42 + 1000*i)
	}
	evaluator := NewFitnessEvaluator(params, years, runSeeds, base)

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log: %w", err)
	}
	defer logFile.Close()
	tr, err := newTracker(logFile, os.Stdout, params, maxEvals)
	if err != nil {
		return err
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			if err := tr.record(values, fitness, evaluator.LastQuality()); err != nil {
				slog.Warn("writing evaluation log", "error", err)
			}
			return fitness
		},
	}
	if population == 0 {
		population = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}
	// Seeds of one evaluation already run in parallel.
	settings := &optimize.Settings{FuncEvaluations: maxEvals, Concurrent: 0}

	fmt.Printf("CMA-ES over %d parameters, population %d, %d evaluations of %d seeds x %d years\n",
		params.Dim(), population, maxEvals, seeds, years)
	result, err := optimize.Minimize(problem, params.Normalize(params.Clamp(start)), settings, method)
	if err != nil {
		slog.Warn("optimizer stopped", "error", err)
	}

	if tr.best == nil && result != nil {
		tr.best = params.Clamp(params.Denormalize(result.X))
	}
	if tr.best == nil {
		return fmt.Errorf("no evaluation completed")
	}
	tr.summary()
	return saveResults(outputDir, base, params, tr.best, evaluator.BestHistory())
}
