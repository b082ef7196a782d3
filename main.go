package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/game"
	"github.com/pthm-cable/biosim/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config, time-based if config is also 0)")
	years := flag.Int("years", 0, "Simulate until this year (0 = use config)")
	logEvery := flag.Int("log-every", -1, "Log stats every N years (0 = quiet, -1 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	distribution := flag.Bool("distribution", false, "Also write per-cell counts to distribution.csv")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *years > 0 {
		cfg.Simulation.Years = *years
	}
	if *logEvery >= 0 {
		cfg.Simulation.LogEvery = *logEvery
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *distribution {
		cfg.Output.Distribution = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	cfg.Simulation.Seed = rngSeed

	output, err := telemetry.NewOutputManager(cfg.Output.Dir, cfg.Output.Distribution)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	sim, err := game.NewFromConfig(cfg, rngSeed, output)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		output.Close()
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"years", cfg.Simulation.Years,
		"animals", sim.NumAnimals(),
		"output_dir", output.Dir(),
	)

	start := time.Now()
	runErr := sim.Run(cfg.Simulation.Years, cfg.SortedIntroductions())
	if err := output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if runErr != nil {
		slog.Error("simulation stopped", "year", sim.Year(), "error", runErr)
		os.Exit(1)
	}

	counts := sim.NumAnimalsPerSpecies()
	slog.Info("simulation finished",
		"year", sim.Year(),
		"grazers", counts[components.Grazer],
		"predators", counts[components.Predator],
		"elapsed", time.Since(start).String(),
	)
}
