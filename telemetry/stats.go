// Package telemetry provides per-year population statistics, bookmarks,
// step timing and CSV output.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// YearStats holds the summary of one simulated year.
type YearStats struct {
	Year int `csv:"year"`

	// Population counts at year end
	Grazers   int `csv:"grazers"`
	Predators int `csv:"predators"`

	// Events during the year
	GrazerBirths   int `csv:"grazer_births"`
	PredatorBirths int `csv:"predator_births"`
	GrazerDeaths   int `csv:"grazer_deaths"`
	PredatorDeaths int `csv:"predator_deaths"`
	Kills          int `csv:"kills"`
	Migrations     int `csv:"migrations"`

	// Weight distribution (sampled at year end)
	GrazerWeightMean float64 `csv:"grazer_weight_mean"`
	GrazerWeightP10  float64 `csv:"grazer_weight_p10"`
	GrazerWeightP50  float64 `csv:"grazer_weight_p50"`
	GrazerWeightP90  float64 `csv:"grazer_weight_p90"`

	PredatorWeightMean float64 `csv:"predator_weight_mean"`
	PredatorWeightP10  float64 `csv:"predator_weight_p10"`
	PredatorWeightP50  float64 `csv:"predator_weight_p50"`
	PredatorWeightP90  float64 `csv:"predator_weight_p90"`

	GrazerFitnessMean   float64 `csv:"grazer_fitness_mean"`
	PredatorFitnessMean float64 `csv:"predator_fitness_mean"`

	// Standing food left on the island after the year
	Food float64 `csv:"food"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeWeightStats calculates mean and percentiles of a sample.
// The input is not modified.
func ComputeWeightStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p10, p50, p90
}

// Mean returns the sample mean, or 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", s.Year),
		slog.Int("grazers", s.Grazers),
		slog.Int("predators", s.Predators),
		slog.Int("grazer_births", s.GrazerBirths),
		slog.Int("predator_births", s.PredatorBirths),
		slog.Int("grazer_deaths", s.GrazerDeaths),
		slog.Int("predator_deaths", s.PredatorDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("migrations", s.Migrations),
		slog.Float64("grazer_weight_mean", s.GrazerWeightMean),
		slog.Float64("grazer_weight_p50", s.GrazerWeightP50),
		slog.Float64("predator_weight_mean", s.PredatorWeightMean),
		slog.Float64("predator_weight_p50", s.PredatorWeightP50),
		slog.Float64("grazer_fitness_mean", s.GrazerFitnessMean),
		slog.Float64("predator_fitness_mean", s.PredatorFitnessMean),
		slog.Float64("food", s.Food),
	)
}

// LogStats logs the year summary using slog.
func (s YearStats) LogStats() {
	slog.Info("year", "stats", s)
}
