package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/telemetry"
)

// tracker records every evaluation: one CSV row per call, a progress line
// on out, and the best parameters seen so far.
type tracker struct {
	params   *ParamVector
	maxEvals int
	rows     *csv.Writer
	out      io.Writer
	started  time.Time

	evals       int
	bestFitness float64
	best        []float64
}

func newTracker(w, out io.Writer, params *ParamVector, maxEvals int) (*tracker, error) {
	tr := &tracker{
		params:      params,
		maxEvals:    maxEvals,
		rows:        csv.NewWriter(w),
		out:         out,
		started:     time.Now(),
		bestFitness: math.Inf(1),
	}
	header := []string{"eval", "fitness", "quality", "coexist_years"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := tr.rows.Write(header); err != nil {
		return nil, err
	}
	return tr, nil
}

// record logs one evaluation of the clamped raw values.
func (tr *tracker) record(values []float64, fitness, quality float64) error {
	tr.evals++
	if fitness < tr.bestFitness {
		tr.bestFitness = fitness
		tr.best = values
	}

	coexist := coexistYears(fitness, quality)
	row := []string{
		strconv.Itoa(tr.evals),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
		strconv.FormatFloat(coexist, 'f', 0, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := tr.rows.Write(row); err != nil {
		return err
	}
	tr.rows.Flush()

	elapsed := time.Since(tr.started)
	eta := time.Duration(tr.maxEvals-tr.evals) * (elapsed / time.Duration(tr.evals))
	fmt.Fprintf(tr.out, "eval %d/%d  coexisted %.0fy  quality %.2f  best %.1f  [%s, eta %s]\n",
		tr.evals, tr.maxEvals, coexist, quality, tr.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
	return tr.rows.Error()
}

// coexistYears inverts computeFitness for display.
func coexistYears(fitness, quality float64) float64 {
	return -fitness / (1 + 0.2*quality)
}

// summary prints the best parameters found.
func (tr *tracker) summary() {
	fmt.Fprintf(tr.out, "\n%d evaluations in %s, best fitness %.1f\n",
		tr.evals, formatDuration(time.Since(tr.started)), tr.bestFitness)
	for i, spec := range tr.params.Specs {
		fmt.Fprintf(tr.out, "  %-12s %.6f\n", spec.Path(), tr.best[i])
	}
}

// saveResults writes best_config.yaml and, when available, the yearly
// history of the best run as best_run.csv.
func saveResults(dir string, base *config.Config, params *ParamVector, best []float64, history []telemetry.YearStats) error {
	cfg := copyConfig(base)
	params.ApplyToConfig(cfg, best)
	if err := cfg.WriteYAML(filepath.Join(dir, "best_config.yaml")); err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}
	f, err := os.Create(filepath.Join(dir, "best_run.csv"))
	if err != nil {
		return fmt.Errorf("creating best run file: %w", err)
	}
	defer f.Close()
	return gocsv.MarshalFile(&history, f)
}

// formatDuration renders d as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
