package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the annual step.
const (
	PhaseRegenerate    = "regenerate"
	PhaseFeedGrazers   = "feed_grazers"
	PhaseFeedPredators = "feed_predators"
	PhaseReproduce     = "reproduce"
	PhaseMigrate       = "migrate"
	PhaseSettle        = "settle"
	PhaseTelemetry     = "telemetry"
)

// phases lists the step phases in execution order.
var phases = []string{
	PhaseRegenerate, PhaseFeedGrazers, PhaseFeedPredators,
	PhaseReproduce, PhaseMigrate, PhaseSettle, PhaseTelemetry,
}

// PerfSample holds timing data for a single year.
type PerfSample struct {
	YearDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timing over a rolling window of years.
// A phase may be entered many times per year (once per cell); its time
// accumulates.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	yearStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector averaging over
// windowSize years.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartYear begins timing a new simulated year.
func (p *PerfCollector) StartYear() {
	p.yearStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndYear finishes timing the current year and records the sample.
func (p *PerfCollector) EndYear() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		YearDuration: now.Sub(p.yearStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgYearDuration time.Duration
	MinYearDuration time.Duration
	MaxYearDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total year time
	PhasePct map[string]float64

	YearsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minYear, maxYear time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.YearDuration
		if i == 0 || s.YearDuration < minYear {
			minYear = s.YearDuration
		}
		if s.YearDuration > maxYear {
			maxYear = s.YearDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgYearDuration: avg,
		MinYearDuration: minYear,
		MaxYearDuration: maxYear,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		YearsPerSecond:  perSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_year_us", s.AvgYearDuration.Microseconds(),
		"min_year_us", s.MinYearDuration.Microseconds(),
		"max_year_us", s.MaxYearDuration.Microseconds(),
		"years_per_sec", int(s.YearsPerSecond),
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Year             int     `csv:"year"`
	AvgYearUS        int64   `csv:"avg_year_us"`
	MinYearUS        int64   `csv:"min_year_us"`
	MaxYearUS        int64   `csv:"max_year_us"`
	YearsPerSec      float64 `csv:"years_per_sec"`
	RegeneratePct    float64 `csv:"regenerate_pct"`
	FeedGrazersPct   float64 `csv:"feed_grazers_pct"`
	FeedPredatorsPct float64 `csv:"feed_predators_pct"`
	ReproducePct     float64 `csv:"reproduce_pct"`
	MigratePct       float64 `csv:"migrate_pct"`
	SettlePct        float64 `csv:"settle_pct"`
	TelemetryPct     float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(year int) PerfStatsCSV {
	return PerfStatsCSV{
		Year:             year,
		AvgYearUS:        s.AvgYearDuration.Microseconds(),
		MinYearUS:        s.MinYearDuration.Microseconds(),
		MaxYearUS:        s.MaxYearDuration.Microseconds(),
		YearsPerSec:      s.YearsPerSecond,
		RegeneratePct:    s.PhasePct[PhaseRegenerate],
		FeedGrazersPct:   s.PhasePct[PhaseFeedGrazers],
		FeedPredatorsPct: s.PhasePct[PhaseFeedPredators],
		ReproducePct:     s.PhasePct[PhaseReproduce],
		MigratePct:       s.PhasePct[PhaseMigrate],
		SettlePct:        s.PhasePct[PhaseSettle],
		TelemetryPct:     s.PhasePct[PhaseTelemetry],
	}
}
