package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartYear()
		pc.StartPhase(PhaseFeedGrazers)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMigrate)
		time.Sleep(200 * time.Microsecond)
		pc.EndYear()
	}

	stats := pc.Stats()

	if stats.AvgYearDuration <= 0 {
		t.Error("expected positive average year duration")
	}
	if _, ok := stats.PhaseAvg[PhaseFeedGrazers]; !ok {
		t.Error("expected feed_grazers phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseMigrate]; !ok {
		t.Error("expected migrate phase to be tracked")
	}
}

func TestPerfCollector_RepeatedPhasesAccumulate(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartYear()
	for cell := 0; cell < 3; cell++ {
		pc.StartPhase(PhaseRegenerate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseReproduce)
	}
	pc.EndYear()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseRegenerate] < 300*time.Microsecond {
		t.Errorf("regenerate = %v, want at least 300µs over three cells", stats.PhaseAvg[PhaseRegenerate])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartYear()
		pc.StartPhase(PhaseSettle)
		time.Sleep(10 * time.Microsecond)
		pc.EndYear()
	}

	stats := pc.Stats()
	if stats.AvgYearDuration <= 0 {
		t.Error("expected positive average year duration after window filled")
	}
	if stats.YearsPerSecond <= 0 {
		t.Error("expected positive years per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartYear()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(1 * time.Millisecond)
		pc.EndYear()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgYearDuration != 0 {
		t.Error("expected zero avg year duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgYearDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseMigrate: 40, PhaseSettle: 10},
	}
	row := s.ToCSV(12)
	if row.Year != 12 || row.AvgYearUS != 1500 || row.MigratePct != 40 || row.SettlePct != 10 {
		t.Errorf("row = %+v", row)
	}
}
