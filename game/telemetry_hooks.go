package game

import (
	"log/slog"

	"github.com/pthm-cable/biosim/telemetry"
)

// report hands a finished year to the callback, the logger, the CSV output
// and the bookmark detector.
func (s *Simulation) report(stats telemetry.YearStats) {
	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	logYear := s.logEvery > 0 && stats.Year%s.logEvery == 0
	if logYear {
		stats.LogStats()
	}

	if err := s.output.WriteYear(stats); err != nil {
		slog.Error("failed to write population", "error", err)
	}
	if s.output.WantsDistribution() {
		if err := s.output.WriteDistribution(s.cellRecords()); err != nil {
			slog.Error("failed to write distribution", "error", err)
		}
	}
	if logYear {
		perfStats := s.perf.Stats()
		perfStats.LogStats()
		if err := s.output.WritePerf(perfStats, stats.Year); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logEvery > 0 {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// cellRecords converts the current distribution into CSV rows.
func (s *Simulation) cellRecords() []telemetry.CellRecord {
	cells := s.Distribution()
	out := make([]telemetry.CellRecord, len(cells))
	for i, c := range cells {
		out[i] = telemetry.CellRecord{
			Year:      s.year,
			Row:       c.Row,
			Col:       c.Col,
			Terrain:   string(c.Terrain.Letter()),
			Grazers:   c.Grazers,
			Predators: c.Predators,
		}
	}
	return out
}
