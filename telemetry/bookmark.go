package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGrazerExtinction   BookmarkType = "grazer_extinction"
	BookmarkPredatorExtinction BookmarkType = "predator_extinction"
	BookmarkPredatorRecovery   BookmarkType = "predator_recovery"
	BookmarkGrazerCrash        BookmarkType = "grazer_crash"
	BookmarkStableEcosystem    BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Year        int          `csv:"year"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"year", b.Year,
		"description", b.Description,
	)
}

// stableYears is how many consecutive low-variance years make a stable
// ecosystem.
const stableYears = 5

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []YearStats
	historySize int
	historyIdx  int
	historyFull bool

	last    YearStats
	hasLast bool

	recentPredMin    int // minimum predator count since the last recovery
	recentGrazerPeak int // peak grazer count since the last crash
	stableCount      int // consecutive stable years
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]YearStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats YearStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.hasLast {
		if b := bd.checkExtinction(stats); b != nil {
			bookmarks = append(bookmarks, b...)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkGrazerCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.last = stats
	bd.hasLast = true

	if stats.Predators > 0 && (stats.Predators < bd.recentPredMin || bd.recentPredMin == 0) {
		bd.recentPredMin = stats.Predators
	}
	if stats.Grazers > bd.recentGrazerPeak {
		bd.recentGrazerPeak = stats.Grazers
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats YearStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns the last n entries of history in insertion order.
func (bd *BookmarkDetector) recent(n int) []YearStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	if n > size {
		return nil
	}
	out := make([]YearStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats YearStats) []Bookmark {
	var out []Bookmark
	if bd.last.Grazers > 0 && stats.Grazers == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkGrazerExtinction,
			Year:        stats.Year,
			Description: fmt.Sprintf("Grazers died out (last count %d)", bd.last.Grazers),
		})
	}
	if bd.last.Predators > 0 && stats.Predators == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkPredatorExtinction,
			Year:        stats.Year,
			Description: fmt.Sprintf("Predators died out (last count %d)", bd.last.Predators),
		})
	}
	return out
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats YearStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if stats.Predators >= threshold && stats.Predators >= 6 {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Predators

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Year:        stats.Year,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.Predators),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkGrazerCrash(stats YearStats) *Bookmark {
	if bd.recentGrazerPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Grazers)/float64(bd.recentGrazerPeak)
	if drop > 0.30 && stats.Grazers < bd.recentGrazerPeak-10 {
		oldPeak := bd.recentGrazerPeak
		bd.recentGrazerPeak = stats.Grazers

		return &Bookmark{
			Type:        BookmarkGrazerCrash,
			Year:        stats.Year,
			Description: fmt.Sprintf("Grazers crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Grazers),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats YearStats) *Bookmark {
	if stats.Grazers < 10 || stats.Predators < 3 {
		bd.stableCount = 0
		return nil
	}

	window := bd.recent(4)
	if window == nil {
		return nil
	}
	grazers := make([]float64, 0, len(window)+1)
	preds := make([]float64, 0, len(window)+1)
	for _, h := range window {
		grazers = append(grazers, float64(h.Grazers))
		preds = append(preds, float64(h.Predators))
	}
	grazers = append(grazers, float64(stats.Grazers))
	preds = append(preds, float64(stats.Predators))

	if coefficientOfVariation(grazers) < 0.2 && coefficientOfVariation(preds) < 0.2 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == stableYears { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Year:        stats.Year,
			Description: fmt.Sprintf("Stable ecosystem with %d grazers, %d predators over %d+ years", stats.Grazers, stats.Predators, stableYears),
		}
	}
	return nil
}

func coefficientOfVariation(x []float64) float64 {
	mean, std := stat.MeanStdDev(x, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
