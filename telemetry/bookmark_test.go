package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(YearStats{Year: 1, Grazers: 40, Predators: 2})

	bookmarks := bd.Check(YearStats{Year: 2, Grazers: 35, Predators: 0})
	if !hasBookmark(bookmarks, BookmarkPredatorExtinction) {
		t.Error("expected predator_extinction bookmark")
	}
	if hasBookmark(bookmarks, BookmarkGrazerExtinction) {
		t.Error("grazers are still alive")
	}

	// Already extinct: no repeat.
	if hasBookmark(bd.Check(YearStats{Year: 3, Grazers: 30}), BookmarkPredatorExtinction) {
		t.Error("extinction should be reported once")
	}
}

func TestBookmarkDetector_GrazerCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(YearStats{Year: i, Grazers: 100, Predators: 10})
	}

	bookmarks := bd.Check(YearStats{Year: 5, Grazers: 60, Predators: 10})
	if !hasBookmark(bookmarks, BookmarkGrazerCrash) {
		t.Error("expected grazer_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(YearStats{Year: 0, Grazers: 100, Predators: 2})
	bd.Check(YearStats{Year: 1, Grazers: 100, Predators: 3})

	bookmarks := bd.Check(YearStats{Year: 2, Grazers: 100, Predators: 8})
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for year := 0; year < 20; year++ {
		stats := YearStats{Year: year, Grazers: 200 + year%3, Predators: 20 + year%2}
		if hasBookmark(bd.Check(stats), BookmarkStableEcosystem) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("stable_ecosystem triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_UnstableNeverStable(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for year := 0; year < 20; year++ {
		g := 50
		if year%2 == 0 {
			g = 500
		}
		if hasBookmark(bd.Check(YearStats{Year: year, Grazers: g, Predators: 20}), BookmarkStableEcosystem) {
			t.Fatal("oscillating population reported as stable")
		}
	}
}
