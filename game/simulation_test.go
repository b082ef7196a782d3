package game

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/params"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
)

// singleJungle is a one-cell island; nothing can migrate off it.
const singleJungle = `
OOO
OJO
OOO`

const smallIsland = `
OOOOOOO
OJJSSDO
OJMJJJO
OSSJJDO
OOOOOOO`

func newSim(t *testing.T, island string, seed uint64) *Simulation {
	t.Helper()
	sim, err := New(Options{Seed: seed, Map: island})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sim
}

func herd(species string, n, age int, weight float64) []Animal {
	out := make([]Animal, n)
	for i := range out {
		out[i] = Animal{Species: species, Age: age, Weight: weight}
	}
	return out
}

func TestNewRejectsBadMap(t *testing.T) {
	_, err := New(Options{Map: "OOO\nOJJ\nOOO"})
	var mapErr *systems.MapFormatError
	if !errors.As(err, &mapErr) {
		t.Fatalf("error = %v, want *systems.MapFormatError", err)
	}
}

func TestGrazersGainWeightInOneYear(t *testing.T) {
	sim := newSim(t, singleJungle, 3)
	if err := sim.AddPopulation([]Placement{{Loc: Loc{2, 2}, Animals: herd("Herbivore", 100, 8, 16)}}); err != nil {
		t.Fatal(err)
	}

	sim.Step()

	cell := sim.grid.At(1, 1)
	if len(cell.Grazers) == 0 {
		t.Fatal("every grazer died")
	}
	var sum float64
	for _, g := range cell.Members(components.Grazer) {
		sum += g.Weight
		if g.Age != 9 {
			t.Errorf("age = %d, want 9", g.Age)
		}
	}
	if mean := sum / float64(len(cell.Grazers)); mean <= 16 {
		t.Errorf("mean weight = %g, want above 16", mean)
	}
}

func TestPredatorsWithoutGrazersOnlyLoseWeight(t *testing.T) {
	sim := newSim(t, singleJungle, 5)
	if err := sim.AddPopulation([]Placement{{Loc: Loc{2, 2}, Animals: herd("Carnivore", 30, 5, 20)}}); err != nil {
		t.Fatal(err)
	}

	sim.Step()

	for _, p := range sim.grid.At(1, 1).Members(components.Predator) {
		if math.Abs(p.Weight-17.5) > 1e-12 {
			t.Errorf("predator weight = %g, want 17.5", p.Weight)
		}
	}
	if sim.LastStats().Kills != 0 || sim.LastStats().PredatorBirths != 0 {
		t.Errorf("stats = %+v", sim.LastStats())
	}
}

func TestJungleFoodResetsEachYear(t *testing.T) {
	sim := newSim(t, singleJungle, 1)
	cell := sim.grid.At(1, 1)
	cell.Food = 5

	sim.Step()

	if cell.Food != 800 {
		t.Errorf("food = %g, want 800", cell.Food)
	}
	if sim.LastStats().Food != 800 {
		t.Errorf("reported food = %g, want 800", sim.LastStats().Food)
	}
}

func TestStepAdvancesYearAndReports(t *testing.T) {
	var years []int
	sim, err := New(Options{
		Seed:          9,
		Map:           smallIsland,
		StatsCallback: func(s telemetry.YearStats) { years = append(years, s.Year) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.AddPopulation([]Placement{
		{Loc: Loc{2, 2}, Animals: herd("Grazer", 40, 5, 20)},
		{Loc: Loc{4, 4}, Animals: herd("Predator", 5, 5, 20)},
	}); err != nil {
		t.Fatal(err)
	}

	sim.Simulate(4)

	if sim.Year() != 4 {
		t.Errorf("year = %d, want 4", sim.Year())
	}
	if !reflect.DeepEqual(years, []int{1, 2, 3, 4}) {
		t.Errorf("callback years = %v", years)
	}
	last := sim.LastStats()
	counts := sim.NumAnimalsPerSpecies()
	if last.Grazers != counts[components.Grazer] || last.Predators != counts[components.Predator] {
		t.Errorf("stats %d/%d disagree with counts %v", last.Grazers, last.Predators, counts)
	}
	if sim.NumAnimals() != counts[components.Grazer]+counts[components.Predator] {
		t.Error("NumAnimals disagrees with per-species counts")
	}
	if n := sim.grid.Herd().Len(); n != sim.NumAnimals() {
		t.Errorf("herd holds %d organisms, rosters hold %d", n, sim.NumAnimals())
	}

	sim.Simulate(0)
	sim.Simulate(-3)
	if sim.Year() != 4 {
		t.Errorf("non-positive Simulate changed the year to %d", sim.Year())
	}
}

func TestSameSeedSameHistory(t *testing.T) {
	run := func(seed uint64) ([]CellSnapshot, telemetry.YearStats) {
		sim := newSim(t, smallIsland, seed)
		if err := sim.AddPopulation([]Placement{
			{Loc: Loc{2, 2}, Animals: herd("Grazer", 60, 5, 20)},
			{Loc: Loc{4, 5}, Animals: herd("Predator", 10, 5, 20)},
		}); err != nil {
			t.Fatal(err)
		}
		sim.Simulate(25)
		return sim.Distribution(), sim.LastStats()
	}

	d1, s1 := run(42)
	d2, s2 := run(42)
	if !reflect.DeepEqual(d1, d2) {
		t.Error("same seed produced different distributions")
	}
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("same seed produced different stats:\n%+v\n%+v", s1, s2)
	}
}

func TestOrganismsStayOnHabitableCells(t *testing.T) {
	sim := newSim(t, smallIsland, 17)
	if err := sim.AddPopulation([]Placement{
		{Loc: Loc{2, 3}, Animals: herd("Grazer", 80, 3, 25)},
		{Loc: Loc{3, 4}, Animals: herd("Predator", 15, 3, 25)},
	}); err != nil {
		t.Fatal(err)
	}
	for year := 0; year < 15; year++ {
		sim.Step()
		for _, c := range sim.Distribution() {
			if !c.Terrain.Habitable() && c.Grazers+c.Predators > 0 {
				t.Fatalf("year %d: %d animals on %v at (%d,%d)", sim.Year(), c.Grazers+c.Predators, c.Terrain, c.Row, c.Col)
			}
		}
	}
}

func TestSetParameters(t *testing.T) {
	sim := newSim(t, singleJungle, 1)

	var cfgErr *params.ConfigurationError
	if err := sim.SetSpeciesParameters("Herbivore", map[string]float64{"omega": 1.5}); !errors.As(err, &cfgErr) {
		t.Errorf("omega 1.5: error = %v, want ConfigurationError", err)
	}
	if err := sim.SetSpeciesParameters("Tundra", map[string]float64{"omega": 0.5}); !errors.As(err, &cfgErr) {
		t.Errorf("unknown species: error = %v", err)
	}
	if err := sim.SetLandscapeParameters("D", map[string]float64{"f_max": 10}); !errors.As(err, &cfgErr) {
		t.Errorf("desert: error = %v", err)
	}

	if err := sim.SetLandscapeParameters("J", map[string]float64{"f_max": 700}); err != nil {
		t.Fatal(err)
	}
	sim.Step()
	if f := sim.grid.At(1, 1).Food; f != 700 {
		t.Errorf("food after reconfiguration = %g, want 700", f)
	}

	if err := sim.SetSpeciesParameters("Carnivore", map[string]float64{"F": 65}); err != nil {
		t.Fatal(err)
	}
	if f := sim.Params().Species(components.Predator).F; f != 65 {
		t.Errorf("predator F = %g, want 65", f)
	}
}

func TestRunAppliesIntroductions(t *testing.T) {
	sim := newSim(t, smallIsland, 2)
	if err := sim.AddPopulation([]Placement{{Loc: Loc{2, 2}, Animals: herd("Grazer", 30, 5, 20)}}); err != nil {
		t.Fatal(err)
	}
	intros := []config.IntroductionConfig{
		{Year: 2, Population: []config.PlacementConfig{{Row: 4, Col: 4, Species: "predator", Age: 5, Weight: 20, Count: 7}}},
		{Year: 9, Population: []config.PlacementConfig{{Row: 4, Col: 4, Species: "predator", Age: 5, Weight: 20, Count: 7}}},
	}

	if err := sim.Run(2, intros); err != nil {
		t.Fatal(err)
	}
	if sim.Year() != 2 {
		t.Errorf("year = %d, want 2", sim.Year())
	}
	if n := sim.NumAnimalsPerSpecies()[components.Predator]; n != 7 {
		t.Errorf("predators = %d, want 7 (second introduction lies beyond the run)", n)
	}

	// Introductions already in the past are skipped.
	past := []config.IntroductionConfig{
		{Year: 1, Population: []config.PlacementConfig{{Row: 1, Col: 1, Species: "grazer", Age: 1, Weight: 5, Count: 1}}},
	}
	if err := sim.Run(4, past); err != nil {
		t.Fatal(err)
	}
	if sim.Year() != 4 {
		t.Errorf("year = %d, want 4", sim.Year())
	}
}

func TestRunStopsOnBadIntroduction(t *testing.T) {
	sim := newSim(t, smallIsland, 2)
	intros := []config.IntroductionConfig{
		{Year: 1, Population: []config.PlacementConfig{{Row: 1, Col: 1, Species: "grazer", Age: 1, Weight: 5, Count: 1}}},
	}
	err := sim.Run(5, intros)
	var placeErr *PlacementError
	if !errors.As(err, &placeErr) {
		t.Fatalf("error = %v, want *PlacementError", err)
	}
	if sim.Year() != 1 {
		t.Errorf("year = %d, want 1", sim.Year())
	}
}

func TestAddPopulationRejectsBarrenCells(t *testing.T) {
	tests := []struct {
		name    string
		barren  Loc
		terrain string
	}{
		{"mountain", Loc{3, 3}, "Mountain"},
		{"ocean", Loc{1, 1}, "Ocean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newSim(t, smallIsland, 4)
			err := sim.AddPopulation([]Placement{
				{Loc: Loc{2, 2}, Animals: herd("Grazer", 10, 5, 20)},
				{Loc: tt.barren, Animals: herd("Predator", 2, 5, 20)},
			})
			var placeErr *PlacementError
			if !errors.As(err, &placeErr) {
				t.Fatalf("error = %v, want *PlacementError", err)
			}
			if placeErr.Index != 1 || placeErr.Loc != tt.barren {
				t.Errorf("error names placement %d at %v, want 1 at %v", placeErr.Index, placeErr.Loc, tt.barren)
			}
			if want := tt.terrain + " is not habitable"; placeErr.Reason != want {
				t.Errorf("reason = %q, want %q", placeErr.Reason, want)
			}
			if n := sim.NumAnimals(); n != 0 {
				t.Errorf("animals = %d, want 0 after a rejected batch", n)
			}
			if n := sim.grid.Herd().Len(); n != 0 {
				t.Errorf("herd holds %d organisms after a rejected batch", n)
			}
		})
	}
}

func TestNewFromConfigDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := NewFromConfig(cfg, 1, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if sim.NumAnimals() != 150 {
		t.Errorf("animals = %d, want 150", sim.NumAnimals())
	}
	if c := sim.Distribution()[9*21+9]; c.Row != 10 || c.Col != 10 || c.Grazers != 150 {
		t.Errorf("cell (10,10) = %+v", c)
	}
	if z := sim.Params().Species(components.Grazer).Zeta; z != 3.2 {
		t.Errorf("zeta = %g, want 3.2", z)
	}
}
