package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
)

// Loc is a 1-based (row, col) position on the island.
type Loc struct {
	Row, Col int
}

// Animal describes one organism to place.
type Animal struct {
	Species string
	Age     int
	Weight  float64
}

// Placement puts a list of animals on one cell.
type Placement struct {
	Loc     Loc
	Animals []Animal
}

// PlacementError reports an invalid entry in a population batch.
// Index is the position of the placement in the batch; Animal is the
// position within it, or -1 when the location itself is invalid.
type PlacementError struct {
	Index  int
	Animal int
	Loc    Loc
	Reason string
}

func (e *PlacementError) Error() string {
	if e.Animal < 0 {
		return fmt.Sprintf("placement %d at (%d,%d): %s", e.Index, e.Loc.Row, e.Loc.Col, e.Reason)
	}
	return fmt.Sprintf("placement %d at (%d,%d), animal %d: %s", e.Index, e.Loc.Row, e.Loc.Col, e.Animal, e.Reason)
}

// AddPopulation validates the whole batch, then adds every animal to its
// cell in batch order as an eligible organism. Nothing is added when any
// entry is invalid.
func (s *Simulation) AddPopulation(batch []Placement) error {
	type resolved struct {
		r, c    int
		species components.Species
		a       Animal
	}
	var adds []resolved

	for i, p := range batch {
		r, c := p.Loc.Row-1, p.Loc.Col-1
		if !s.grid.InBounds(r, c) {
			return &PlacementError{Index: i, Animal: -1, Loc: p.Loc,
				Reason: fmt.Sprintf("outside the %dx%d island", s.grid.Rows(), s.grid.Cols())}
		}
		cell := s.grid.At(r, c)
		if !cell.Habitable() {
			return &PlacementError{Index: i, Animal: -1, Loc: p.Loc,
				Reason: fmt.Sprintf("%v is not habitable", cell.Terrain)}
		}
		for j, a := range p.Animals {
			sp, ok := components.ParseSpecies(a.Species)
			if !ok {
				return &PlacementError{Index: i, Animal: j, Loc: p.Loc,
					Reason: fmt.Sprintf("unknown species %q", a.Species)}
			}
			if a.Age < 0 {
				return &PlacementError{Index: i, Animal: j, Loc: p.Loc,
					Reason: fmt.Sprintf("age %d is negative", a.Age)}
			}
			if !(a.Weight > 0) || math.IsInf(a.Weight, 0) {
				return &PlacementError{Index: i, Animal: j, Loc: p.Loc,
					Reason: fmt.Sprintf("weight %g must be positive and finite", a.Weight)}
			}
			adds = append(adds, resolved{r: r, c: c, species: sp, a: a})
		}
	}

	for _, add := range adds {
		s.grid.At(add.r, add.c).Add(components.NewOrganism(add.species, add.a.Age, add.a.Weight))
	}
	return nil
}

// PlacementsFromConfig expands configured placements into one Animal per
// counted organism.
func PlacementsFromConfig(entries []config.PlacementConfig) []Placement {
	out := make([]Placement, 0, len(entries))
	for _, e := range entries {
		animals := make([]Animal, e.Count)
		for i := range animals {
			animals[i] = Animal{Species: e.Species, Age: e.Age, Weight: e.Weight}
		}
		out = append(out, Placement{Loc: Loc{Row: e.Row, Col: e.Col}, Animals: animals})
	}
	return out
}
