package game

import (
	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// CellSnapshot is the head count of one cell. Row and Col are 1-based.
type CellSnapshot struct {
	Row, Col  int
	Terrain   components.Terrain
	Grazers   int
	Predators int
}

// Distribution returns the head count of every cell in row-major order.
// It does not draw random numbers or change any state.
func (s *Simulation) Distribution() []CellSnapshot {
	out := make([]CellSnapshot, 0, s.grid.Rows()*s.grid.Cols())
	s.grid.Each(func(r, c int, cell *systems.Cell) {
		out = append(out, CellSnapshot{
			Row:       r + 1,
			Col:       c + 1,
			Terrain:   cell.Terrain,
			Grazers:   cell.Count(components.Grazer),
			Predators: cell.Count(components.Predator),
		})
	})
	return out
}

// NumAnimals returns the number of living organisms on the island.
func (s *Simulation) NumAnimals() int {
	n := 0
	for _, sp := range components.AllSpecies {
		n += s.grid.Count(sp)
	}
	return n
}

// NumAnimalsPerSpecies returns the number of living organisms per species.
func (s *Simulation) NumAnimalsPerSpecies() map[components.Species]int {
	out := make(map[components.Species]int, components.NumSpecies)
	for _, sp := range components.AllSpecies {
		out[sp] = s.grid.Count(sp)
	}
	return out
}

// Layout returns a copy of the island's terrain.
func (s *Simulation) Layout() [][]components.Terrain {
	return s.grid.Layout()
}
