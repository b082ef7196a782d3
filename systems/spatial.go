package systems

import (
	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// Grid is the rectangular island. Coordinates are 0-based (row, col).
// Terrain is fixed at construction; occupancy changes every year.
type Grid struct {
	rows, cols int
	cells      []*Cell // row-major
	herd       *Herd
}

// NewGrid builds a grid from a validated layout.
func NewGrid(layout [][]components.Terrain, store *params.Store) (*Grid, error) {
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	g := &Grid{
		rows:  len(layout),
		cols:  len(layout[0]),
		cells: make([]*Cell, 0, len(layout)*len(layout[0])),
		herd:  NewHerd(),
	}
	for _, row := range layout {
		for _, t := range row {
			g.cells = append(g.cells, NewCell(t, store, g.herd))
		}
	}
	return g, nil
}

// NewGridFromMap parses map text and builds the grid.
func NewGridFromMap(text string, store *params.Store) (*Grid, error) {
	layout, err := ParseMap(text)
	if err != nil {
		return nil, err
	}
	return NewGrid(layout, store)
}

// Herd returns the store shared by all cells of the grid.
func (g *Grid) Herd() *Herd { return g.herd }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (r, c) lies on the grid.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// At returns the cell at (r, c). It panics when out of bounds.
func (g *Grid) At(r, c int) *Cell {
	if !g.InBounds(r, c) {
		panic("systems: grid index out of range")
	}
	return g.cells[r*g.cols+c]
}

// Each visits every cell in row-major order.
func (g *Grid) Each(fn func(r, c int, cell *Cell)) {
	for i, cell := range g.cells {
		fn(i/g.cols, i%g.cols, cell)
	}
}

// Count returns the number of organisms of one species on the grid.
func (g *Grid) Count(s components.Species) int {
	n := 0
	for _, cell := range g.cells {
		n += cell.Count(s)
	}
	return n
}

// Layout returns a copy of the terrain layout.
func (g *Grid) Layout() [][]components.Terrain {
	out := make([][]components.Terrain, g.rows)
	for r := range out {
		out[r] = make([]components.Terrain, g.cols)
		for c := range out[r] {
			out[r][c] = g.At(r, c).Terrain
		}
	}
	return out
}
