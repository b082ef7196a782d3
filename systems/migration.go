package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// Migrate gives every eligible organism in cell (r, c) one chance to move,
// grazers first, and returns how many moved.
//
// An organism that stays, or whose destination is off the grid or not
// habitable, keeps its place and its state. A mover's entity is appended to
// the neighbour's roster and marked Settled, so the neighbour's own turn later
// in the scan leaves it alone. Every migration draw happens here, so the
// draw count depends on scan order.
func (g *Grid) Migrate(r, c int, store *params.Store, rng *rand.Rand) int {
	cell := g.At(r, c)
	moved := 0
	for _, s := range components.AllSpecies {
		pop := cell.Population(s)
		stay := pop[:0]
		for _, e := range pop {
			o := g.herd.Get(e)
			if !o.Eligible() {
				stay = append(stay, e)
				continue
			}
			dest := g.destination(r, c, DecideMovement(o, store, rng))
			if dest == nil {
				stay = append(stay, e)
				continue
			}
			o.State = components.Settled
			dest.addEntity(s, e)
			moved++
		}
		cell.setPopulation(s, stay)
	}
	return moved
}

// destination returns the habitable neighbour in direction d, or nil.
func (g *Grid) destination(r, c int, d components.Direction) *Cell {
	if d == components.Stay {
		return nil
	}
	dr, dc := d.Offset()
	nr, nc := r+dr, c+dc
	if !g.InBounds(nr, nc) {
		return nil
	}
	dest := g.At(nr, nc)
	if !dest.Habitable() {
		return nil
	}
	return dest
}
