package systems

import (
	"math/rand/v2"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// Cell is one habitat tile with its two populations and its food budget.
// Rosters hold herd entities in the order the phases visit them.
type Cell struct {
	Terrain   components.Terrain
	Food      float64
	Grazers   []ecs.Entity
	Predators []ecs.Entity

	herd *Herd
}

// NewCell creates an empty cell whose organisms live in herd. Vegetated
// terrains start at full food.
func NewCell(t components.Terrain, store *params.Store, herd *Herd) *Cell {
	c := &Cell{Terrain: t, herd: herd}
	if terrainRules[t].vegetated {
		c.Food = store.Landscape(t).FMax
	}
	return c
}

// Habitable reports whether animals may live here.
func (c *Cell) Habitable() bool {
	return c.Terrain.Habitable()
}

// Population returns the roster of one species.
func (c *Cell) Population(s components.Species) []ecs.Entity {
	if s == components.Predator {
		return c.Predators
	}
	return c.Grazers
}

func (c *Cell) setPopulation(s components.Species, pop []ecs.Entity) {
	if s == components.Predator {
		c.Predators = pop
	} else {
		c.Grazers = pop
	}
}

// Add spawns o into the herd and appends it to the roster of its species.
func (c *Cell) Add(o *components.Organism) ecs.Entity {
	e := c.herd.Spawn(o)
	c.addEntity(o.Species, e)
	return e
}

func (c *Cell) addEntity(s components.Species, e ecs.Entity) {
	c.setPopulation(s, append(c.Population(s), e))
}

// Organism returns the organism behind a roster entry.
func (c *Cell) Organism(e ecs.Entity) *components.Organism {
	return c.herd.Get(e)
}

// Members resolves the roster of one species, in roster order. The pointers
// go stale at the next spawn or despawn.
func (c *Cell) Members(s components.Species) []*components.Organism {
	pop := c.Population(s)
	out := make([]*components.Organism, len(pop))
	for i, e := range pop {
		out[i] = c.herd.Get(e)
	}
	return out
}

// Count returns the number of organisms of one species.
func (c *Cell) Count(s components.Species) int {
	return len(c.Population(s))
}

// RegenerateFood applies the terrain's yearly regrowth rule.
func (c *Cell) RegenerateFood(store *params.Store) {
	if regrow := terrainRules[c.Terrain].regrow; regrow != nil {
		regrow(c, store.Landscape(c.Terrain))
	}
}

// FeedGrazers lets eligible grazers eat from the shared food pool, fittest
// first. The pool only shrinks during the pass.
func (c *Cell) FeedGrazers(store *params.Store) {
	if len(c.Grazers) == 0 {
		return
	}
	sortByFitness(c.Grazers, c.herd, store)
	for _, e := range c.Grazers {
		g := c.herd.Get(e)
		if !g.Eligible() {
			continue
		}
		c.Food = Graze(g, store, c.Food)
	}
}

// FeedPredators runs the hunt and returns the number of grazers killed.
//
// Predators hunt fittest first. Each eligible predator walks the remaining
// grazers weakest first, one kill attempt per grazer, until its appetite F
// is met or the list ends. Its fitness is refreshed after every meal.
// Killed grazers are despawned after the hunt; grazers that escaped or were
// never tried carry over to the next predator in the same order.
func (c *Cell) FeedPredators(store *params.Store, rng *rand.Rand) int {
	if len(c.Grazers) == 0 || len(c.Predators) == 0 {
		return 0
	}
	sortByFitness(c.Grazers, c.herd, store)
	sortByFitness(c.Predators, c.herd, store)

	// Weakest first.
	prey := slices.Clone(c.Grazers)
	slices.Reverse(prey)

	var killed []ecs.Entity
	for _, pe := range c.Predators {
		pred := c.herd.Get(pe)
		if !pred.Eligible() {
			continue
		}
		if len(prey) == 0 {
			break
		}
		appetite := store.Species(pred.Species).F
		left := prey[:0]
		for i, ge := range prey {
			if appetite <= 0 {
				left = append(left, prey[i:]...)
				break
			}
			g := c.herd.Get(ge)
			if AttemptKill(pred, store, g.Phi, rng) {
				appetite = FeedOn(pred, store, g.Weight, appetite)
				Fitness(pred, store)
				killed = append(killed, ge)
				continue
			}
			left = append(left, ge)
		}
		prey = left
	}

	for _, e := range killed {
		c.herd.Despawn(e)
	}

	// Back to fittest first.
	slices.Reverse(prey)
	c.Grazers = prey
	return len(killed)
}

// Reproduce lets every eligible organism attempt one birth against the
// head count of its species taken before the pass. Newborns are spawned only
// after the scan, so they cannot breed in the same pass. It returns the
// number of births per species.
func (c *Cell) Reproduce(store *params.Store, rng *rand.Rand) [components.NumSpecies]int {
	var births [components.NumSpecies]int
	var newborns []*components.Organism

	for _, s := range components.AllSpecies {
		pop := c.Population(s)
		n := len(pop)
		for _, e := range pop {
			o := c.herd.Get(e)
			if !o.Eligible() {
				continue
			}
			if baby := AttemptReproduction(o, store, n, rng); baby != nil {
				newborns = append(newborns, baby)
			}
		}
	}
	for _, baby := range newborns {
		c.Add(baby)
		births[baby.Species]++
	}
	return births
}

// SettleYearEnd closes the year for every organism: it becomes eligible
// again, ages, loses weight, and is judged. Organisms that fail the survival
// draw, have no weight left, or end with zero fitness are despawned. It
// returns the number of deaths per species.
func (c *Cell) SettleYearEnd(store *params.Store, rng *rand.Rand) [components.NumSpecies]int {
	var deaths [components.NumSpecies]int
	for _, s := range components.AllSpecies {
		for _, e := range c.Population(s) {
			o := c.herd.Get(e)
			o.State = components.Eligible
			AgeOneYear(o)
			LoseWeight(o, store)
		}
	}

	var dead []ecs.Entity
	for _, s := range components.AllSpecies {
		pop := c.Population(s)
		alive := pop[:0]
		for _, e := range pop {
			o := c.herd.Get(e)
			if JudgeSurvival(o, store, rng) && o.Phi != 0 {
				alive = append(alive, e)
			} else {
				dead = append(dead, e)
			}
		}
		deaths[s] = len(pop) - len(alive)
		c.setPopulation(s, alive)
	}
	for _, e := range dead {
		c.herd.Despawn(e)
	}
	return deaths
}
