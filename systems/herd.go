package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
)

// Herd stores every living organism of one island as an entity in an ark
// world. Cells keep ordered entity rosters; the organism data lives here.
//
// Pointers returned by Get are only valid until the next Spawn or Despawn.
type Herd struct {
	world  *ecs.World
	orgs   *ecs.Map1[components.Organism]
	filter *ecs.Filter1[components.Organism]
}

// NewHerd creates an empty herd.
func NewHerd() *Herd {
	world := ecs.NewWorld()
	return &Herd{
		world:  world,
		orgs:   ecs.NewMap1[components.Organism](world),
		filter: ecs.NewFilter1[components.Organism](world),
	}
}

// Spawn copies o into a new entity.
func (h *Herd) Spawn(o *components.Organism) ecs.Entity {
	return h.orgs.NewEntity(o)
}

// Get returns the organism of a living entity.
func (h *Herd) Get(e ecs.Entity) *components.Organism {
	return h.orgs.Get(e)
}

// Despawn removes the entity and its organism.
func (h *Herd) Despawn(e ecs.Entity) {
	h.world.RemoveEntity(e)
}

// Alive reports whether e is still in the herd.
func (h *Herd) Alive(e ecs.Entity) bool {
	return h.world.Alive(e)
}

// Each visits every organism in storage order. fn must not spawn or despawn.
func (h *Herd) Each(fn func(e ecs.Entity, o *components.Organism)) {
	query := h.filter.Query()
	for query.Next() {
		fn(query.Entity(), query.Get())
	}
}

// Len returns the number of living organisms.
func (h *Herd) Len() int {
	n := 0
	h.Each(func(ecs.Entity, *components.Organism) { n++ })
	return n
}
