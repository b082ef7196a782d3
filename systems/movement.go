package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// DecideMovement draws whether the organism wants to move and, if so, where.
//
// One uniform draw decides move (draw < mu*fitness) or stay. A move takes a
// second uniform draw split into four equal buckets: North, East, South, West.
// Habitability of the destination is not checked here.
func DecideMovement(o *components.Organism, store *params.Store, rng *rand.Rand) components.Direction {
	p := store.Species(o.Species)
	if rng.Float64() >= p.Mu*Fitness(o, store) {
		return components.Stay
	}
	bucket := int(rng.Float64() * 4)
	if bucket > 3 {
		bucket = 3
	}
	return components.Compass[bucket]
}
