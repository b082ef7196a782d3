package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// AgeOneYear advances the organism's age by one year.
func AgeOneYear(o *components.Organism) {
	o.Age++
}

// LoseWeight applies the annual metabolic loss: weight -= eta*weight.
func LoseWeight(o *components.Organism, store *params.Store) {
	o.Weight -= store.Species(o.Species).Eta * o.Weight
}

// DeathProbability is omega*(1-fitness).
func DeathProbability(o *components.Organism, store *params.Store) float64 {
	return store.Species(o.Species).Omega * (1 - Fitness(o, store))
}

// JudgeSurvival takes one uniform draw; the organism survives when the draw
// exceeds its death probability and its weight is positive.
func JudgeSurvival(o *components.Organism, store *params.Store, rng *rand.Rand) bool {
	death := DeathProbability(o, store)
	return rng.Float64() > death && o.Weight > 0
}
