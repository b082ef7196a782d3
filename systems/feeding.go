package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// GainWeight converts eaten food into body weight (weight += beta*amount).
func GainWeight(o *components.Organism, store *params.Store, amount float64) {
	o.Weight += store.Species(o.Species).Beta * amount
}

// Graze lets a grazer eat up to its appetite F from available food and
// returns what is left. When less than F is available it eats everything.
func Graze(o *components.Organism, store *params.Store, available float64) float64 {
	appetite := store.Species(o.Species).F
	if available >= appetite {
		GainWeight(o, store, appetite)
		return available - appetite
	}
	if available > 0 {
		GainWeight(o, store, available)
	}
	return 0
}

// killProbability is 0 when the predator is not fitter than its prey, rises
// linearly with the fitness gap, and saturates at 1 once the gap reaches
// deltaPhiMax.
func killProbability(phi, preyPhi, deltaPhiMax float64) float64 {
	gap := phi - preyPhi
	switch {
	case gap <= 0:
		return 0
	case gap < deltaPhiMax:
		return gap / deltaPhiMax
	default:
		return 1
	}
}

// AttemptKill decides whether a predator kills prey of the given fitness.
// It uses the predator's cached fitness (o.Phi) and always takes exactly one
// uniform draw, even when the kill probability is zero.
func AttemptKill(o *components.Organism, store *params.Store, preyPhi float64, rng *rand.Rand) bool {
	p := killProbability(o.Phi, preyPhi, store.Species(o.Species).DeltaPhiMax)
	return rng.Float64() < p
}

// FeedOn eats min(available, desired) and returns the appetite still unmet.
func FeedOn(o *components.Organism, store *params.Store, available, desired float64) float64 {
	if available >= desired {
		GainWeight(o, store, desired)
		return 0
	}
	GainWeight(o, store, available)
	return desired - available
}
