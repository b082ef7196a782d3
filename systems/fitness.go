// Package systems implements the behavioural rules of organisms and the
// phase rules of habitat cells.
//
// Every function that draws random numbers takes the simulation's *rand.Rand.
// The number and order of draws per call are part of each function's
// contract, because reproducibility depends on the total draw order.
package systems

import (
	"cmp"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// Fitness computes the organism's fitness in [0,1] and caches it in o.Phi.
// It is zero whenever the weight is not positive.
func Fitness(o *components.Organism, store *params.Store) float64 {
	o.Phi = fitness(o, store.Species(o.Species))
	return o.Phi
}

func fitness(o *components.Organism, p params.SpeciesParams) float64 {
	if o.Weight <= 0 {
		return 0
	}
	ageTerm := 1 / (1 + math.Exp(p.PhiAge*(float64(o.Age)-p.AHalf)))
	weightTerm := 1 / (1 + math.Exp(-p.PhiWeight*(o.Weight-p.WHalf)))
	return ageTerm * weightTerm
}

// sortByFitness refreshes every cached fitness and stable-sorts pop with the
// fittest first. Ties keep insertion order.
func sortByFitness(pop []ecs.Entity, herd *Herd, store *params.Store) {
	for _, e := range pop {
		Fitness(herd.Get(e), store)
	}
	slices.SortStableFunc(pop, func(a, b ecs.Entity) int {
		return cmp.Compare(herd.Get(b).Phi, herd.Get(a).Phi)
	})
}
