package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/params"
)

// CanReproduce reports whether the organism is heavy enough to give birth:
// weight >= zeta*(w_birth+sigma_birth).
func CanReproduce(o *components.Organism, store *params.Store) bool {
	p := store.Species(o.Species)
	return o.Weight >= p.Zeta*(p.WBirth+p.SigmaBirth)
}

// BirthProbability is min(1, gamma*fitness*(n-1)), where n is the number of
// same-species organisms in the cell including the parent.
func BirthProbability(o *components.Organism, store *params.Store, n int) float64 {
	p := store.Species(o.Species)
	return math.Min(1, p.Gamma*Fitness(o, store)*float64(n-1))
}

// AttemptReproduction tries to produce one offspring.
//
// Draws: none when the parent is too light; otherwise one uniform draw for
// the birth event and, on success, one normal draw N(w_birth, sigma_birth)
// for the offspring weight. The birth is discarded when the drawn weight is
// not positive or when paying xi*weight would leave the parent at or below
// zero. A valid birth costs the parent xi*weight and returns an age-0
// offspring of the same species; otherwise nil.
func AttemptReproduction(o *components.Organism, store *params.Store, n int, rng *rand.Rand) *components.Organism {
	if !CanReproduce(o, store) {
		return nil
	}
	if rng.Float64() >= BirthProbability(o, store, n) {
		return nil
	}

	p := store.Species(o.Species)
	birth := distuv.Normal{Mu: p.WBirth, Sigma: p.SigmaBirth, Src: rng}
	w := birth.Rand()
	if w <= 0 {
		return nil
	}
	cost := p.Xi * w
	if o.Weight-cost <= 0 {
		return nil
	}
	o.Weight -= cost
	return components.NewOrganism(o.Species, 0, w)
}
