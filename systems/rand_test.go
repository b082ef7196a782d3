package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
)

// fixedSource returns the same word forever, which pins Float64 (and
// NormFloat64 for a zero word) to a constant.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

// countingSource wraps a source and counts the words drawn.
type countingSource struct {
	src   rand.Source
	draws int
}

func (s *countingSource) Uint64() uint64 {
	s.draws++
	return s.src.Uint64()
}

// lowRand makes every uniform draw 0 and every normal draw 0, so every
// probabilistic event with positive probability happens.
func lowRand() *rand.Rand {
	return rand.New(fixedSource(0))
}

// highRand makes every uniform draw the largest value below 1, so no event
// with probability below 1 happens.
func highRand() *rand.Rand {
	return rand.New(fixedSource(1<<53 - 1))
}

func newRand(src rand.Source) *rand.Rand {
	return rand.New(src)
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

const testIsland = `
OOOOO
OJJJO
OJSDO
OJMJO
OOOOO`

func grazers(n, age int, weight float64) []*components.Organism {
	out := make([]*components.Organism, n)
	for i := range out {
		out[i] = components.NewOrganism(components.Grazer, age, weight)
	}
	return out
}

func predators(n, age int, weight float64) []*components.Organism {
	out := make([]*components.Organism, n)
	for i := range out {
		out[i] = components.NewOrganism(components.Predator, age, weight)
	}
	return out
}
