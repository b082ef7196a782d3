// Package components defines the data types shared by the simulation systems.
package components

import "strings"

// Species tags the two animal kinds living on the island.
type Species uint8

const (
	Grazer Species = iota
	Predator
)

// NumSpecies is the number of Species values.
const NumSpecies = 2

// AllSpecies lists species in the order every phase visits them.
var AllSpecies = [NumSpecies]Species{Grazer, Predator}

func (s Species) String() string {
	switch s {
	case Grazer:
		return "Grazer"
	case Predator:
		return "Predator"
	}
	return "Unknown"
}

// ParseSpecies resolves a species name. The older names
// Herbivore and Carnivore are accepted as aliases.
func ParseSpecies(name string) (Species, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grazer", "herbivore":
		return Grazer, true
	case "predator", "carnivore":
		return Predator, true
	}
	return 0, false
}

// ActionState gates feeding, breeding and migration within one year.
type ActionState uint8

const (
	Eligible ActionState = iota // may still act this year
	Settled                     // migrated this year, idle until year end
)

// Organism is one animal. It knows nothing about the grid.
type Organism struct {
	Species Species
	Age     int
	Weight  float64
	Phi     float64     // fitness cached by the last fitness evaluation
	State   ActionState // reset to Eligible at every year end
}

// NewOrganism creates an eligible organism.
func NewOrganism(species Species, age int, weight float64) *Organism {
	return &Organism{
		Species: species,
		Age:     age,
		Weight:  weight,
	}
}

// Eligible reports whether the organism may still act this year.
func (o *Organism) Eligible() bool {
	return o.State == Eligible
}
