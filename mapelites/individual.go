package mapelites

import (
	"math"
	"math/rand"

	"github.com/baldhumanity/mapelites-go/genome"
)

// Individual bundles a genome with its evaluated fitness and behavior
// descriptor. It is un-evaluated (empty behavior, zero fitness) until a
// fitness function writes into it.
type Individual struct {
	g        *genome.Genome
	fitness  float64
	behavior []float64
}

// FromGenome wraps g as an un-evaluated individual.
func FromGenome(g *genome.Genome) *Individual {
	return &Individual{g: g}
}

// Fitness returns the scalar fitness, 0.0 before evaluation.
func (ind *Individual) Fitness() float64 {
	return ind.fitness
}

// Behavior returns the behavior descriptor, empty before evaluation.
func (ind *Individual) Behavior() []float64 {
	return ind.behavior
}

// SetEvaluation records the result of a fitness function call. Called exactly
// once per individual, by the driver, before archive insertion.
func (ind *Individual) SetEvaluation(fitness float64, behavior []float64) {
	ind.fitness = fitness
	ind.behavior = behavior
}

// Genome exposes read access to the underlying genome for clients (network
// fabrication, inspection).
func (ind *Individual) Genome() *genome.Genome {
	return ind.g
}

// GenomeLen returns the number of connection genes, used as the complexity
// measure in the fitter-than tie-break.
func (ind *Individual) GenomeLen() int {
	return ind.g.Len()
}

// fitterEpsilon is the tolerance below which two fitness values are treated
// as tied for the purpose of the parsimony tie-break. Placement into the
// archive never consults this tie-break; see ElitesMap.PlaceIndividual.
const fitterEpsilon = 2.220446049250313e-16

// IsFitterThan implements the fitter-than relation: higher fitness wins, and
// near-equal fitness is broken in favor of the smaller (simpler) genome.
func (ind *Individual) IsFitterThan(other *Individual) bool {
	if ind.fitness > other.fitness {
		return true
	}
	if math.Abs(ind.fitness-other.fitness) < fitterEpsilon {
		return ind.GenomeLen() < other.GenomeLen()
	}
	return false
}

// Crossover produces a child individual whose genome is the fitter parent's
// CrossIn of the weaker one. The child is un-evaluated. Not used by the core
// generation loop; exposed for clients that want recombination.
func (ind *Individual) Crossover(other *Individual, rng *rand.Rand) *Individual {
	fitter, weaker := ind, other
	if other.IsFitterThan(ind) {
		fitter, weaker = other, ind
	}
	childGenome := fitter.g.CrossIn(weaker.g, rng)
	return FromGenome(childGenome)
}

// Clone returns a deep copy of the individual, including its genome.
func (ind *Individual) Clone() *Individual {
	behavior := make([]float64, len(ind.behavior))
	copy(behavior, ind.behavior)
	return &Individual{
		g:        ind.g.Clone(),
		fitness:  ind.fitness,
		behavior: behavior,
	}
}
