package genome

import "math/rand"

// Context bundles the configuration, RNG, and genome-key counter shared by
// every genome produced for a single run. It is the opaque capability
// surface through which callers seed, initialize, and mutate genomes without
// reaching into genome internals.
type Context struct {
	config        *GenomeConfig
	rng           *rand.Rand
	nextGenomeKey int
}

// NewContext builds a genome context from a loaded GenomeConfig and a seed.
// The RNG is explicit and owned by the context; nothing in this package ever
// calls the global math/rand functions. Mutation and crossover draw from it
// while ranging over the genome's node and connection maps, whose iteration
// order Go does not fix, so the same config and seed do not by themselves
// reproduce the same genomes.
func NewContext(config *GenomeConfig, seed int64) (*Context, error) {
	return &Context{
		config:        config,
		rng:           rand.New(rand.NewSource(seed)),
		nextGenomeKey: 1,
	}, nil
}

// Rng returns the context's mutable random source.
func (c *Context) Rng() *rand.Rand {
	return c.rng
}

// Config returns the genome configuration the context was built from.
func (c *Context) Config() *GenomeConfig {
	return c.config
}

// nextKey returns the next available genome key and advances the counter.
func (c *Context) nextKey() int {
	key := c.nextGenomeKey
	c.nextGenomeKey++
	return key
}

// UninitializedGenome returns a fresh genome template: stable input and
// output node ids (and hidden nodes, if configured), but no connections.
// Callers complete it with (*Genome).InitWithContext before use.
func (c *Context) UninitializedGenome() *Genome {
	g := NewGenome(c.nextKey(), c.config)
	g.configureNodes(c.rng)
	return g
}
