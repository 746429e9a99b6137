// Package genome provides the neuro-evolution substrate consumed by the
// mapelites archive: node and connection genes with stable ids, structural
// and attribute mutation, and crossover.
//
// A Context owns the configuration, RNG, and genome-key counter for a run.
// Genomes are produced uninitialized (stable ids, no connections) and then
// completed with InitWithContext:
//
//	ctx, err := genome.NewContext(cfg, seed)
//	g := ctx.UninitializedGenome()
//	g.InitWithContext(ctx)
//	g.MutateWithContext(ctx)
//
// Every stochastic operation takes its randomness from the context's RNG
// rather than the global math/rand source. Operations that visit a genome's
// node or connection maps draw from it in Go's unspecified map order, so a
// run is not reproducible from the config and seed alone.
package genome
