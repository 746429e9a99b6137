package mapelites

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/baldhumanity/mapelites-go/genome"
)

// FitnessFunc evaluates an individual, returning its scalar fitness and
// behavior descriptor. It must be safe to call concurrently from multiple
// workers and must not abort the driver: any recoverable failure should be
// represented as a low fitness rather than a panic.
type FitnessFunc func(*Individual) (fitness float64, behavior []float64)

// Runtime holds everything needed to seed and drive a MAP-Elites search:
// the loaded parameters, the genome context, and the user's fitness function.
type Runtime struct {
	params    *Parameters
	genomeCtx *genome.Context
	fitnessFn FitnessFunc
	logger    Logger
}

// NewRuntime loads parameters from configPath and builds a Runtime ready to
// be Initialized. seed drives both the genome context's RNG and the
// driver's own selection/mutation draws.
func NewRuntime(configPath string, fitnessFn FitnessFunc, seed int64, logger Logger) (*Runtime, error) {
	params, err := NewParameters(configPath)
	if err != nil {
		return nil, err
	}

	genomeCtx, err := genome.NewContext(params.Genome, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build genome context: %v", ErrConfiguration, err)
	}

	if logger == nil {
		logger = NewStdLogger()
	}

	return &Runtime{
		params:    params,
		genomeCtx: genomeCtx,
		fitnessFn: fitnessFn,
		logger:    logger,
	}, nil
}

// Parameters returns the loaded configuration.
func (r *Runtime) Parameters() *Parameters {
	return r.params
}

// evaluateBatch evaluates individuals in parallel, bounded by GOMAXPROCS,
// using an errgroup as a fan-out/barrier: the call blocks until every
// individual in the batch has been evaluated or the context is canceled.
func evaluateBatch(ctx context.Context, individuals []*Individual, fn FitnessFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, ind := range individuals {
		ind := ind
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fitness, behavior := fn(ind)
			ind.SetEvaluation(fitness, behavior)
			return nil
		})
	}

	return g.Wait()
}

// Initialize seeds an initial population, evaluates it in parallel, inserts
// it into a fresh archive, and returns a GenerationStream ready to produce
// further generations.
func (r *Runtime) Initialize(ctx context.Context) (*GenerationStream, error) {
	r.logger.Printf("starting runtime initialization with %d seed individuals", r.params.InitialRuns)

	template := r.genomeCtx.UninitializedGenome()

	seeds := make([]*Individual, r.params.InitialRuns)
	for i := 0; i < r.params.InitialRuns; i++ {
		g := template.Clone()
		g.InitWithContext(r.genomeCtx)
		g.MutateWithContext(r.genomeCtx)
		seeds[i] = FromGenome(g)
	}

	r.logger.Printf("evaluating %d individuals in parallel", len(seeds))
	if err := evaluateBatch(ctx, seeds, r.fitnessFn); err != nil {
		return nil, fmt.Errorf("initialization evaluation failed: %w", err)
	}

	elites := NewElitesMap(r.params.MapResolution, r.params.FeatureRanges, r.logger)
	for _, ind := range seeds {
		if err := elites.PlaceIndividual(ind); err != nil {
			return nil, fmt.Errorf("failed to place seed individual: %w", err)
		}
	}

	return &GenerationStream{
		runtime: r,
		elites:  elites,
	}, nil
}

// GenerationStream is an infinite, lazily-advanced sequence of archive
// snapshots. The consumer terminates it externally by no longer calling Next
// or by canceling the context passed to it.
type GenerationStream struct {
	runtime *Runtime
	elites  *ElitesMap
}

// Next samples, mutates, and evaluates one batch, inserts the results into
// the live archive, and returns a clone of the updated archive. Generation
// g+1 never starts before generation g has been yielded.
func (s *GenerationStream) Next(ctx context.Context) (*ElitesMap, error) {
	r := s.runtime
	batchSize := r.params.BatchSize

	r.logger.Printf("selecting next individual batch (size %d)", batchSize)
	batch := make([]*Individual, batchSize)
	for i := 0; i < batchSize; i++ {
		ind, err := s.elites.GetRandomIndividual(r.genomeCtx.Rng())
		if err != nil {
			return nil, err
		}
		ind.Genome().MutateWithContext(r.genomeCtx)
		batch[i] = ind
	}

	r.logger.Printf("evaluating %d individuals in parallel", len(batch))
	if err := evaluateBatch(ctx, batch, r.fitnessFn); err != nil {
		return nil, fmt.Errorf("generation evaluation failed: %w", err)
	}

	r.logger.Printf("placing evaluated individual batch")
	for _, ind := range batch {
		if err := s.elites.PlaceIndividual(ind); err != nil {
			return nil, err
		}
	}

	r.logger.Printf("finished batch")
	return s.elites.Clone(), nil
}

// RunUntil advances the stream until predicate returns true for the latest
// snapshot, or ctx is canceled. It returns the first snapshot for which
// predicate holds.
func (s *GenerationStream) RunUntil(ctx context.Context, predicate func(*ElitesMap) bool) (*ElitesMap, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		snapshot, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if predicate(snapshot) {
			return snapshot, nil
		}
	}
}

// RunFor advances the stream for a fixed number of generations and returns
// the final snapshot, a convenience wrapper around Next for callers that
// don't need per-generation access.
func (s *GenerationStream) RunFor(ctx context.Context, generations int) (*ElitesMap, error) {
	var snapshot *ElitesMap
	for i := 0; i < generations; i++ {
		var err error
		snapshot, err = s.Next(ctx)
		if err != nil {
			return nil, err
		}
	}
	return snapshot, nil
}

// Elites returns the current live archive without advancing the stream.
// The returned pointer is owned by the driver and will keep mutating; callers
// that need a stable view should take ElitesMap.Clone().
func (s *GenerationStream) Elites() *ElitesMap {
	return s.elites
}
