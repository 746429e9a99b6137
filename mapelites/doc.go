// Package mapelites implements the MAP-Elites quality-diversity archive and
// its evolutionary driver over genomes from package genome.
//
// Basic usage:
//
//	rt, err := mapelites.NewRuntime("config", evalFn, seed, nil)
//	if err != nil {
//		log.Fatalf("failed to build runtime: %v", err)
//	}
//
//	stream, err := rt.Initialize(ctx)
//	if err != nil {
//		log.Fatalf("failed to initialize: %v", err)
//	}
//
//	for {
//		snapshot, err := stream.Next(ctx)
//		if err != nil {
//			log.Fatalf("generation failed: %v", err)
//		}
//		top, _ := snapshot.TopIndividual()
//		if top.Fitness() >= threshold {
//			break
//		}
//	}
package mapelites
