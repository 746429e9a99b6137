package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInitializedGenome(t *testing.T, seed int64) (*Context, *Genome) {
	t.Helper()
	cfg := testConfig()
	ctx, err := NewContext(cfg, seed)
	require.NoError(t, err)
	g := ctx.UninitializedGenome()
	g.InitWithContext(ctx)
	return ctx, g
}

func TestGenomeLenCountsConnections(t *testing.T) {
	_, g := buildInitializedGenome(t, 1)
	assert.Equal(t, len(g.Connections), g.Len())
}

func TestGenomeCloneIsIndependent(t *testing.T) {
	_, g := buildInitializedGenome(t, 2)
	clone := g.Clone()

	for key, conn := range clone.Connections {
		conn.Weight = 999
		assert.NotEqual(t, 999.0, g.Connections[key].Weight)
	}
}

func TestMutateWithContextCanAddStructure(t *testing.T) {
	cfg := testConfig()
	cfg.NodeAddProb = 1.0
	cfg.ConnAddProb = 1.0
	ctx, err := NewContext(cfg, 3)
	require.NoError(t, err)

	g := ctx.UninitializedGenome()
	g.InitWithContext(ctx)
	initialConnCount := len(g.Connections)

	g.MutateWithContext(ctx)

	assert.GreaterOrEqual(t, len(g.Connections), initialConnCount)
}

func TestCrossInProducesChildWithReceiverNodes(t *testing.T) {
	ctx, fitter := buildInitializedGenome(t, 4)
	_, weaker := buildInitializedGenome(t, 5)

	child := fitter.CrossIn(weaker, ctx.Rng())

	assert.Equal(t, len(fitter.Nodes), len(child.Nodes))
}

func TestDistanceIsZeroForIdenticalGenome(t *testing.T) {
	_, g := buildInitializedGenome(t, 6)
	assert.Equal(t, 0.0, g.Distance(g.Clone()))
}

func TestCreatesCycleDetectsDirectAndIndirectCycles(t *testing.T) {
	cfg := testConfig()
	g := NewGenome(1, cfg)
	g.Connections[ConnectionKey{InNodeID: 0, OutNodeID: 1}] = &ConnectionGene{
		Key: ConnectionKey{InNodeID: 0, OutNodeID: 1}, Enabled: true,
	}

	assert.True(t, createsCycle(g, 5, 5))
	assert.True(t, createsCycle(g, 1, 0))
	assert.False(t, createsCycle(g, 0, 1))
}
