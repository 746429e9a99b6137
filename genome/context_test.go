package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUninitializedGenomeHasStableNodesNoConnections(t *testing.T) {
	cfg := testConfig()
	ctx, err := NewContext(cfg, 42)
	require.NoError(t, err)

	g := ctx.UninitializedGenome()

	assert.Len(t, g.Connections, 0)
	for _, key := range cfg.OutputKeys {
		_, ok := g.Nodes[key]
		assert.True(t, ok, "expected output node %d to exist", key)
	}
}

func TestInitWithContextWiresConnectionsPerScheme(t *testing.T) {
	cfg := testConfig()
	cfg.InitialConnection = "full"
	ctx, err := NewContext(cfg, 1)
	require.NoError(t, err)

	g := ctx.UninitializedGenome()
	g.InitWithContext(ctx)

	assert.Equal(t, len(cfg.InputKeys)*len(cfg.OutputKeys), len(g.Connections))
}

func TestUninitializedGenomeAssignsSequentialKeys(t *testing.T) {
	cfg := testConfig()
	ctx, err := NewContext(cfg, 7)
	require.NoError(t, err)

	g1 := ctx.UninitializedGenome()
	g2 := ctx.UninitializedGenome()

	assert.NotEqual(t, g1.Key, g2.Key)
}

func TestContextRngIsDeterministicGivenSeed(t *testing.T) {
	cfg := testConfig()
	ctx1, err := NewContext(cfg, 99)
	require.NoError(t, err)
	ctx2, err := NewContext(cfg, 99)
	require.NoError(t, err)

	a := ctx1.Rng().Float64()
	b := ctx2.Rng().Float64()
	assert.Equal(t, a, b)
}
