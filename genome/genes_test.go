package genome

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *GenomeConfig {
	return &GenomeConfig{
		NumInputs:            2,
		NumOutputs:           1,
		NumHidden:            0,
		FeedForward:          true,
		ConnAddProb:          0.5,
		ConnDeleteProb:       0.0,
		NodeAddProb:          0.3,
		NodeDeleteProb:       0.0,
		InitialConnection:    "full",
		BiasInitMean:         0.0,
		BiasInitStdev:        1.0,
		BiasInitType:         "gaussian",
		BiasMinValue:         -5,
		BiasMaxValue:         5,
		ResponseInitMean:     1.0,
		ResponseInitStdev:    0.0,
		ResponseInitType:     "gaussian",
		ResponseMinValue:     -5,
		ResponseMaxValue:     5,
		ActivationDefault:    "sigmoid",
		ActivationOptions:    []string{"sigmoid", "tanh", "relu"},
		ActivationMutateRate: 0.1,
		AggregationDefault:   "sum",
		AggregationOptions:   []string{"sum", "product"},
		WeightInitMean:       0.0,
		WeightInitStdev:      1.0,
		WeightInitType:       "gaussian",
		WeightMinValue:       -30,
		WeightMaxValue:       30,
		WeightMutateRate:     0.8,
		WeightReplaceRate:    0.1,
		WeightMutatePower:    0.5,
		EnabledDefault:       "True",
		EnabledMutateRate:    0.01,
		InputKeys:            []int{-1, -2},
		OutputKeys:            []int{0},
		NodeKeyIndex:          1,
	}
}

func TestNewNodeGeneClampsToConfiguredRange(t *testing.T) {
	cfg := testConfig()
	cfg.BiasMinValue = -1
	cfg.BiasMaxValue = 1
	cfg.BiasInitMean = 100
	cfg.BiasInitStdev = 0

	rng := rand.New(rand.NewSource(1))
	node := NewNodeGene(0, cfg, rng)

	assert.LessOrEqual(t, node.Bias, cfg.BiasMaxValue)
	assert.GreaterOrEqual(t, node.Bias, cfg.BiasMinValue)
}

func TestInitStringAttributePicksFromOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	options := []string{"sigmoid", "tanh", "relu"}
	value := initStringAttribute("random", options, rng)
	assert.Contains(t, options, value)
}

func TestMutateFloatAttributeStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	value := 0.0
	for i := 0; i < 1000; i++ {
		value = mutateFloatAttribute(value, 0.9, 0.1, 10.0, 0.0, 1.0, "gaussian", -2, 2, rng)
		require.GreaterOrEqual(t, value, -2.0)
		require.LessOrEqual(t, value, 2.0)
	}
}

func TestConnectionGeneCrossoverPicksFromEitherParent(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	key := ConnectionKey{InNodeID: -1, OutNodeID: 0}
	a := &ConnectionGene{Key: key, Weight: 1.0, Enabled: true}
	b := &ConnectionGene{Key: key, Weight: -1.0, Enabled: false}

	child := a.Crossover(b, rng)
	assert.True(t, child.Weight == 1.0 || child.Weight == -1.0)
	assert.True(t, child.Enabled == true || child.Enabled == false)
}
