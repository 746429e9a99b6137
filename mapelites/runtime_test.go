package mapelites

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContents = `
[MapElites]
map_resolution = 8
feature_ranges = 0:10 0:10
initial_runs = 6
batch_size = 4

[DefaultGenome]
num_inputs = 2
num_outputs = 1
num_hidden = 0
feed_forward = true
compatibility_disjoint_coefficient = 1.0
compatibility_weight_coefficient = 0.5
conn_add_prob = 0.5
conn_delete_prob = 0.0
node_add_prob = 0.2
node_delete_prob = 0.0
single_structural_mutation = false
structural_mutation_surer = default
initial_connection = full

bias_init_mean = 0.0
bias_init_stdev = 1.0
bias_init_type = gaussian
bias_replace_rate = 0.1
bias_mutate_rate = 0.7
bias_mutate_power = 0.5
bias_max_value = 5
bias_min_value = -5

response_init_mean = 1.0
response_init_stdev = 0.0
response_init_type = gaussian
response_replace_rate = 0.0
response_mutate_rate = 0.0
response_mutate_power = 0.0
response_max_value = 5
response_min_value = -5

activation_default = sigmoid
activation_options = sigmoid tanh relu
activation_mutate_rate = 0.1

aggregation_default = sum
aggregation_options = sum product
aggregation_mutate_rate = 0.0

weight_init_mean = 0.0
weight_init_stdev = 1.0
weight_init_type = gaussian
weight_replace_rate = 0.1
weight_mutate_rate = 0.7
weight_mutate_power = 0.5
weight_max_value = 30
weight_min_value = -30

enabled_default = True
enabled_mutate_rate = 0.01
enabled_rate_to_true_add = 0.0
enabled_rate_to_false_add = 0.0
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContents), 0o600))
	return path
}

func countingFitnessFn(ind *Individual) (float64, []float64) {
	connCount := float64(ind.GenomeLen())
	nodeCount := float64(len(ind.Genome().Nodes))
	return connCount + nodeCount, []float64{connCount, nodeCount}
}

func TestInitializeSeedsAndEvaluatesPopulation(t *testing.T) {
	path := writeTestConfig(t)
	rt, err := NewRuntime(path, countingFitnessFn, 1, NopLogger{})
	require.NoError(t, err)

	stream, err := rt.Initialize(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stream.Elites().Len(), 1)
	top, err := stream.Elites().TopIndividual()
	require.NoError(t, err)
	assert.Greater(t, top.Fitness(), 0.0)
}

func TestNextProducesSnapshotReflectingBatch(t *testing.T) {
	path := writeTestConfig(t)
	rt, err := NewRuntime(path, countingFitnessFn, 2, NopLogger{})
	require.NoError(t, err)

	stream, err := rt.Initialize(context.Background())
	require.NoError(t, err)
	before := stream.Elites().Len()

	snapshot, err := stream.Next(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, snapshot.Len(), before)
}

func TestNextIsCancelable(t *testing.T) {
	path := writeTestConfig(t)
	rt, err := NewRuntime(path, countingFitnessFn, 3, NopLogger{})
	require.NoError(t, err)

	stream, err := rt.Initialize(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = stream.Next(ctx)
	assert.Error(t, err)
}

func TestRunForAdvancesMultipleGenerations(t *testing.T) {
	path := writeTestConfig(t)
	rt, err := NewRuntime(path, countingFitnessFn, 4, NopLogger{})
	require.NoError(t, err)

	stream, err := rt.Initialize(context.Background())
	require.NoError(t, err)

	snapshot, err := stream.RunFor(context.Background(), 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snapshot.Len(), 1)
}

func TestRunUntilStopsWhenPredicateHolds(t *testing.T) {
	path := writeTestConfig(t)
	rt, err := NewRuntime(path, countingFitnessFn, 5, NopLogger{})
	require.NoError(t, err)

	stream, err := rt.Initialize(context.Background())
	require.NoError(t, err)

	snapshot, err := stream.RunUntil(context.Background(), func(m *ElitesMap) bool {
		return m.Len() >= 1
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snapshot.Len(), 1)
}
