package mapelites

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalIndividualTextRoundTripsAsJSON(t *testing.T) {
	ind := newTestIndividual(t, 1, 2.5, []float64{1, 2})

	data, err := MarshalIndividualText(ind)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2.5, decoded["fitness"])
}

func TestMarshalElitesMapTextIncludesEveryIndividual(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	require.NoError(t, m.PlaceIndividual(newTestIndividual(t, 1, 1.0, []float64{1, 1})))
	require.NoError(t, m.PlaceIndividual(newTestIndividual(t, 2, 2.0, []float64{8, 8})))

	data, err := MarshalElitesMapText(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	individuals, ok := decoded["individuals"].([]any)
	require.True(t, ok)
	assert.Len(t, individuals, 2)
}

func TestMarshalParametersTextIncludesCoreFields(t *testing.T) {
	path := writeTestConfig(t)
	params, err := NewParameters(path)
	require.NoError(t, err)

	data, err := MarshalParametersText(params)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(params.MapResolution), decoded["map_resolution"])
}
