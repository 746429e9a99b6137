package mapelites

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangesXY() []FeatureRange {
	return []FeatureRange{{Min: 0, Max: 10}, {Min: 0, Max: 10}}
}

func TestPlaceIndividualStoresFirstOccupant(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2, 2})

	require.NoError(t, m.PlaceIndividual(a))
	assert.Equal(t, 1, m.Len())
}

func TestPlaceIndividualReplacesOnStrictlyGreaterFitness(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2, 2})
	b := newTestIndividual(t, 2, 2.0, []float64{2, 2})

	require.NoError(t, m.PlaceIndividual(a))
	require.NoError(t, m.PlaceIndividual(b))

	top, err := m.TopIndividual()
	require.NoError(t, err)
	assert.Equal(t, 2.0, top.Fitness())
	assert.Equal(t, 1, m.Len())
}

func TestPlaceIndividualDoesNotReplaceOnTie(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2, 2})
	b := newTestIndividual(t, 2, 1.0, []float64{2, 2})

	require.NoError(t, m.PlaceIndividual(a))
	require.NoError(t, m.PlaceIndividual(b))

	top, err := m.TopIndividual()
	require.NoError(t, err)
	assert.Same(t, a, top)
}

func TestPlaceIndividualWrongBehaviorLengthIsProgrammingError(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2})

	err := m.PlaceIndividual(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProgramming))
}

func TestPlaceIndividualClampsOutOfRangeBehaviorAndWarns(t *testing.T) {
	logger := &RecordingLogger{}
	m := NewElitesMap(5, rangesXY(), logger)
	a := newTestIndividual(t, 1, 1.0, []float64{100, -5})

	require.NoError(t, m.PlaceIndividual(a))
	assert.Len(t, logger.Warnings, 2)
}

func TestBehaviorExactlyAtMaxIsTreatedAsOutOfRange(t *testing.T) {
	logger := &RecordingLogger{}
	m := NewElitesMap(5, rangesXY(), logger)
	a := newTestIndividual(t, 1, 1.0, []float64{10, 5})

	require.NoError(t, m.PlaceIndividual(a))
	assert.Len(t, logger.Warnings, 1)
}

func TestTopIndividualOnEmptyMapIsEmptyArchiveError(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	_, err := m.TopIndividual()
	assert.True(t, errors.Is(err, ErrEmptyArchive))
}

func TestGetRandomIndividualOnEmptyMapIsEmptyArchiveError(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	_, err := m.GetRandomIndividual(rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, ErrEmptyArchive))
}

func TestGetRandomIndividualReturnsAClone(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2, 2})
	require.NoError(t, m.PlaceIndividual(a))

	picked, err := m.GetRandomIndividual(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NotSame(t, a, picked)
	assert.Equal(t, a.Fitness(), picked.Fitness())
}

func TestNeighborsExcludesDiagonalsAndOutOfBounds(t *testing.T) {
	m := NewElitesMap(3, rangesXY(), nil)
	corner := newTestIndividual(t, 1, 1.0, []float64{0, 0})
	right := newTestIndividual(t, 2, 1.0, []float64{4, 0})
	diagonal := newTestIndividual(t, 3, 1.0, []float64{4, 4})

	require.NoError(t, m.PlaceIndividual(corner))
	require.NoError(t, m.PlaceIndividual(right))
	require.NoError(t, m.PlaceIndividual(diagonal))

	neighbors := m.Neighbors([]int{0, 0})
	assert.Len(t, neighbors, 1)
	assert.Equal(t, right.Fitness(), neighbors[0].Fitness())
}

func TestUpdateResolutionRedistributesIndividuals(t *testing.T) {
	m := NewElitesMap(2, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{1, 1})
	b := newTestIndividual(t, 2, 2.0, []float64{9, 9})

	require.NoError(t, m.PlaceIndividual(a))
	require.NoError(t, m.PlaceIndividual(b))
	require.Equal(t, 2, m.Len())

	require.NoError(t, m.UpdateResolution(10))
	assert.Equal(t, 10, m.Resolution())
	assert.Equal(t, 2, m.Len())
}

func TestCloneIsIndependentSnapshot(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	a := newTestIndividual(t, 1, 1.0, []float64{2, 2})
	require.NoError(t, m.PlaceIndividual(a))

	snapshot := m.Clone()
	b := newTestIndividual(t, 2, 5.0, []float64{2, 2})
	require.NoError(t, m.PlaceIndividual(b))

	top, err := snapshot.TopIndividual()
	require.NoError(t, err)
	assert.Equal(t, 1.0, top.Fitness())
}

func TestSortedIndividualsDescendingByFitness(t *testing.T) {
	m := NewElitesMap(5, rangesXY(), nil)
	require.NoError(t, m.PlaceIndividual(newTestIndividual(t, 1, 1.0, []float64{1, 1})))
	require.NoError(t, m.PlaceIndividual(newTestIndividual(t, 2, 5.0, []float64{8, 8})))
	require.NoError(t, m.PlaceIndividual(newTestIndividual(t, 3, 3.0, []float64{5, 5})))

	sorted := m.SortedIndividuals()
	require.Len(t, sorted, 3)
	assert.Equal(t, 5.0, sorted[0].Fitness())
	assert.Equal(t, 3.0, sorted[1].Fitness())
	assert.Equal(t, 1.0, sorted[2].Fitness())
}

func TestCapacityIsResolutionPowDimensions(t *testing.T) {
	m := NewElitesMap(4, rangesXY(), nil)
	assert.Equal(t, 16, m.Capacity())
}
