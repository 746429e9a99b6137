package mapelites

import (
	"fmt"
	"math/rand"
	"sort"
)

// binEpsilon nudges the bin denominator so that a behavior value exactly
// equal to a range's max produces bin R-1 rather than R, giving each
// dimension half-open [min, max) bins even though clamping (below) treats a
// value >= max as out of range.
const binEpsilon = 1e-15

// FeatureRange is the (min, max) bound of one behavior dimension.
type FeatureRange struct {
	Min float64
	Max float64
}

// ElitesMap is the multi-dimensional binned archive: a mapping from cell
// index to the fittest individual discovered in that cell so far.
type ElitesMap struct {
	resolution    int
	featureRanges []FeatureRange
	cells         map[string]*Individual
	logger        Logger
}

// NewElitesMap creates an empty archive with the given resolution and
// per-dimension feature ranges.
func NewElitesMap(resolution int, featureRanges []FeatureRange, logger Logger) *ElitesMap {
	if logger == nil {
		logger = NopLogger{}
	}
	return &ElitesMap{
		resolution:    resolution,
		featureRanges: featureRanges,
		cells:         make(map[string]*Individual),
		logger:        logger,
	}
}

// Resolution returns R, the number of bins per dimension.
func (m *ElitesMap) Resolution() int {
	return m.resolution
}

// FeatureRanges returns the configured per-dimension ranges.
func (m *ElitesMap) FeatureRanges() []FeatureRange {
	return m.featureRanges
}

// Len returns the number of occupied cells.
func (m *ElitesMap) Len() int {
	return len(m.cells)
}

// Capacity returns R^D, the total number of cells.
func (m *ElitesMap) Capacity() int {
	cap := 1
	for range m.featureRanges {
		cap *= m.resolution
	}
	return cap
}

// cellKey encodes a cell position as a map key.
func cellKey(pos []int) string {
	key := make([]byte, 0, len(pos)*5)
	for i, p := range pos {
		if i > 0 {
			key = append(key, ',')
		}
		key = fmt.Appendf(key, "%d", p)
	}
	return string(key)
}

// bin computes the cell position for a behavior vector, clamping
// out-of-range values and warning via the logger.
func (m *ElitesMap) bin(behavior []float64) ([]int, error) {
	if len(behavior) != len(m.featureRanges) {
		return nil, fmt.Errorf("%w: behavior has %d dimensions, want %d", ErrProgramming, len(behavior), len(m.featureRanges))
	}

	pos := make([]int, len(behavior))
	for i, v := range behavior {
		r := m.featureRanges[i]
		if v >= r.Max {
			m.logger.Warnf("behavior dimension %d value %.6f >= max %.6f, clamping", i, v, r.Max)
			v = r.Max
		} else if v < r.Min {
			m.logger.Warnf("behavior dimension %d value %.6f < min %.6f, clamping", i, v, r.Min)
			v = r.Min
		}
		cell := int(((v - r.Min) / (r.Max - r.Min + binEpsilon)) * float64(m.resolution))
		if cell >= m.resolution {
			cell = m.resolution - 1
		}
		if cell < 0 {
			cell = 0
		}
		pos[i] = cell
	}
	return pos, nil
}

// PlaceIndividual bins x by its behavior and stores it if its cell is empty
// or x is strictly fitter (by scalar fitness) than the cell's current
// occupant. Ties do not replace.
func (m *ElitesMap) PlaceIndividual(x *Individual) error {
	pos, err := m.bin(x.Behavior())
	if err != nil {
		return err
	}
	key := cellKey(pos)
	prev, occupied := m.cells[key]
	if !occupied || x.Fitness() > prev.Fitness() {
		m.cells[key] = x
	}
	return nil
}

// occupiedPositions returns every occupied cell's position, decoded from its key.
func (m *ElitesMap) occupiedPositions() [][]int {
	positions := make([][]int, 0, len(m.cells))
	for key := range m.cells {
		positions = append(positions, decodeCellKey(key, len(m.featureRanges)))
	}
	return positions
}

func decodeCellKey(key string, dims int) []int {
	pos := make([]int, 0, dims)
	cur := 0
	started := false
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == ',' {
			pos = append(pos, cur)
			cur = 0
			started = false
			continue
		}
		cur = cur*10 + int(c-'0')
		started = true
	}
	if started || len(pos) < dims {
		pos = append(pos, cur)
	}
	return pos
}

// neighborPositions returns the cardinal (non-diagonal) neighbor positions of pos.
func (m *ElitesMap) neighborPositions(pos []int) [][]int {
	var neighbors [][]int
	for dim := range pos {
		if pos[dim] == 0 {
			n := append([]int(nil), pos...)
			n[dim] = pos[dim] + 1
			neighbors = append(neighbors, n)
		} else if pos[dim] == m.resolution-1 {
			n := append([]int(nil), pos...)
			n[dim] = pos[dim] - 1
			neighbors = append(neighbors, n)
		} else {
			n1 := append([]int(nil), pos...)
			n1[dim] = pos[dim] + 1
			n2 := append([]int(nil), pos...)
			n2[dim] = pos[dim] - 1
			neighbors = append(neighbors, n1, n2)
		}
	}
	return neighbors
}

// Neighbors returns the occupied cardinal neighbors of pos.
func (m *ElitesMap) Neighbors(pos []int) []*Individual {
	var result []*Individual
	for _, n := range m.neighborPositions(pos) {
		if ind, ok := m.cells[cellKey(n)]; ok {
			result = append(result, ind)
		}
	}
	return result
}

// GetRandomIndividual samples a clone of an occupied cell's individual,
// weighted towards cells whose occupant dominates more of its neighbors.
// Returns ErrEmptyArchive if the map holds no individuals.
func (m *ElitesMap) GetRandomIndividual(rng *rand.Rand) (*Individual, error) {
	if len(m.cells) == 0 {
		return nil, ErrEmptyArchive
	}

	positions := m.occupiedPositions()
	weights := make([]float64, len(positions))
	totalWeight := 0.0

	for i, pos := range positions {
		ind := m.cells[cellKey(pos)]
		neighbors := m.Neighbors(pos)
		dominated := 0
		for _, n := range neighbors {
			if ind.Fitness() > n.Fitness() {
				dominated++
			}
		}
		w := float64(1+dominated) / float64(1+len(neighbors))
		weights[i] = w
		totalWeight += w
	}

	target := rng.Float64() * totalWeight
	cumulative := 0.0
	for i, pos := range positions {
		cumulative += weights[i]
		if target < cumulative {
			return m.cells[cellKey(pos)].Clone(), nil
		}
	}
	// Floating point rounding may leave target just past the last cumulative
	// weight; fall back to the last position.
	return m.cells[cellKey(positions[len(positions)-1])].Clone(), nil
}

// TopIndividual returns the stored individual with the greatest scalar
// fitness. Ties go to the occupant with the smallest cell key, so the result
// does not depend on map iteration order. Returns ErrEmptyArchive if the map
// holds no individuals.
func (m *ElitesMap) TopIndividual() (*Individual, error) {
	if len(m.cells) == 0 {
		return nil, ErrEmptyArchive
	}
	var best *Individual
	bestKey := ""
	for key, ind := range m.cells {
		if best == nil || ind.Fitness() > best.Fitness() ||
			(ind.Fitness() == best.Fitness() && key < bestKey) {
			best, bestKey = ind, key
		}
	}
	return best, nil
}

// SortedIndividuals returns a snapshot of every stored individual, sorted
// descending by scalar fitness.
func (m *ElitesMap) SortedIndividuals() []*Individual {
	result := make([]*Individual, 0, len(m.cells))
	for _, ind := range m.cells {
		result = append(result, ind)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Fitness() > result[j].Fitness()
	})
	return result
}

// UpdateResolution re-bins every stored individual against a new resolution,
// keeping the same feature ranges. Collisions resolve per the insertion
// contract (strict fitness comparison).
func (m *ElitesMap) UpdateResolution(newResolution int) error {
	individuals := make([]*Individual, 0, len(m.cells))
	for _, ind := range m.cells {
		individuals = append(individuals, ind)
	}

	m.resolution = newResolution
	m.cells = make(map[string]*Individual)

	for _, ind := range individuals {
		if err := m.PlaceIndividual(ind); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a snapshot copy of the archive: an immutable view safe to
// hand to a consumer while the driver keeps mutating the live map.
func (m *ElitesMap) Clone() *ElitesMap {
	clone := &ElitesMap{
		resolution:    m.resolution,
		featureRanges: append([]FeatureRange(nil), m.featureRanges...),
		cells:         make(map[string]*Individual, len(m.cells)),
		logger:        m.logger,
	}
	for k, ind := range m.cells {
		clone.cells[k] = ind.Clone()
	}
	return clone
}
