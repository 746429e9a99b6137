package mapelites

import "encoding/json"

// The wire types below are a self-describing JSON rendering of the archive
// for checkpoint inspection, deliberately not a binary format: unlike a
// gob-encoded snapshot, a JSON one can be read by a human or a separate tool
// without linking this package. There is no cross-version compatibility
// guarantee beyond "these field names and shapes."

type individualJSON struct {
	Fitness     float64              `json:"fitness"`
	Behavior    []float64            `json:"behavior"`
	GenomeKey   int                  `json:"genome_key"`
	Nodes       map[int]nodeGeneJSON `json:"nodes"`
	Connections []connectionGeneJSON `json:"connections"`
}

type nodeGeneJSON struct {
	Bias        float64 `json:"bias"`
	Response    float64 `json:"response"`
	Activation  string  `json:"activation"`
	Aggregation string  `json:"aggregation"`
}

type connectionGeneJSON struct {
	InNodeID  int     `json:"in_node_id"`
	OutNodeID int     `json:"out_node_id"`
	Weight    float64 `json:"weight"`
	Enabled   bool    `json:"enabled"`
}

func toIndividualJSON(ind *Individual) individualJSON {
	g := ind.Genome()
	nodes := make(map[int]nodeGeneJSON, len(g.NodeGenes()))
	for key, n := range g.NodeGenes() {
		nodes[key] = nodeGeneJSON{
			Bias:        n.Bias,
			Response:    n.Response,
			Activation:  n.Activation,
			Aggregation: n.Aggregation,
		}
	}
	conns := make([]connectionGeneJSON, 0, len(g.ConnectionGenes()))
	for key, c := range g.ConnectionGenes() {
		conns = append(conns, connectionGeneJSON{
			InNodeID:  key.InNodeID,
			OutNodeID: key.OutNodeID,
			Weight:    c.Weight,
			Enabled:   c.Enabled,
		})
	}
	return individualJSON{
		Fitness:     ind.Fitness(),
		Behavior:    ind.Behavior(),
		GenomeKey:   g.Key,
		Nodes:       nodes,
		Connections: conns,
	}
}

// MarshalIndividualText renders an individual as self-describing JSON text.
func MarshalIndividualText(ind *Individual) ([]byte, error) {
	return json.MarshalIndent(toIndividualJSON(ind), "", "  ")
}

type elitesMapJSON struct {
	Resolution    int              `json:"resolution"`
	FeatureRanges []FeatureRange   `json:"feature_ranges"`
	Individuals   []individualJSON `json:"individuals"`
}

// MarshalElitesMapText renders an archive snapshot as self-describing JSON
// text, suitable for checkpoint inspection (not restart: this package has no
// function that decodes it back into an ElitesMap).
func MarshalElitesMapText(m *ElitesMap) ([]byte, error) {
	sorted := m.SortedIndividuals()
	individuals := make([]individualJSON, len(sorted))
	for i, ind := range sorted {
		individuals[i] = toIndividualJSON(ind)
	}
	doc := elitesMapJSON{
		Resolution:    m.Resolution(),
		FeatureRanges: m.FeatureRanges(),
		Individuals:   individuals,
	}
	return json.MarshalIndent(doc, "", "  ")
}

type parametersJSON struct {
	MapResolution int            `json:"map_resolution"`
	FeatureRanges []FeatureRange `json:"feature_ranges"`
	InitialRuns   int            `json:"initial_runs"`
	BatchSize     int            `json:"batch_size"`
}

// MarshalParametersText renders the map-elites-specific portion of
// Parameters as self-describing JSON text (the embedded genome.GenomeConfig
// is an opaque struct owned by the genome package and is not re-serialized
// here).
func MarshalParametersText(p *Parameters) ([]byte, error) {
	doc := parametersJSON{
		MapResolution: p.MapResolution,
		FeatureRanges: p.FeatureRanges,
		InitialRuns:   p.InitialRuns,
		BatchSize:     p.BatchSize,
	}
	return json.MarshalIndent(doc, "", "  ")
}
