package mapelites

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/mapelites-go/genome"
)

// Parameters is the immutable configuration record consumed by Runtime. It is
// loaded from an ini-style file with a [MapElites] section for the archive
// driver and a [DefaultGenome] section handed off to genome.LoadConfig.
type Parameters struct {
	MapResolution int
	FeatureRanges []FeatureRange
	InitialRuns   int
	BatchSize     int
	Genome        *genome.GenomeConfig
}

// mapElitesSection mirrors the [MapElites] ini section for struct-tag mapping.
type mapElitesSection struct {
	MapResolution int    `ini:"map_resolution"`
	FeatureRanges string `ini:"feature_ranges"`
	InitialRuns   int    `ini:"initial_runs"`
	BatchSize     int    `ini:"batch_size"`
}

// NewParameters loads Parameters from an ini file at path, following the same
// LoadSources/IgnoreInlineComment convention genome.LoadConfigFromFile uses.
func NewParameters(path string) (*Parameters, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load config file '%s': %v", ErrConfiguration, path, err)
	}

	var raw mapElitesSection
	if err := cfg.Section("MapElites").MapTo(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to map [MapElites] section: %v", ErrConfiguration, err)
	}

	featureRanges, err := parseFeatureRanges(cleanIniValue(raw.FeatureRanges))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	genomeConfig, err := genome.LoadConfig(cfg.Section("DefaultGenome"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	params := &Parameters{
		MapResolution: raw.MapResolution,
		FeatureRanges: featureRanges,
		InitialRuns:   raw.InitialRuns,
		BatchSize:     raw.BatchSize,
		Genome:        genomeConfig,
	}

	if err := params.validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parameters) validate() error {
	if p.MapResolution <= 0 {
		return fmt.Errorf("%w: map_resolution must be positive", ErrConfiguration)
	}
	if len(p.FeatureRanges) == 0 {
		return fmt.Errorf("%w: feature_ranges must be specified", ErrConfiguration)
	}
	for i, r := range p.FeatureRanges {
		if r.Min >= r.Max {
			return fmt.Errorf("%w: feature_ranges[%d] has min %.6f >= max %.6f", ErrConfiguration, i, r.Min, r.Max)
		}
	}
	if p.InitialRuns < 1 {
		return fmt.Errorf("%w: initial_runs must be at least 1", ErrConfiguration)
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1", ErrConfiguration)
	}
	return nil
}

// parseFeatureRanges parses a space-delimited list of "min:max" pairs.
func parseFeatureRanges(s string) ([]FeatureRange, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("feature_ranges must be specified as space-delimited min:max pairs")
	}
	ranges := make([]FeatureRange, 0, len(fields))
	for _, field := range fields {
		parts := strings.SplitN(field, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid feature_ranges entry %q, expected 'min:max'", field)
		}
		min, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid min value in feature_ranges entry %q: %w", field, err)
		}
		max, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid max value in feature_ranges entry %q: %w", field, err)
		}
		ranges = append(ranges, FeatureRange{Min: min, Max: max})
	}
	return ranges, nil
}

// cleanIniValue strips inline comments the same way genome's cleanIniString does.
func cleanIniValue(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
