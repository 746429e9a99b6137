package genome

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// GenomeConfig holds the parameters that govern genome structure, initialization
// and mutation. It is populated from the [DefaultGenome] section of an ini file.
type GenomeConfig struct {
	// --- Top-level Genome parameters ---
	NumInputs                        int     `ini:"num_inputs"`
	NumOutputs                       int     `ini:"num_outputs"`
	NumHidden                        int     `ini:"num_hidden"`
	FeedForward                      bool    `ini:"feed_forward"`
	CompatibilityDisjointCoefficient float64 `ini:"compatibility_disjoint_coefficient"`
	CompatibilityWeightCoefficient   float64 `ini:"compatibility_weight_coefficient"`
	ConnAddProb                      float64 `ini:"conn_add_prob"`
	ConnDeleteProb                   float64 `ini:"conn_delete_prob"`
	NodeAddProb                      float64 `ini:"node_add_prob"`
	NodeDeleteProb                   float64 `ini:"node_delete_prob"`
	SingleStructuralMutation         bool    `ini:"single_structural_mutation"`
	StructuralMutationSurer          string  `ini:"structural_mutation_surer"`
	InitialConnection                string  `ini:"initial_connection"`

	// --- Node Gene parameters ---
	BiasInitMean    float64 `ini:"bias_init_mean"`
	BiasInitStdev   float64 `ini:"bias_init_stdev"`
	BiasInitType    string  `ini:"bias_init_type"`
	BiasReplaceRate float64 `ini:"bias_replace_rate"`
	BiasMutateRate  float64 `ini:"bias_mutate_rate"`
	BiasMutatePower float64 `ini:"bias_mutate_power"`
	BiasMaxValue    float64 `ini:"bias_max_value"`
	BiasMinValue    float64 `ini:"bias_min_value"`

	ResponseInitMean    float64 `ini:"response_init_mean"`
	ResponseInitStdev   float64 `ini:"response_init_stdev"`
	ResponseInitType    string  `ini:"response_init_type"`
	ResponseReplaceRate float64 `ini:"response_replace_rate"`
	ResponseMutateRate  float64 `ini:"response_mutate_rate"`
	ResponseMutatePower float64 `ini:"response_mutate_power"`
	ResponseMaxValue    float64 `ini:"response_max_value"`
	ResponseMinValue    float64 `ini:"response_min_value"`

	ActivationDefault    string   `ini:"activation_default"`
	ActivationOptions    []string `ini:"activation_options" delim:" "`
	ActivationMutateRate float64  `ini:"activation_mutate_rate"`

	AggregationDefault    string   `ini:"aggregation_default"`
	AggregationOptions    []string `ini:"aggregation_options" delim:" "`
	AggregationMutateRate float64  `ini:"aggregation_mutate_rate"`

	// --- Connection Gene parameters ---
	WeightInitMean    float64 `ini:"weight_init_mean"`
	WeightInitStdev   float64 `ini:"weight_init_stdev"`
	WeightInitType    string  `ini:"weight_init_type"`
	WeightReplaceRate float64 `ini:"weight_replace_rate"`
	WeightMutateRate  float64 `ini:"weight_mutate_rate"`
	WeightMutatePower float64 `ini:"weight_mutate_power"`
	WeightMaxValue    float64 `ini:"weight_max_value"`
	WeightMinValue    float64 `ini:"weight_min_value"`

	EnabledDefault        string  `ini:"enabled_default"`
	EnabledMutateRate     float64 `ini:"enabled_mutate_rate"`
	EnabledRateToTrueAdd  float64 `ini:"enabled_rate_to_true_add"`
	EnabledRateToFalseAdd float64 `ini:"enabled_rate_to_false_add"`

	// --- Calculated/Derived ---
	InputKeys    []int
	OutputKeys   []int
	NodeKeyIndex int
}

// LoadConfigFromFile loads a GenomeConfig from the [DefaultGenome] section of
// an ini file, following the same LoadSources/IgnoreInlineComment convention
// used elsewhere for this file format.
func LoadConfigFromFile(filePath string) (*GenomeConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return LoadConfig(cfg.Section("DefaultGenome"))
}

// LoadConfig populates a GenomeConfig from an already-parsed ini section,
// allowing callers (such as mapelites.Parameters) that loaded the whole file
// themselves to hand off just the [DefaultGenome] section.
func LoadConfig(section *ini.Section) (*GenomeConfig, error) {
	config := &GenomeConfig{}

	if err := section.MapTo(config); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultGenome] section: %w", err)
	}

	// --- Manually reload potentially problematic bool values ---
	if key, err := section.GetKey("feed_forward"); err == nil {
		config.FeedForward, _ = key.Bool()
	}
	if key, err := section.GetKey("single_structural_mutation"); err == nil {
		config.SingleStructuralMutation, _ = key.Bool()
	}

	// --- Explicitly clean potentially problematic string values ---
	config.BiasInitType = cleanIniString(config.BiasInitType)
	config.ResponseInitType = cleanIniString(config.ResponseInitType)
	config.ActivationDefault = cleanIniString(config.ActivationDefault)
	config.AggregationDefault = cleanIniString(config.AggregationDefault)
	config.WeightInitType = cleanIniString(config.WeightInitType)
	config.EnabledDefault = cleanIniString(config.EnabledDefault)
	config.InitialConnection = cleanIniString(config.InitialConnection)
	config.StructuralMutationSurer = cleanIniString(config.StructuralMutationSurer)
	for i, opt := range config.ActivationOptions {
		config.ActivationOptions[i] = strings.TrimSpace(opt)
	}
	for i, opt := range config.AggregationOptions {
		config.AggregationOptions[i] = strings.TrimSpace(opt)
	}

	// Fall back to sensible defaults for fields left blank in the ini file.
	if config.BiasInitType == "" {
		config.BiasInitType = "gaussian"
	}
	if config.ResponseInitType == "" {
		config.ResponseInitType = "gaussian"
	}
	if config.ActivationDefault == "" {
		config.ActivationDefault = "random"
	}
	if config.AggregationDefault == "" {
		config.AggregationDefault = "random"
	}
	if config.WeightInitType == "" {
		config.WeightInitType = "gaussian"
	}
	if config.EnabledDefault == "" {
		config.EnabledDefault = "True"
	}

	// Derive input/output keys.
	config.InputKeys = make([]int, config.NumInputs)
	for i := 0; i < config.NumInputs; i++ {
		config.InputKeys[i] = -(i + 1)
	}
	config.OutputKeys = make([]int, config.NumOutputs)
	for i := 0; i < config.NumOutputs; i++ {
		config.OutputKeys[i] = i
	}
	config.NodeKeyIndex = config.NumOutputs

	if len(config.ActivationOptions) == 0 {
		return nil, fmt.Errorf("config error: activation_options must be specified")
	}
	if len(config.AggregationOptions) == 0 {
		return nil, fmt.Errorf("config error: aggregation_options must be specified")
	}
	if config.NumInputs <= 0 {
		return nil, fmt.Errorf("config error: num_inputs must be positive")
	}
	if config.NumOutputs <= 0 {
		return nil, fmt.Errorf("config error: num_outputs must be positive")
	}
	if config.CompatibilityDisjointCoefficient < 0 {
		return nil, fmt.Errorf("config error: compatibility_disjoint_coefficient cannot be negative")
	}
	if config.CompatibilityWeightCoefficient < 0 {
		return nil, fmt.Errorf("config error: compatibility_weight_coefficient cannot be negative")
	}
	if config.ConnAddProb < 0 || config.ConnAddProb > 1 {
		return nil, fmt.Errorf("config error: conn_add_prob must be between 0 and 1")
	}
	if config.ConnDeleteProb < 0 || config.ConnDeleteProb > 1 {
		return nil, fmt.Errorf("config error: conn_delete_prob must be between 0 and 1")
	}
	if config.NodeAddProb < 0 || config.NodeAddProb > 1 {
		return nil, fmt.Errorf("config error: node_add_prob must be between 0 and 1")
	}
	if config.NodeDeleteProb < 0 || config.NodeDeleteProb > 1 {
		return nil, fmt.Errorf("config error: node_delete_prob must be between 0 and 1")
	}
	if config.BiasMaxValue < config.BiasMinValue {
		return nil, fmt.Errorf("config error: bias_max_value cannot be less than bias_min_value")
	}
	if config.ResponseMaxValue < config.ResponseMinValue {
		return nil, fmt.Errorf("config error: response_max_value cannot be less than response_min_value")
	}
	if config.WeightMaxValue < config.WeightMinValue {
		return nil, fmt.Errorf("config error: weight_max_value cannot be less than weight_min_value")
	}

	validConnections := map[string]bool{
		"unconnected": true, "fs_neat_nohidden": true, "fs_neat": true, "fs_neat_hidden": true,
		"full_nodirect": true, "full": true, "full_direct": true,
		"partial_nodirect": true, "partial": true, "partial_direct": true,
	}
	baseConnection := strings.Fields(config.InitialConnection)[0]
	if !validConnections[baseConnection] {
		return nil, fmt.Errorf("config error: invalid initial_connection type '%s'", baseConnection)
	}

	return config, nil
}

// GetNewNodeKey returns a unique positive integer node id, above the output keys.
func (gc *GenomeConfig) GetNewNodeKey() int {
	key := gc.NodeKeyIndex
	gc.NodeKeyIndex++
	return key
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
