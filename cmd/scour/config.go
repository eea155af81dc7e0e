package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the structure of .scour.yaml. Every field is optional;
// missing fields fall back to the engine defaults.
type ConfigFile struct {
	// FuzzyThreshold is the pairwise fuzzy-match threshold on the
	// 0-100 ratio scale, used by duplicate discovery.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// ValidSegments enumerates acceptable segment values.
	ValidSegments []string `yaml:"valid_segments"`

	// RequiredFields are the hard-required columns.
	RequiredFields []string `yaml:"required_fields"`

	// MergePolicy resolves fuzzy duplicate groups when set
	// (first-valid, most-frequent, concatenate, numeric-average,
	// numeric-min, numeric-max).
	MergePolicy string `yaml:"merge_policy"`

	// Region is the phone-number region. Default US.
	Region string `yaml:"region"`

	// PostalRegion restricts postal formats: US, CA, or empty for either.
	PostalRegion string `yaml:"postal_region"`
}

const defaultConfigPath = ".scour.yaml"

// defaultFuzzyThreshold is the pairwise similarity cutoff on the
// 0-100 ratio scale.
const defaultFuzzyThreshold = 88

// loadConfig reads the config file. An explicitly named file must
// exist; the implicit default path is optional.
func loadConfig(path string) (*ConfigFile, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &ConfigFile{FuzzyThreshold: defaultFuzzyThreshold}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &ConfigFile{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = defaultFuzzyThreshold
	}
	return cfg, nil
}
