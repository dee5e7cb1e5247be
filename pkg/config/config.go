// Package config loads and validates generation run configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SpecConfig describes one input document and how its operations map to
// output modules.
type SpecConfig struct {
	// Name overrides the spec name derived from the document title. It
	// becomes a path segment in multi-spec runs, so keep it path-safe.
	Name string `yaml:"name"`
	// Source is a file path or URL for the document.
	Source string `yaml:"source"`
	// Modules selects which tag-derived modules to generate. Empty means
	// all of them.
	Modules []string `yaml:"modules"`
}

// Config is the top-level generation configuration.
type Config struct {
	// Output is the root directory generated files land in.
	Output string `yaml:"output"`
	// Hooks toggles emission of data-fetching hooks.
	Hooks bool `yaml:"hooks"`
	// Force overwrites conflicting files instead of erroring.
	Force bool `yaml:"force"`
	// FailFast stops the run on the first spec-level error instead of
	// continuing with the remaining specs.
	FailFast bool `yaml:"fail_fast"`
	// Specs lists the documents to generate clients for.
	Specs []SpecConfig `yaml:"specs"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration bytes.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first structural problem with the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("config: output directory is required")
	}
	if len(c.Specs) == 0 {
		return fmt.Errorf("config: at least one spec is required")
	}
	seen := make(map[string]struct{}, len(c.Specs))
	for i, spec := range c.Specs {
		if strings.TrimSpace(spec.Source) == "" {
			return fmt.Errorf("config: specs[%d]: source is required", i)
		}
		if spec.Name != "" {
			if strings.ContainsAny(spec.Name, `/\`) {
				return fmt.Errorf("config: specs[%d]: name %q must not contain path separators", i, spec.Name)
			}
			if _, dup := seen[spec.Name]; dup {
				return fmt.Errorf("config: specs[%d]: duplicate spec name %q", i, spec.Name)
			}
			seen[spec.Name] = struct{}{}
		}
	}
	return nil
}
