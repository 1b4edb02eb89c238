// Package config loads the optional analysis defaults file. Fields
// omitted from the JSON retain built-in defaults, so partial configs
// are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Built-in defaults applied when no config file is given or a field is
// omitted.
const (
	defaultEpsilonMeters = 50.0
	defaultMinPoints     = 10
)

// Analysis holds the tunable defaults for the analyze operation. All
// fields are pointers so a JSON file can override any subset.
type Analysis struct {
	// DefaultEpsilonMeters is the neighbourhood radius used when a
	// request does not supply one.
	DefaultEpsilonMeters *float64 `json:"default_epsilon_meters,omitempty"`
	// DefaultMinPoints is the core-point neighbourhood size used when a
	// request does not supply one.
	DefaultMinPoints *int `json:"default_min_points,omitempty"`
	// DefaultYear bounds the analysis window when a request carries no
	// dates. Zero or absent means the current calendar year.
	DefaultYear *int `json:"default_year,omitempty"`
}

// EmptyAnalysis returns an Analysis with all fields unset. The Get*
// accessors fall back to built-in defaults.
func EmptyAnalysis() *Analysis {
	return &Analysis{}
}

// Load reads an Analysis config from a JSON file. The path must have a
// .json extension and stay under 1MB.
func Load(path string) (*Analysis, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysis()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable as defaults.
func (c *Analysis) Validate() error {
	if c.DefaultEpsilonMeters != nil && *c.DefaultEpsilonMeters < 0 {
		return fmt.Errorf("default_epsilon_meters must be >= 0, got %g", *c.DefaultEpsilonMeters)
	}
	if c.DefaultMinPoints != nil && *c.DefaultMinPoints < 1 {
		return fmt.Errorf("default_min_points must be >= 1, got %d", *c.DefaultMinPoints)
	}
	if c.DefaultYear != nil && (*c.DefaultYear < 1970 || *c.DefaultYear > 9999) {
		return fmt.Errorf("default_year must be between 1970 and 9999, got %d", *c.DefaultYear)
	}
	return nil
}

// GetDefaultEpsilonMeters returns the configured epsilon or the default.
func (c *Analysis) GetDefaultEpsilonMeters() float64 {
	if c.DefaultEpsilonMeters == nil {
		return defaultEpsilonMeters
	}
	return *c.DefaultEpsilonMeters
}

// GetDefaultMinPoints returns the configured minPoints or the default.
func (c *Analysis) GetDefaultMinPoints() int {
	if c.DefaultMinPoints == nil {
		return defaultMinPoints
	}
	return *c.DefaultMinPoints
}

// GetDefaultYear returns the configured default window year, or 0 when
// the current year should be used.
func (c *Analysis) GetDefaultYear() int {
	if c.DefaultYear == nil {
		return 0
	}
	return *c.DefaultYear
}
