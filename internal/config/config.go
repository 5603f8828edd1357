package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/schelling/internal/sim"
)

// SimConfig holds default simulation parameters loaded from a JSON file.
// All fields are pointers so a partial config only overrides the values it
// names; the Get* methods fall back to the built-in defaults.
type SimConfig struct {
	Size          *int     `json:"size,omitempty"`
	EmptyCount    *int     `json:"empty_count,omitempty"`
	GroupFraction *float64 `json:"group_fraction,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
	MaxSweeps     *int     `json:"max_sweeps,omitempty"`

	// Plot-mode defaults.
	Thresholds *string `json:"thresholds,omitempty"` // list or range start:end:step
	Iterations *int    `json:"iterations,omitempty"`
}

// Load reads a SimConfig from a JSON file. The path must have a .json
// extension and the file must be under 1MB. Fields omitted from the JSON
// are left nil so callers can tell configured values from defaults.
func Load(path string) (*SimConfig, error) {
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

	cfg := &SimConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configured values that have range constraints.
func (c *SimConfig) Validate() error {
	if c.Size != nil && *c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", *c.Size)
	}
	if c.EmptyCount != nil && *c.EmptyCount < 0 {
		return fmt.Errorf("empty_count must be non-negative, got %d", *c.EmptyCount)
	}
	if c.GroupFraction != nil {
		if *c.GroupFraction < 0 || *c.GroupFraction > 1 {
			return fmt.Errorf("group_fraction must be between 0 and 1, got %f", *c.GroupFraction)
		}
	}
	if c.Threshold != nil {
		if *c.Threshold < 0 || *c.Threshold > 1 {
			return fmt.Errorf("threshold must be between 0 and 1, got %f", *c.Threshold)
		}
	}
	if c.MaxSweeps != nil && *c.MaxSweeps <= 0 {
		return fmt.Errorf("max_sweeps must be positive, got %d", *c.MaxSweeps)
	}
	if c.Iterations != nil && *c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", *c.Iterations)
	}
	return nil
}

// GetSize returns the configured board size or the built-in default.
func (c *SimConfig) GetSize() int {
	if c.Size == nil {
		return sim.DefaultSize
	}
	return *c.Size
}

// GetMaxSweeps returns the configured sweep cap or the built-in default.
func (c *SimConfig) GetMaxSweeps() int {
	if c.MaxSweeps == nil {
		return sim.DefaultMaxSweeps
	}
	return *c.MaxSweeps
}

// GetIterations returns the configured iteration count or 1.
func (c *SimConfig) GetIterations() int {
	if c.Iterations == nil {
		return 1
	}
	return *c.Iterations
}
