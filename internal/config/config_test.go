package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/schelling/internal/sim"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "schelling.json")

	testJSON := `{
  "size": 80,
  "empty_count": 640,
  "group_fraction": 0.5,
  "threshold": 0.375,
  "max_sweeps": 500,
  "iterations": 10
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Size == nil || *cfg.Size != 80 {
		t.Errorf("Expected Size 80, got %v", cfg.Size)
	}
	if cfg.EmptyCount == nil || *cfg.EmptyCount != 640 {
		t.Errorf("Expected EmptyCount 640, got %v", cfg.EmptyCount)
	}
	if cfg.Threshold == nil || *cfg.Threshold != 0.375 {
		t.Errorf("Expected Threshold 0.375, got %v", cfg.Threshold)
	}
	if cfg.GetSize() != 80 {
		t.Errorf("GetSize() = %d, want 80", cfg.GetSize())
	}
	if cfg.GetMaxSweeps() != 500 {
		t.Errorf("GetMaxSweeps() = %d, want 500", cfg.GetMaxSweeps())
	}
	if cfg.GetIterations() != 10 {
		t.Errorf("GetIterations() = %d, want 10", cfg.GetIterations())
	}
}

func TestLoadPartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	if err := os.WriteFile(configPath, []byte(`{"group_fraction": 0.7}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GroupFraction == nil || *cfg.GroupFraction != 0.7 {
		t.Errorf("Expected GroupFraction 0.7, got %v", cfg.GroupFraction)
	}
	if cfg.Size != nil {
		t.Errorf("Expected Size to be nil for partial config, got %v", *cfg.Size)
	}
	if cfg.GetSize() != sim.DefaultSize {
		t.Errorf("GetSize() = %d, want default %d", cfg.GetSize(), sim.DefaultSize)
	}
	if cfg.GetIterations() != 1 {
		t.Errorf("GetIterations() = %d, want 1", cfg.GetIterations())
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		file string
		body string
	}{
		{"wrong extension", "config.yaml", `{}`},
		{"malformed json", "bad.json", `{"size": `},
		{"fraction out of range", "range.json", `{"group_fraction": 1.5}`},
		{"threshold out of range", "threshold.json", `{"threshold": -0.1}`},
		{"zero max_sweeps", "sweeps.json", `{"max_sweeps": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
