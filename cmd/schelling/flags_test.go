package main

import (
	"testing"

	"github.com/banshee-data/schelling/internal/config"
	"github.com/banshee-data/schelling/internal/sim"
)

// TestFlagDefaults verifies the flag defaults match the simulation
// package defaults.
func TestFlagDefaults(t *testing.T) {
	if *size != sim.DefaultSize {
		t.Errorf("expected size default %d, got %d", sim.DefaultSize, *size)
	}
	if *maxSweeps != sim.DefaultMaxSweeps {
		t.Errorf("expected max-sweeps default %d, got %d", sim.DefaultMaxSweeps, *maxSweeps)
	}
	if *thresholds != "0:1:0.1" {
		t.Errorf("expected thresholds default 0:1:0.1, got %q", *thresholds)
	}
	if *dbPath != "" {
		t.Errorf("expected db default to be empty, got %q", *dbPath)
	}
}

func setFlags(t *testing.T, empty int, fraction, thresh float64) {
	t.Helper()
	oldEmpty, oldFraction, oldThreshold := *emptyCount, *groupFraction, *threshold
	t.Cleanup(func() {
		*emptyCount, *groupFraction, *threshold = oldEmpty, oldFraction, oldThreshold
	})
	*emptyCount = empty
	*groupFraction = fraction
	*threshold = thresh
}

func TestAnimateParams(t *testing.T) {
	setFlags(t, 250, 0.6, 0.5)

	p, err := animateParams()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size != sim.DefaultSize || p.EmptyCount != 250 || p.GroupFraction != 0.6 || p.Threshold != 0.5 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestAnimateParamsMissingFlags(t *testing.T) {
	tests := []struct {
		name     string
		empty    int
		fraction float64
		thresh   float64
	}{
		{"missing empty", -1, 0.6, 0.5},
		{"missing fraction", 250, -1, 0.5},
		{"missing threshold", 250, 0.6, -1},
		{"empty exceeds capacity", sim.DefaultSize*sim.DefaultSize + 1, 0.6, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(t, tt.empty, tt.fraction, tt.thresh)
			if _, err := animateParams(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPlotRequest(t *testing.T) {
	setFlags(t, 250, 0.6, -1)

	req, err := plotRequest(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Thresholds) != 11 {
		t.Errorf("expected 11 thresholds from default range, got %d", len(req.Thresholds))
	}
	if req.Seed != 42 {
		t.Errorf("expected seed 42, got %d", req.Seed)
	}
}

func TestPlotRequestBadThresholds(t *testing.T) {
	setFlags(t, 250, 0.6, -1)
	oldThresholds := *thresholds
	t.Cleanup(func() { *thresholds = oldThresholds })
	*thresholds = "0.1,abc"

	if _, err := plotRequest(1); err == nil {
		t.Error("expected error for malformed threshold list")
	}
}

func TestApplyConfig(t *testing.T) {
	setFlags(t, -1, -1, -1)

	sz := 80
	fraction := 0.7
	cfg := &config.SimConfig{Size: &sz, GroupFraction: &fraction}
	oldSize := *size
	t.Cleanup(func() { *size = oldSize })

	applyConfig(cfg)

	if *size != 80 {
		t.Errorf("expected config to set size 80, got %d", *size)
	}
	if *groupFraction != 0.7 {
		t.Errorf("expected config to set fraction 0.7, got %f", *groupFraction)
	}
	if *emptyCount != -1 {
		t.Errorf("expected empty to stay unset, got %d", *emptyCount)
	}
}
