package testutil

import (
	"testing"

	"github.com/banshee-data/schelling/internal/sim"
)

func TestCountStates(t *testing.T) {
	cells := []sim.CellState{
		sim.Empty, sim.GroupA, sim.GroupB,
		sim.GroupA, sim.GroupA, sim.Empty,
	}
	empty, a, b := CountStates(cells)
	if empty != 2 || a != 3 || b != 1 {
		t.Fatalf("got counts %d/%d/%d, want 2/3/1", empty, a, b)
	}
}
