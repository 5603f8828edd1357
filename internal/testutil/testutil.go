// Package testutil provides shared test helpers for the simulation
// packages.
package testutil

import (
	"testing"

	"github.com/banshee-data/schelling/internal/sim"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// CountStates tallies the cell states of a snapshot.
func CountStates(cells []sim.CellState) (empty, groupA, groupB int) {
	for _, c := range cells {
		switch c {
		case sim.Empty:
			empty++
		case sim.GroupA:
			groupA++
		case sim.GroupB:
			groupB++
		}
	}
	return empty, groupA, groupB
}
