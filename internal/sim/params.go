package sim

import "fmt"

// Default board dimension and sweep cap. A 50x50 board matches the
// population scales the model is normally studied at; the sweep cap
// guards against parameter combinations with no equilibrium.
const (
	DefaultSize      = 50
	DefaultMaxSweeps = 200
)

// Params configures a single simulation run.
type Params struct {
	// Size is the board dimension N; the board holds N*N cells.
	Size int

	// EmptyCount is the exact number of cells left empty.
	EmptyCount int

	// GroupFraction is the fraction of occupied cells assigned to group A;
	// the remainder are group B.
	GroupFraction float64

	// Threshold is the minimum fraction of same-group neighbours (among
	// occupied neighbours) for an agent to be satisfied.
	Threshold float64

	// MaxSweeps caps the number of relocation sweeps when no equilibrium
	// is reached. Zero selects DefaultMaxSweeps.
	MaxSweeps int
}

// withDefaults returns a copy of p with zero-valued Size and MaxSweeps
// replaced by their defaults.
func (p Params) withDefaults() Params {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.MaxSweeps == 0 {
		p.MaxSweeps = DefaultMaxSweeps
	}
	return p
}

// Validate checks the parameter ranges before any board is constructed.
// EmptyCount may equal the full capacity, which yields a board with no
// agents and no relocations.
func (p Params) Validate() error {
	p = p.withDefaults()

	if p.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", p.Size)
	}
	if p.GroupFraction < 0 || p.GroupFraction > 1 {
		return fmt.Errorf("group fraction must be in [0,1], got %g", p.GroupFraction)
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %g", p.Threshold)
	}
	if p.EmptyCount <= 0 {
		return fmt.Errorf("empty count must be positive, got %d", p.EmptyCount)
	}
	if capacity := p.Size * p.Size; p.EmptyCount > capacity {
		return fmt.Errorf("empty count %d exceeds board capacity %d", p.EmptyCount, capacity)
	}
	if p.MaxSweeps < 0 {
		return fmt.Errorf("max sweeps must not be negative, got %d", p.MaxSweeps)
	}
	return nil
}

// counts returns the exact Empty/GroupA/GroupB cell counts implied by the
// parameters. GroupA gets the floor of the occupied fraction; GroupB
// takes the remainder.
func (p Params) counts() (empty, groupA, groupB int) {
	occupied := p.Size*p.Size - p.EmptyCount
	groupA = int(float64(occupied) * p.GroupFraction)
	groupB = occupied - groupA
	return p.EmptyCount, groupA, groupB
}
