// Package sim implements the Schelling segregation model: a two-group
// agent population on a square grid where unsatisfied agents relocate to
// empty cells until the board reaches equilibrium or a sweep cap.
package sim

import (
	"fmt"
	"math/rand"
)

// CellState is the occupancy of a single board cell.
type CellState uint8

const (
	Empty CellState = iota
	GroupA
	GroupB
)

// String returns a short label for the cell state.
func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case GroupA:
		return "a"
	case GroupB:
		return "b"
	default:
		return fmt.Sprintf("cellstate(%d)", uint8(s))
	}
}

// Board is a mutable N x N Schelling board. It is not safe for concurrent
// use; each run owns its board exclusively.
type Board struct {
	size      int
	threshold float64
	maxSweeps int
	cells     []CellState // row-major, length size*size
	empty     []int       // indices of currently-empty cells, unordered
	rng       *rand.Rand
}

// NewBoard constructs a board with a randomised initial assignment that
// respects the exact Empty/GroupA/GroupB counts implied by p. The random
// source is injected so runs are reproducible.
func NewBoard(p Params, rng *rand.Rand) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source")
	}
	p = p.withDefaults()

	emptyCount, groupA, groupB := p.counts()

	b := &Board{
		size:      p.Size,
		threshold: p.Threshold,
		maxSweeps: p.MaxSweeps,
		cells:     make([]CellState, p.Size*p.Size),
		rng:       rng,
	}

	// Lay out the exact counts flat, then shuffle into place.
	i := 0
	for ; i < emptyCount; i++ {
		b.cells[i] = Empty
	}
	for ; i < emptyCount+groupA; i++ {
		b.cells[i] = GroupA
	}
	for ; i < emptyCount+groupA+groupB; i++ {
		b.cells[i] = GroupB
	}
	rng.Shuffle(len(b.cells), func(x, y int) {
		b.cells[x], b.cells[y] = b.cells[y], b.cells[x]
	})

	b.empty = make([]int, 0, emptyCount)
	for idx, c := range b.cells {
		if c == Empty {
			b.empty = append(b.empty, idx)
		}
	}
	return b, nil
}

// Size returns the board dimension N.
func (b *Board) Size() int { return b.size }

// Threshold returns the satisfaction threshold the board was built with.
func (b *Board) Threshold() float64 { return b.threshold }

// At returns the state of the cell at row r, column c.
func (b *Board) At(r, c int) CellState { return b.cells[r*b.size+c] }

// Counts returns the number of Empty, GroupA and GroupB cells. The three
// counts are invariant across sweeps.
func (b *Board) Counts() (empty, groupA, groupB int) {
	for _, c := range b.cells {
		switch c {
		case Empty:
			empty++
		case GroupA:
			groupA++
		case GroupB:
			groupB++
		}
	}
	return empty, groupA, groupB
}

// sameGroupFraction computes the fraction of occupied neighbours of idx
// that share its group, and the number of occupied neighbours. Neighbours
// are the up-to-8 adjacent cells, clipped at the board edges.
func (b *Board) sameGroupFraction(idx int) (frac float64, occupied int) {
	group := b.cells[idx]
	r, c := idx/b.size, idx%b.size

	same := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr < 0 || nr >= b.size || nc < 0 || nc >= b.size {
				continue
			}
			n := b.cells[nr*b.size+nc]
			if n == Empty {
				continue
			}
			occupied++
			if n == group {
				same++
			}
		}
	}
	if occupied == 0 {
		return 0, 0
	}
	return float64(same) / float64(occupied), occupied
}

// Satisfied reports whether the occupied cell at idx meets the threshold.
// A cell with no occupied neighbours is vacuously satisfied.
func (b *Board) satisfied(idx int) bool {
	frac, occupied := b.sameGroupFraction(idx)
	if occupied == 0 {
		return true
	}
	return frac >= b.threshold
}

// relocate moves the agent at idx to a uniformly random empty cell and
// marks idx empty. The empty-cell count is unchanged.
func (b *Board) relocate(idx int) {
	j := b.rng.Intn(len(b.empty))
	dest := b.empty[j]
	b.cells[dest] = b.cells[idx]
	b.cells[idx] = Empty
	b.empty[j] = idx
}

// Sweep performs one full pass over the board in row-major order,
// relocating every occupied cell that is unsatisfied at the moment it is
// scanned. Relocations apply eagerly, so a move is visible to the
// satisfaction checks of later cells in the same sweep. Returns the
// number of relocations.
func (b *Board) Sweep() int {
	moved := 0
	for idx := range b.cells {
		if b.cells[idx] == Empty {
			continue
		}
		if b.satisfied(idx) {
			continue
		}
		if len(b.empty) == 0 {
			// Unreachable when EmptyCount > 0 was validated; agents can
			// only swap into empty cells.
			break
		}
		b.relocate(idx)
		moved++
	}
	return moved
}

// SatisfactionRatio returns the fraction of occupied cells that are
// satisfied. A board with no occupied cells reports 1.0.
func (b *Board) SatisfactionRatio() float64 {
	occupied, satisfied := 0, 0
	for idx, c := range b.cells {
		if c == Empty {
			continue
		}
		occupied++
		if b.satisfied(idx) {
			satisfied++
		}
	}
	if occupied == 0 {
		return 1.0
	}
	return float64(satisfied) / float64(occupied)
}

// MeanSatisfaction returns the mean same-group neighbour fraction over
// occupied cells. Cells with no occupied neighbours contribute 1.0. A
// board with no occupied cells reports 1.0.
func (b *Board) MeanSatisfaction() float64 {
	occupied := 0
	sum := 0.0
	for idx, c := range b.cells {
		if c == Empty {
			continue
		}
		occupied++
		frac, n := b.sameGroupFraction(idx)
		if n == 0 {
			sum += 1.0
		} else {
			sum += frac
		}
	}
	if occupied == 0 {
		return 1.0
	}
	return sum / float64(occupied)
}

// Result summarises a completed run.
type Result struct {
	Sweeps           int     `json:"sweeps"`
	Relocations      int     `json:"relocations"`
	Equilibrium      bool    `json:"equilibrium"`
	Ratio            float64 `json:"satisfaction_ratio"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
}

// Run advances the board sweep by sweep until a sweep relocates nothing
// (equilibrium) or the sweep cap is reached. Hitting the cap is a normal
// outcome, not an error.
func (b *Board) Run() Result {
	res, _ := b.run(false)
	return res
}

// RunWithSnapshots behaves like Run and additionally captures the initial
// state plus one snapshot after each sweep, for replay by the animator.
func (b *Board) RunWithSnapshots() (Result, []Snapshot) {
	return b.run(true)
}

func (b *Board) run(capture bool) (Result, []Snapshot) {
	var snaps []Snapshot
	if capture {
		snaps = append(snaps, b.snapshot(0, 0))
	}

	var res Result
	for res.Sweeps < b.maxSweeps {
		moved := b.Sweep()
		res.Sweeps++
		res.Relocations += moved
		if capture {
			snaps = append(snaps, b.snapshot(res.Sweeps, moved))
		}
		if moved == 0 {
			res.Equilibrium = true
			break
		}
	}
	res.Ratio = b.SatisfactionRatio()
	res.MeanSatisfaction = b.MeanSatisfaction()
	return res, snaps
}
