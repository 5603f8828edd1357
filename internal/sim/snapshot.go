package sim

// Snapshot is a full capture of the board state after a sweep, suitable
// for rendering as a colour-coded image. The cell slice is a copy; later
// sweeps do not mutate it.
type Snapshot struct {
	SweepIdx    int
	Size        int
	Cells       []CellState
	Relocations int
	Ratio       float64
}

// At returns the state of the snapshot cell at row r, column c.
func (s Snapshot) At(r, c int) CellState { return s.Cells[r*s.Size+c] }

func (b *Board) snapshot(sweepIdx, relocations int) Snapshot {
	cells := make([]CellState, len(b.cells))
	copy(cells, b.cells)
	return Snapshot{
		SweepIdx:    sweepIdx,
		Size:        b.size,
		Cells:       cells,
		Relocations: relocations,
		Ratio:       b.SatisfactionRatio(),
	}
}

// Snapshot captures the current board state outside a run.
func (b *Board) Snapshot() Snapshot {
	return b.snapshot(0, 0)
}
