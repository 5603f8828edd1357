// Package render turns simulation output into artefacts: PNG heatmaps
// and sweep curves via gonum/plot, animated GIFs of snapshot sequences,
// and an HTML report via go-echarts.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/schelling/internal/sim"
)

// Cell colours: white for empty, blue for group A, red for group B.
var (
	colorEmpty  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorGroupA = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorGroupB = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// statePalette maps the three cell states onto heatmap colours.
type statePalette struct{}

func (statePalette) Colors() []color.Color {
	return []color.Color{colorEmpty, colorGroupA, colorGroupB}
}

// snapshotGrid adapts a board snapshot to the plotter.GridXYZ interface.
// Row 0 of the board is drawn at the top of the image.
type snapshotGrid struct {
	snap sim.Snapshot
}

func (g snapshotGrid) Dims() (c, r int) { return g.snap.Size, g.snap.Size }

func (g snapshotGrid) Z(c, r int) float64 {
	// Plot rows grow upward; board rows grow downward.
	return float64(g.snap.At(g.snap.Size-1-r, c))
}

func (g snapshotGrid) X(c int) float64 { return float64(c) }
func (g snapshotGrid) Y(r int) float64 { return float64(r) }

// SaveHeatmapPNG renders one snapshot as a colour-coded heatmap PNG.
func SaveHeatmapPNG(snap sim.Snapshot, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sweep %d - satisfaction %.3f", snap.SweepIdx, snap.Ratio)
	p.HideAxes()

	hm := plotter.NewHeatMap(snapshotGrid{snap: snap}, statePalette{})
	// Pin the palette to the full state range even when a group is absent.
	hm.Min = float64(sim.Empty)
	hm.Max = float64(sim.GroupB)
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
