package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/schelling/internal/sweep"
)

// SaveSweepCurvePNG plots the final satisfaction ratio against the
// threshold for a completed sweep.
func SaveSweepCurvePNG(results []sweep.ThresholdResult, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("no sweep results to plot")
	}

	p := plot.New()
	p.Title.Text = "Final satisfaction vs threshold"
	p.X.Label.Text = "Threshold p"
	p.Y.Label.Text = "Satisfaction ratio"
	p.Y.Min = 0
	p.Y.Max = 1.05

	pts := make(plotter.XYs, 0, len(results))
	for _, tr := range results {
		pts = append(pts, plotter.XY{X: tr.Threshold, Y: tr.RatioMean})
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("building line: %w", err)
	}
	line.Color = colorGroupA
	line.Width = vg.Points(1.5)
	points.Color = colorGroupA

	p.Add(line, points)
	p.Legend.Add("ratio mean", line)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save sweep curve: %w", err)
	}
	return nil
}
