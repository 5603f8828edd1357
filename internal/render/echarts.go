package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/schelling/internal/sim"
	"github.com/banshee-data/schelling/internal/sweep"
)

// Hex values of the cell colours, for echarts visual maps.
var stateHexColors = []string{"#ffffff", "#1f77b4", "#d62728"}

// WriteHTMLReport renders an interactive HTML report. Either part may be
// absent: results draw the sweep curve, final draws the terminal board.
func WriteHTMLReport(path string, results []sweep.ThresholdResult, final *sim.Snapshot) error {
	if len(results) == 0 && final == nil {
		return fmt.Errorf("nothing to report")
	}

	page := components.NewPage()
	page.PageTitle = "Schelling segregation report"

	if len(results) > 0 {
		page.AddCharts(sweepCurveChart(results))
	}
	if final != nil {
		page.AddCharts(boardHeatmapChart(*final))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func sweepCurveChart(results []sweep.ThresholdResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Final satisfaction vs threshold",
			Subtitle: fmt.Sprintf("%d threshold values", len(results)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "satisfaction ratio"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "threshold p"}),
	)

	xAxis := make([]string, 0, len(results))
	data := make([]opts.LineData, 0, len(results))
	for _, tr := range results {
		xAxis = append(xAxis, fmt.Sprintf("%.2f", tr.Threshold))
		data = append(data, opts.LineData{Value: tr.RatioMean})
	}
	line.SetXAxis(xAxis).AddSeries("ratio mean", data)
	return line
}

func boardHeatmapChart(snap sim.Snapshot) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Terminal board",
			Subtitle: fmt.Sprintf("sweep %d, satisfaction %.3f", snap.SweepIdx, snap.Ratio),
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:       0,
			Max:       2,
			Dimension: "2",
			InRange:   &opts.VisualMapInRange{Color: stateHexColors},
		}),
	)

	xAxis := make([]string, snap.Size)
	for c := range xAxis {
		xAxis[c] = fmt.Sprintf("%d", c)
	}

	data := make([]opts.HeatMapData, 0, snap.Size*snap.Size)
	for r := 0; r < snap.Size; r++ {
		for c := 0; c < snap.Size; c++ {
			// echarts rows grow upward; board rows grow downward.
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{c, snap.Size - 1 - r, int(snap.At(r, c))},
			})
		}
	}
	hm.SetXAxis(xAxis).AddSeries("board", data)
	return hm
}
