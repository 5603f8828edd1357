package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteSummaryCSV writes one row per threshold with the aggregated
// satisfaction statistics.
func WriteSummaryCSV(path string, results []ThresholdResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"threshold",
		"ratio_mean", "ratio_stddev",
		"mean_satisfaction_mean",
		"sweeps_mean", "equilibrium_count", "iterations",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	for _, tr := range results {
		row := []string{
			fmt.Sprintf("%.6f", tr.Threshold),
			fmt.Sprintf("%.6f", tr.RatioMean),
			fmt.Sprintf("%.6f", tr.RatioStddev),
			fmt.Sprintf("%.6f", tr.MeanSatMean),
			fmt.Sprintf("%.2f", tr.SweepsMean),
			fmt.Sprintf("%d", tr.EquilibriumCount),
			fmt.Sprintf("%d", len(tr.Samples)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteRawCSV writes one row per engine run so individual samples can be
// re-analysed later.
func WriteRawCSV(path string, results []ThresholdResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating raw file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"threshold", "iteration", "seed", "ratio", "mean_satisfaction", "sweeps", "equilibrium"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing raw header: %w", err)
	}

	for _, tr := range results {
		for _, s := range tr.Samples {
			row := []string{
				fmt.Sprintf("%.6f", tr.Threshold),
				fmt.Sprintf("%d", s.Iteration),
				fmt.Sprintf("%d", s.Seed),
				fmt.Sprintf("%.6f", s.Ratio),
				fmt.Sprintf("%.6f", s.MeanSat),
				fmt.Sprintf("%d", s.Sweeps),
				fmt.Sprintf("%t", s.Equilibrium),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing raw row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}
