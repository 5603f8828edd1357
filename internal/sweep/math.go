package sweep

import "gonum.org/v1/gonum/stat"

// MeanStddev calculates the mean and sample standard deviation of a
// slice. Returns (0, 0) for empty slices and a zero stddev for a single
// sample.
func MeanStddev(xs []float64) (mean float64, stddev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		stddev = stat.StdDev(xs, nil)
	}
	return mean, stddev
}
