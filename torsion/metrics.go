package torsion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSE is the root mean square deviation between predicted and actual.
func RMSE(predicted, actual []float64) float64 {
	return floats.Distance(predicted, actual, 2) / math.Sqrt(float64(len(actual)))
}

// MAE is the mean absolute deviation between predicted and actual.
func MAE(predicted, actual []float64) float64 {
	return floats.Distance(predicted, actual, 1) / float64(len(actual))
}

// Ratio is rmse/mae - 1, a measure of how much the error is concentrated in a
// few samples. A perfect fit (mae == 0) has ratio 0.
func Ratio(rmse, mae float64) float64 {
	if mae == 0 {
		return 0
	}
	return math.Abs(rmse/mae) - 1
}
