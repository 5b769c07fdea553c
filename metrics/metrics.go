// Package metrics scores forecast accuracy against held-out actuals.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// InvalidInputError reports empty, mismatched, or too-short input sequences.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid metrics input: " + e.Reason
}

func checkPair(actual, predicted []float64) error {
	if len(actual) == 0 {
		return &InvalidInputError{Reason: "empty input"}
	}
	if len(actual) != len(predicted) {
		return &InvalidInputError{
			Reason: fmt.Sprintf("length mismatch: %d actual vs %d predicted", len(actual), len(predicted)),
		}
	}
	return nil
}

// MSE is the mean squared error.
func MSE(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual)), nil
}

// RMSE is the root mean squared error.
func RMSE(actual, predicted []float64) (float64, error) {
	mse, err := MSE(actual, predicted)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error.
func MAE(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual)), nil
}

// MAPE is the mean absolute percentage error, averaged over indices where the
// actual value is non-zero. An all-zero actual series yields 0: a model that
// predicts nothing for a series of nothing is not penalized.
func MAPE(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}
	sum := 0.0
	n := 0
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs(actual[i]-predicted[i]) / math.Abs(actual[i])
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return 100 * sum / float64(n), nil
}

// RSquared is the raw coefficient of determination, 1 - SS_res/SS_tot. It is
// negative when the model is worse than predicting the mean; callers that
// want the display value should clamp with ClampRSquared but keep the raw
// value to distinguish "worse than baseline" from "flat predictions, flat
// data".
//
// When the actual series is constant (SS_tot == 0), RSquared is 1 if the
// predictions match exactly and 0 otherwise.
func RSquared(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}
	m := stat.Mean(actual, nil)
	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		r := actual[i] - predicted[i]
		ssRes += r * r
		d := actual[i] - m
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// ClampRSquared clamps a raw R-squared to [0,1] for display.
func ClampRSquared(r2 float64) float64 {
	if r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}

// DirectionalAccuracy is the percentage of steps whose direction of change
// matches between actual and predicted. Sequences shorter than 2 are an
// error; Report treats that case as 0.
func DirectionalAccuracy(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}
	if len(actual) < 2 {
		return 0, &InvalidInputError{Reason: "directional accuracy needs at least 2 points"}
	}
	hits := 0
	for i := 1; i < len(actual); i++ {
		if sign(actual[i]-actual[i-1]) == sign(predicted[i]-predicted[i-1]) {
			hits++
		}
	}
	return 100 * float64(hits) / float64(len(actual)-1), nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ConfidenceInterval computes elementwise 95% bounds around predictions from
// a mean squared error: pred +/- 1.96*sqrt(mse), lower floored at 0.
func ConfidenceInterval(predictions []float64, mse float64) (lower, upper []float64) {
	margin := 1.96 * math.Sqrt(math.Max(0, mse))
	lower = make([]float64, len(predictions))
	upper = make([]float64, len(predictions))
	for i, p := range predictions {
		lower[i] = math.Max(0, p-margin)
		upper[i] = p + margin
	}
	return lower, upper
}
