package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SeasonalStrengthCutoff is the conventional threshold above which a series
// is treated as seasonal (Hyndman & Athanasopoulos, ch. 12).
const SeasonalStrengthCutoff = 0.64

// SeasonalStrength measures the strength of seasonality at the given period:
// F_S = max(0, 1 - Var(R)/Var(S+R)) where S and R are the seasonal and
// residual components of an additive decomposition. Returns 0 when the series
// spans fewer than two full periods.
func SeasonalStrength(values []float64, period int) float64 {
	n := len(values)
	if period <= 1 || n < 2*period {
		return 0
	}

	trend := centeredMovingAverage(values, period)

	// Detrended values, bucketed by phase within the period.
	phaseSums := make([]float64, period)
	phaseCounts := make([]int, period)
	detrended := make([]float64, n)
	for i := range values {
		if math.IsNaN(trend[i]) {
			detrended[i] = math.NaN()
			continue
		}
		detrended[i] = values[i] - trend[i]
		phaseSums[i%period] += detrended[i]
		phaseCounts[i%period]++
	}

	seasonal := make([]float64, period)
	for p := 0; p < period; p++ {
		if phaseCounts[p] > 0 {
			seasonal[p] = phaseSums[p] / float64(phaseCounts[p])
		}
	}

	var resid, seasPlusResid []float64
	for i := range values {
		if math.IsNaN(detrended[i]) {
			continue
		}
		r := detrended[i] - seasonal[i%period]
		resid = append(resid, r)
		seasPlusResid = append(seasPlusResid, r+seasonal[i%period])
	}
	if len(resid) < 2 {
		return 0
	}

	varR := stat.Variance(resid, nil)
	varSR := stat.Variance(seasPlusResid, nil)
	if varSR == 0 {
		return 0
	}

	strength := 1 - varR/varSR
	if strength < 0 {
		return 0
	}
	return strength
}

// centeredMovingAverage estimates the trend component. Positions without a
// full window are NaN. Even periods use the standard 2xm average.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		}
	}
	return out
}
