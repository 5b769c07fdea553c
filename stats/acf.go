package stats

import (
	"gonum.org/v1/gonum/stat"
)

// ACF computes the sample autocorrelation function up to maxLag.
// The result has maxLag+1 entries with acf[0] == 1. Returns nil when the
// series is shorter than 2 points, maxLag is not positive, or the series has
// zero variance (autocorrelation is undefined on a constant series).
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if n < 2 || maxLag <= 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(values, nil)
	var c0 float64
	for _, v := range values {
		d := v - mean
		c0 += d * d
	}
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	for k := 1; k <= maxLag; k++ {
		var ck float64
		for t := k; t < n; t++ {
			ck += (values[t] - mean) * (values[t-k] - mean)
		}
		acf[k] = ck / c0
	}
	return acf
}

// PACF computes the partial autocorrelation function up to maxLag using the
// Durbin-Levinson recursion. The result has maxLag+1 entries with pacf[0] == 1.
func PACF(values []float64, maxLag int) []float64 {
	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}
	maxLag = len(acf) - 1

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([]float64, maxLag+1)
	prev := make([]float64, maxLag+1)

	for k := 1; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= prev[j] * acf[k-j]
			den -= prev[j] * acf[j]
		}
		if den == 0 {
			break
		}
		phi[k] = num / den
		for j := 1; j < k; j++ {
			phi[j] = prev[j] - phi[k]*prev[k-j]
		}
		pacf[k] = phi[k]
		copy(prev, phi)
	}
	return pacf
}

// YuleWalker solves the Yule-Walker equations for AR coefficients of the
// given order from an autocorrelation sequence (acf[0] == 1, len > order).
// Uses the Levinson-Durbin recursion.
func YuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
