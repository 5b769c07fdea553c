package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult holds the Ljung-Box portmanteau test for residual
// autocorrelation. The null hypothesis is that residuals are independently
// distributed; a small p-value indicates remaining autocorrelation the model
// failed to capture.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DF        int
}

// LjungBox runs the Ljung-Box test on residuals at the given number of lags.
// fitDF is the number of parameters estimated by the model, subtracted from
// the degrees of freedom. Returns nil when the test is not computable.
func LjungBox(residuals []float64, lags, fitDF int) *LjungBoxResult {
	n := len(residuals)
	if n < 3 || lags <= 0 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	df := lags - fitDF
	if df < 1 {
		df = 1
	}

	chi2 := distuv.ChiSquared{K: float64(df)}
	p := chi2.Survival(q)
	if math.IsNaN(p) {
		return nil
	}

	return &LjungBoxResult{Statistic: q, PValue: p, Lags: lags, DF: df}
}
