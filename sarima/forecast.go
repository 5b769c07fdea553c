package sarima

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/epiwatch/epiforecast/stats"
)

// DefaultConfidence is the nominal coverage of forecast intervals when the
// caller does not choose one.
const DefaultConfidence = 0.95

// Forecast holds multi-step point predictions with per-step standard-error
// estimates and confidence bounds. Invariant: Lower[i] <= Predictions[i] <=
// Upper[i] and Lower[i] >= 0 for all i.
//
// StdErrs are the raw step-wise error estimates; they grow with horizon for
// differenced models but can stay flat for seasonal models with a stable
// seasonal pattern, so callers must not assume monotonic growth.
type Forecast struct {
	Predictions []float64
	StdErrs     []float64
	Lower       []float64
	Upper       []float64
	Confidence  float64
}

// Copy returns a deep copy of the forecast.
func (f *Forecast) Copy() *Forecast {
	return &Forecast{
		Predictions: append([]float64(nil), f.Predictions...),
		StdErrs:     append([]float64(nil), f.StdErrs...),
		Lower:       append([]float64(nil), f.Lower...),
		Upper:       append([]float64(nil), f.Upper...),
		Confidence:  f.Confidence,
	}
}

// Forecast produces horizon point predictions with 95% confidence bounds.
func (m *Model) Forecast(horizon int) (*Forecast, error) {
	return m.ForecastWithConfidence(horizon, DefaultConfidence)
}

// ForecastWithConfidence produces horizon point predictions with bounds at
// the given confidence level in (0,1). Point predictions and the lower bound
// are floored at 0, since counts cannot be negative.
//
// Pathological outputs (explosion, near-constant collapse) are not rejected
// here; that is the validate package's job.
func (m *Model) ForecastWithConfidence(horizon int, confidence float64) (*Forecast, error) {
	if horizon < 1 {
		return nil, &InvalidParameterError{Reason: "horizon must be at least 1"}
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, &InvalidParameterError{Reason: "confidence must be in (0,1)"}
	}

	y := m.diffValues
	n := len(y)

	extY := make([]float64, n+horizon)
	copy(extY, y)
	extResid := make([]float64, n+horizon)
	copy(extResid, m.residuals)

	// Iterated one-step predictions on the differenced scale; future
	// residuals have expectation 0.
	for h := 0; h < horizon; h++ {
		t := n + h
		extY[t] = m.predictAt(extY, extResid, t, n)
	}

	predictions := make([]float64, horizon)
	copy(predictions, extY[n:])
	predictions = m.integrate(predictions)
	for h := range predictions {
		predictions[h] = math.Max(0, predictions[h])
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + confidence) / 2)

	stdErrs := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	base := math.Sqrt(m.variance)
	for h := 0; h < horizon; h++ {
		se := base
		if m.order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.order.SD > 0 && m.order.S > 1 {
			se *= math.Sqrt(float64(h/m.order.S + 1))
		}
		stdErrs[h] = se
		lower[h] = math.Max(0, predictions[h]-z*se)
		upper[h] = predictions[h] + z*se
	}

	return &Forecast{
		Predictions: predictions,
		StdErrs:     stdErrs,
		Lower:       lower,
		Upper:       upper,
		Confidence:  confidence,
	}, nil
}

// integrate undoes differencing to bring forecasts back to the count scale.
// Fit differences non-seasonally first, then seasonally, so integration
// undoes seasonal differencing first.
func (m *Model) integrate(forecasts []float64) []float64 {
	d := m.order.D
	sd := m.order.SD
	period := m.order.S
	if period <= 1 {
		sd = 0
	}
	original := m.origValues

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	// Non-seasonally differenced history at every level, needed as the seed
	// for seasonal integration (innermost level) and for each non-seasonal
	// integration step.
	stages := [][]float64{original}
	nonSeasonal := original
	for i := 0; i < d; i++ {
		if len(nonSeasonal) <= 1 {
			break
		}
		next := make([]float64, len(nonSeasonal)-1)
		for j := 1; j < len(nonSeasonal); j++ {
			next[j-1] = nonSeasonal[j] - nonSeasonal[j-1]
		}
		nonSeasonal = next
		stages = append(stages, nonSeasonal)
	}

	// Undo seasonal differencing: y_t = z_t + y_{t-s}.
	if sd > 0 {
		nDiff := len(nonSeasonal)
		for i := 0; i < sd; i++ {
			for j := range result {
				if j < period {
					idx := nDiff - period + j
					if idx >= 0 && idx < nDiff {
						result[j] += nonSeasonal[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	// Undo non-seasonal differencing from the innermost level out. Each level
	// seeds its cumulative sum with the last value of its own differenced
	// history, not the last raw observation.
	for i := d - 1; i >= 0; i-- {
		hist := stages[len(stages)-1]
		if i < len(stages) {
			hist = stages[i]
		}
		lastVal := hist[len(hist)-1]
		for j := range result {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

// Summary is a read-only view of a fitted model for reporting.
type Summary struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	Unstable  bool
	LjungBox  *stats.LjungBoxResult
}

// Summary reports the fitted coefficients, information criteria, and a
// Ljung-Box residual diagnostic.
func (m *Model) Summary() *Summary {
	ar, ma, sar, sma := m.Coefficients()
	fitDF := len(ar) + len(ma) + len(sar) + len(sma)
	return &Summary{
		Order:     m.order,
		ARCoeffs:  ar,
		MACoeffs:  ma,
		SARCoeffs: sar,
		SMACoeffs: sma,
		Intercept: m.intercept,
		Variance:  m.variance,
		AIC:       m.aic,
		AICc:      m.aicc,
		BIC:       m.bic,
		LogLik:    m.logLik,
		NObs:      m.trainLen,
		Unstable:  m.unstable,
		LjungBox:  stats.LjungBox(m.Residuals(), 10, fitDF),
	}
}
