package sarima

import (
	"math"

	"github.com/epiwatch/epiforecast/stats"
	"github.com/epiwatch/epiforecast/timeseries"
)

// Model is a trained seasonal ARIMA model. It is immutable once returned by
// Fit: all accessors hand out copies, and nothing mutates internal state, so
// a handle may be shared across goroutines and used for repeated forecasts.
type Model struct {
	order Order

	arCoeffs  []float64
	maCoeffs  []float64
	sarCoeffs []float64
	smaCoeffs []float64
	intercept float64
	variance  float64

	aic    float64
	aicc   float64
	bic    float64
	logLik float64

	origValues []float64
	diffValues []float64
	residuals  []float64
	fittedVals []float64

	trainLen int
	unstable bool
}

// Fit trains a seasonal ARIMA model of the given order on the series using
// conditional sum of squares estimation. The input series is not mutated.
//
// Short-series policy: fitting proceeds as long as the differenced series
// keeps at least 2 points. When the seasonal period exceeds half the series
// length the fit is accepted but marked unstable; when it reaches the full
// series length the fit is rejected outright.
func Fit(series *timeseries.Series, order Order) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	n := series.Len()
	if n < 2 {
		return nil, &TrainingError{Order: order, Reason: "series has fewer than 2 points"}
	}
	if order.S > 1 && order.S >= n {
		return nil, &TrainingError{Order: order, Reason: "seasonal period exceeds series length"}
	}

	m := &Model{
		order:     order,
		arCoeffs:  make([]float64, order.P),
		maCoeffs:  make([]float64, order.Q),
		sarCoeffs: make([]float64, seasonalCount(order, order.SP)),
		smaCoeffs: make([]float64, seasonalCount(order, order.SQ)),
		trainLen:  n,
		unstable:  order.S > 1 && order.S > n/2,
	}
	m.origValues = make([]float64, n)
	copy(m.origValues, series.Values)

	diff := series
	for i := 0; i < order.D; i++ {
		diff = diff.Diff()
	}
	if order.S > 1 {
		for i := 0; i < order.SD; i++ {
			diff = diff.SeasonalDiff(order.S)
		}
	}
	if diff.Len() < 2 {
		return nil, &TrainingError{Order: order, Reason: "differencing reduced the series below 2 points"}
	}
	m.diffValues = make([]float64, diff.Len())
	copy(m.diffValues, diff.Values)

	m.initCoeffs()
	if err := m.optimize(); err != nil {
		return nil, err
	}
	m.informationCriteria()
	return m, nil
}

// seasonalCount zeroes out seasonal orders when the period disables them.
func seasonalCount(order Order, k int) int {
	if order.S <= 1 {
		return 0
	}
	return k
}

// initCoeffs seeds AR terms from the autocorrelation structure of the
// differenced series and MA terms with small constants.
func (m *Model) initCoeffs() {
	y := m.diffValues

	if len(m.arCoeffs) > 0 {
		if acf := stats.ACF(y, len(m.arCoeffs)); acf != nil {
			if phi := stats.YuleWalker(acf, len(m.arCoeffs)); phi != nil {
				copy(m.arCoeffs, phi)
			}
		}
	}
	if len(m.sarCoeffs) > 0 {
		if acf := stats.ACF(y, len(m.sarCoeffs)*m.order.S); acf != nil {
			for i := range m.sarCoeffs {
				idx := (i + 1) * m.order.S
				if idx < len(acf) {
					m.sarCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.maCoeffs {
		m.maCoeffs[i] = 0.1
	}
	for i := range m.smaCoeffs {
		m.smaCoeffs[i] = 0.1
	}
}

// predictAt evaluates the one-step model equation at index t of y, reading
// past residuals from resid.
func (m *Model) predictAt(y, resid []float64, t, residLimit int) float64 {
	pred := m.intercept
	for i := 0; i < len(m.arCoeffs) && t-i-1 >= 0; i++ {
		pred += m.arCoeffs[i] * (y[t-i-1] - m.intercept)
	}
	for i := range m.sarCoeffs {
		lag := (i + 1) * m.order.S
		if t-lag >= 0 {
			pred += m.sarCoeffs[i] * (y[t-lag] - m.intercept)
		}
	}
	for i := 0; i < len(m.maCoeffs) && t-i-1 >= 0; i++ {
		if t-i-1 < residLimit {
			pred += m.maCoeffs[i] * resid[t-i-1]
		}
	}
	for i := range m.smaCoeffs {
		lag := (i + 1) * m.order.S
		if t-lag >= 0 && t-lag < residLimit {
			pred += m.smaCoeffs[i] * resid[t-lag]
		}
	}
	return pred
}

// optimize runs conditional-sum-of-squares gradient descent with momentum,
// keeping the best parameter set seen.
func (m *Model) optimize() error {
	y := m.diffValues
	n := len(y)
	p := len(m.arCoeffs)
	q := len(m.maCoeffs)
	sp := len(m.sarCoeffs)
	sq := len(m.smaCoeffs)
	period := m.order.S

	m.intercept = mean(y)

	const (
		maxIter      = 200
		tolerance    = 1e-8
		momentum     = 0.9
		decay        = 0.99
		patienceIter = 20
	)
	learningRate := 0.005

	startIdx := maxInt(maxInt(p, q), maxInt(sp*period, sq*period))
	if startIdx >= n-2 {
		startIdx = 0
	}

	arMom := make([]float64, p)
	maMom := make([]float64, q)
	sarMom := make([]float64, sp)
	smaMom := make([]float64, sq)

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		resid := make([]float64, n)
		sse := 0.0
		for t := startIdx; t < n; t++ {
			resid[t] = y[t] - m.predictAt(y, resid, t, n)
			sse += resid[t] * resid[t]
		}

		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return &TrainingError{Order: m.order, Reason: "optimizer diverged"}
		}

		if sse < bestSSE {
			if iter > 0 && bestSSE-sse < tolerance {
				bestSSE = sse
				copy(bestAR, m.arCoeffs)
				copy(bestMA, m.maCoeffs)
				copy(bestSAR, m.sarCoeffs)
				copy(bestSMA, m.smaCoeffs)
				break
			}
			bestSSE = sse
			copy(bestAR, m.arCoeffs)
			copy(bestMA, m.maCoeffs)
			copy(bestSAR, m.sarCoeffs)
			copy(bestSMA, m.smaCoeffs)
			noImprove = 0
		} else {
			noImprove++
			if noImprove > patienceIter {
				break
			}
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * resid[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < sp; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					sarGrad[i] -= 2 * resid[t] * (y[t-lag] - m.intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * resid[t] * resid[t-i-1]
			}
			for i := 0; i < sq; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					smaGrad[i] -= 2 * resid[t] * resid[t-lag]
				}
			}
		}

		step := func(coeffs, mom, grad []float64) {
			for i := range coeffs {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coeffs[i] = clamp(coeffs[i]-mom[i], -0.99, 0.99)
			}
		}
		step(m.arCoeffs, arMom, arGrad)
		step(m.sarCoeffs, sarMom, sarGrad)
		step(m.maCoeffs, maMom, maGrad)
		step(m.smaCoeffs, smaMom, smaGrad)

		learningRate *= decay
	}

	copy(m.arCoeffs, bestAR)
	copy(m.maCoeffs, bestMA)
	copy(m.sarCoeffs, bestSAR)
	copy(m.smaCoeffs, bestSMA)

	for _, cs := range [][]float64{m.arCoeffs, m.maCoeffs, m.sarCoeffs, m.smaCoeffs} {
		for _, c := range cs {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return &TrainingError{Order: m.order, Reason: "optimizer did not converge"}
			}
		}
	}

	// Final pass: residuals and fitted values over the whole differenced series.
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVals[t] = m.predictAt(y, m.residuals, t, n)
		m.residuals[t] = y[t] - m.fittedVals[t]
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	numParams := p + q + sp + sq + 1
	if count > numParams {
		m.variance = sse / float64(count-numParams)
	} else if count > 0 {
		m.variance = sse / float64(count)
	}
	if math.IsNaN(m.variance) || math.IsInf(m.variance, 0) {
		return &TrainingError{Order: m.order, Reason: "degenerate residual variance"}
	}
	return nil
}

// informationCriteria computes AIC, AICc, and BIC under Gaussian errors.
func (m *Model) informationCriteria() {
	n := len(m.residuals)
	k := len(m.arCoeffs) + len(m.maCoeffs) + len(m.sarCoeffs) + len(m.smaCoeffs) + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}
	if m.variance > 0 {
		m.logLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.variance) - sse/(2*m.variance)
	} else {
		m.logLik = math.Inf(-1)
	}

	kf, nf := float64(k), float64(n)
	m.aic = -2*m.logLik + 2*kf
	if nf-kf-1 > 0 {
		m.aicc = m.aic + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.aicc = math.Inf(1)
	}
	m.bic = -2*m.logLik + kf*math.Log(nf)
}

// Order returns the order the model was trained with.
func (m *Model) Order() Order { return m.order }

// TrainLen returns the length of the training series.
func (m *Model) TrainLen() int { return m.trainLen }

// Unstable reports whether the seasonal period exceeded half the training
// series length, a configuration expected to fit poorly.
func (m *Model) Unstable() bool { return m.unstable }

// Variance returns the residual variance estimate.
func (m *Model) Variance() float64 { return m.variance }

// AIC returns the Akaike information criterion.
func (m *Model) AIC() float64 { return m.aic }

// AICc returns the small-sample corrected AIC.
func (m *Model) AICc() float64 { return m.aicc }

// BIC returns the Bayesian information criterion.
func (m *Model) BIC() float64 { return m.bic }

// LogLik returns the Gaussian log-likelihood of the fit.
func (m *Model) LogLik() float64 { return m.logLik }

// Residuals returns a copy of the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the in-sample fitted values on the
// differenced scale.
func (m *Model) FittedValues() []float64 {
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// Coefficients returns copies of the fitted coefficient vectors
// (AR, MA, seasonal AR, seasonal MA).
func (m *Model) Coefficients() (ar, ma, sar, sma []float64) {
	ar = append([]float64(nil), m.arCoeffs...)
	ma = append([]float64(nil), m.maCoeffs...)
	sar = append([]float64(nil), m.sarCoeffs...)
	sma = append([]float64(nil), m.smaCoeffs...)
	return ar, ma, sar, sma
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
