// Package backtest evaluates forecasting configurations on held-out history.
//
// A back-test splits a series chronologically, fits the candidate order on
// the older part, forecasts the length of the newer part, and scores the
// forecast against what actually happened. The resulting diagnosis is the
// mechanism by which a configuration (choice of d, D, s) is validated before
// it is used for production forecasts. Back-testing is expected to run
// offline, not inline with a user-facing request.
package backtest

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/epiwatch/epiforecast/metrics"
	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/timeseries"
	"github.com/epiwatch/epiforecast/validate"
)

// Diagnosis classifies a back-test outcome.
type Diagnosis string

const (
	// DiagnosisConstantPredictions: the forecast collapsed to a near-constant,
	// so R-squared is 0 for mathematical reasons. Try a differencing order
	// that lets the model track the trend.
	DiagnosisConstantPredictions Diagnosis = "constant predictions"
	// DiagnosisExplosion: predictions grew far beyond the historical range.
	// Usually over-differencing on a short series.
	DiagnosisExplosion Diagnosis = "prediction explosion"
	// DiagnosisGood: R-squared above 0.7 on held-out data.
	DiagnosisGood Diagnosis = "good model"
	// DiagnosisModerate: none of the above.
	DiagnosisModerate Diagnosis = "moderate model"
)

// Options configures a back-test run.
type Options struct {
	// SplitRatio is the fraction of the series used for training; the
	// remainder is the held-out test set. Time order is always preserved.
	SplitRatio float64
	// Validator is applied to the raw forecast before metrics are computed,
	// exactly as the production forecasting path applies it. Metrics scored
	// on unvalidated output would not describe what callers actually see.
	Validator validate.Config
	// Confidence is the forecast interval coverage.
	Confidence float64
}

// DefaultOptions returns the standard 80/20 split with production clamping.
func DefaultOptions() Options {
	return Options{
		SplitRatio: 0.8,
		Validator:  validate.ProductionConfig(),
		Confidence: sarima.DefaultConfidence,
	}
}

// Result is the outcome of back-testing one configuration. It is never
// persisted here; persistence belongs to external collaborators.
type Result struct {
	ID        uuid.UUID
	Order     sarima.Order
	Train     *timeseries.Series
	Test      *timeseries.Series
	Forecast  *sarima.Forecast
	Metrics   *metrics.Report
	Flags     validate.Flags
	Diagnosis Diagnosis
}

// Evaluate back-tests one order on the series: chronological split, fit,
// forecast the test length, validate, score against the held-out actuals.
//
// A training failure is an error for this configuration only; callers
// trying several orders should record it and move on.
func Evaluate(series *timeseries.Series, order sarima.Order, opts Options) (*Result, error) {
	if opts.SplitRatio <= 0 || opts.SplitRatio >= 1 {
		return nil, fmt.Errorf("split ratio must be in (0,1), got %v", opts.SplitRatio)
	}
	if min := timeseries.MinPoints(series.Granularity); series.Len() < min {
		return nil, &timeseries.InsufficientDataError{Required: min, Got: series.Len()}
	}

	nTrain := int(math.Round(float64(series.Len()) * opts.SplitRatio))
	if nTrain < 2 || nTrain >= series.Len() {
		return nil, fmt.Errorf("split ratio %v leaves no usable train/test partition for %d points",
			opts.SplitRatio, series.Len())
	}
	train := series.Slice(0, nTrain)
	test := series.Slice(nTrain, series.Len())

	model, err := sarima.Fit(train, order)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", order, err)
	}

	raw, err := model.ForecastWithConfidence(test.Len(), opts.Confidence)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", order, err)
	}

	forecast, flags := opts.Validator.Run(raw, train)

	report, err := metrics.NewReport(test.Values, forecast.Predictions)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", order, err)
	}

	return &Result{
		ID:        uuid.New(),
		Order:     order,
		Train:     train,
		Test:      test,
		Forecast:  forecast,
		Metrics:   report,
		Flags:     flags,
		Diagnosis: diagnose(report, flags),
	}, nil
}

// diagnose maps the flag/R-squared combination to a classification.
func diagnose(report *metrics.Report, flags validate.Flags) Diagnosis {
	switch {
	case report.RSquared == 0 && flags.Has(validate.FlagNearConstant):
		return DiagnosisConstantPredictions
	case report.RSquared == 0 && flags.Has(validate.FlagExplosion):
		return DiagnosisExplosion
	case report.RSquared > 0.7:
		return DiagnosisGood
	default:
		return DiagnosisModerate
	}
}
