package engine

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/epiwatch/epiforecast/backtest"
	"github.com/epiwatch/epiforecast/metrics"
	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/stats"
	"github.com/epiwatch/epiforecast/timeseries"
	"github.com/epiwatch/epiforecast/validate"
)

// ModelVersion identifies the forecasting implementation in persisted output.
const ModelVersion = "sarima-css-1.0"

// Trend is the overall direction of the historical series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Advisory is a non-fatal warning attached to a successful forecast. Callers
// decide how to surface them: UI banner, metric, or silently.
type Advisory string

const (
	AdvisoryExplosionClamped Advisory = "EXPLOSION_CLAMPED"
	AdvisoryNearConstant     Advisory = "NEAR_CONSTANT_WARNING"
)

// Request is a forecast request from the surrounding application. Events and
// Pairs may both be present; they are merged by date with counts summed, so
// completed-appointment timestamps and imported spreadsheet statistics
// combine into one series.
type Request struct {
	Events      []time.Time
	Pairs       []timeseries.Pair
	Granularity timeseries.Granularity
	Horizon     int
	// Order overrides the default model order for the granularity.
	Order *sarima.Order
}

// PredictedPoint is one forecast step in the shape persisted by the storage
// collaborator and rendered by the UI collaborator.
type PredictedPoint struct {
	Date            time.Time `json:"date"`
	PredictedCount  float64   `json:"predicted_count"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	ConfidenceLevel float64   `json:"confidence_level"`
}

// Response is a successful forecast.
type Response struct {
	Predictions         []PredictedPoint `json:"predictions"`
	ModelVersion        string           `json:"model_version"`
	Metrics             *metrics.Report  `json:"accuracy_metrics,omitempty"`
	Trend               Trend            `json:"trend"`
	SeasonalityDetected bool             `json:"seasonality_detected"`
	Advisories          []Advisory       `json:"advisories,omitempty"`
}

// Engine runs the full forecasting pipeline: series building, fitting,
// forecasting, validation, and hold-out accuracy scoring. Each call is
// independent; an Engine may serve concurrent callers.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New creates an engine with the given policy and logger.
func New(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// DefaultOrder picks the library-chosen order for a granularity. Daily data
// gets the full weekly-seasonal order. Monthly data gets a yearly-seasonal
// order only when the series spans at least two seasonal cycles; shorter
// monthly series fall back to a simple non-seasonal trend-following order.
func DefaultOrder(g timeseries.Granularity, seriesLen int) sarima.Order {
	if g == timeseries.Daily {
		return sarima.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, S: 7}
	}
	if seriesLen >= 24 {
		return sarima.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 0, SQ: 1, S: 12}
	}
	return sarima.Order{P: 1, D: 1, Q: 1, S: 1}
}

// Forecast runs the pipeline for one request.
func (e *Engine) Forecast(req Request) (*Response, error) {
	if req.Horizon < 1 {
		return nil, &Error{Code: CodeInvalidOrder, Err: &sarima.InvalidParameterError{Reason: "horizon must be positive"}}
	}

	series, err := e.buildSeries(req)
	if err != nil {
		return nil, err
	}

	order := DefaultOrder(req.Granularity, series.Len())
	if req.Order != nil {
		order = *req.Order
	}
	if order.OverDifferenced() {
		e.log.Warn().
			Stringer("order", order).
			Msg("total differencing exceeds 2; forecasts from this order are prone to instability")
	}

	model, err := sarima.Fit(series, order)
	if err != nil {
		var invalid *sarima.InvalidOrderError
		if errors.As(err, &invalid) {
			return nil, &Error{Code: CodeInvalidOrder, Err: err}
		}
		return nil, &Error{Code: CodeTrainingFailed, Err: err}
	}
	if model.Unstable() {
		e.log.Warn().
			Stringer("order", order).
			Int("series_len", series.Len()).
			Msg("seasonal period exceeds half the series length; fit may be unstable")
	}

	raw, err := model.ForecastWithConfidence(req.Horizon, e.cfg.Confidence)
	if err != nil {
		return nil, &Error{Code: CodeInvalidOrder, Err: err}
	}

	forecast, flags := e.cfg.Validator.Run(raw, series)

	var advisories []Advisory
	if flags.Has(validate.FlagExplosion) {
		advisories = append(advisories, AdvisoryExplosionClamped)
		e.log.Warn().Stringer("order", order).Msg("forecast explosion clamped")
	}
	if flags.Has(validate.FlagNearConstant) {
		advisories = append(advisories, AdvisoryNearConstant)
		e.log.Warn().Stringer("order", order).Msg("near-constant forecast")
	}

	dates := series.FutureTimestamps(req.Horizon)
	points := make([]PredictedPoint, req.Horizon)
	for i := range points {
		points[i] = PredictedPoint{
			Date:            dates[i],
			PredictedCount:  forecast.Predictions[i],
			LowerBound:      forecast.Lower[i],
			UpperBound:      forecast.Upper[i],
			ConfidenceLevel: forecast.Confidence,
		}
	}

	resp := &Response{
		Predictions:         points,
		ModelVersion:        ModelVersion,
		Metrics:             e.holdoutMetrics(series, order),
		Trend:               e.trend(series),
		SeasonalityDetected: e.seasonality(series, order),
		Advisories:          advisories,
	}

	e.log.Info().
		Stringer("order", order).
		Int("series_len", series.Len()).
		Int("horizon", req.Horizon).
		Str("trend", string(resp.Trend)).
		Bool("seasonality", resp.SeasonalityDetected).
		Msg("forecast produced")

	return resp, nil
}

// buildSeries merges event timestamps and pre-aggregated pairs into one
// gap-free series.
func (e *Engine) buildSeries(req Request) (*timeseries.Series, error) {
	pairs := make([]timeseries.Pair, 0, len(req.Events)+len(req.Pairs))
	for _, t := range req.Events {
		pairs = append(pairs, timeseries.Pair{Date: t, Count: 1})
	}
	pairs = append(pairs, req.Pairs...)

	series, err := timeseries.FromPairs(pairs, req.Granularity, 0)
	if err != nil {
		var insufficient *timeseries.InsufficientDataError
		if errors.As(err, &insufficient) {
			return nil, &Error{Code: CodeInsufficientData, MinimumRequired: insufficient.Required, Err: err}
		}
		return nil, &Error{Code: CodeInvalidOrder, Err: err}
	}
	return series, nil
}

// holdoutMetrics back-tests the chosen order on the request's own history to
// attach accuracy metrics to the response. Skipped for short series; a
// failed hold-out run never fails the forecast.
func (e *Engine) holdoutMetrics(series *timeseries.Series, order sarima.Order) *metrics.Report {
	if series.Len() < e.cfg.MinBacktestPoints {
		return nil
	}
	run, err := backtest.Evaluate(series, order, backtest.Options{
		SplitRatio: 0.8,
		Validator:  e.cfg.Validator,
		Confidence: e.cfg.Confidence,
	})
	if err != nil {
		e.log.Debug().Err(err).Stringer("order", order).Msg("hold-out evaluation skipped")
		return nil
	}
	return run.Metrics
}

// trend classifies the series direction from the slope of a least-squares
// line over the whole history.
func (e *Engine) trend(series *timeseries.Series) Trend {
	if series.Len() < 2 {
		return TrendStable
	}
	xs := make([]float64, series.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series.Values, nil, false)
	switch {
	case slope > e.cfg.TrendEpsilon:
		return TrendIncreasing
	case slope < -e.cfg.TrendEpsilon:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// seasonality reports whether the series shows a seasonal pattern at the
// model's period (or the granularity's natural period for non-seasonal
// orders).
func (e *Engine) seasonality(series *timeseries.Series, order sarima.Order) bool {
	period := order.S
	if period <= 1 {
		if series.Granularity == timeseries.Daily {
			period = 7
		} else {
			period = 12
		}
	}
	return stats.SeasonalStrength(series.Values, period) >= e.cfg.SeasonalStrengthCutoff
}
