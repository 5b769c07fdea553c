package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/synthetic"
	"github.com/epiwatch/epiforecast/timeseries"
)

func testEngine() *Engine {
	return New(DefaultConfig(), zerolog.Nop())
}

func monthStart(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func monthlyPairs(start time.Time, counts []float64) []timeseries.Pair {
	pairs := make([]timeseries.Pair, len(counts))
	cur := start
	for i, c := range counts {
		pairs[i] = timeseries.Pair{Date: cur, Count: c}
		cur = cur.AddDate(0, 1, 0)
	}
	return pairs
}

func TestForecastResponseShape(t *testing.T) {
	counts := synthetic.Counts(7, synthetic.Params{N: 30, Period: 12, Base: 40, Trend: 0.5, Amplitude: 10, Noise: 2})
	req := Request{
		Pairs:       monthlyPairs(monthStart(2023, time.January), counts),
		Granularity: timeseries.Monthly,
		Horizon:     6,
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)

	require.Len(t, resp.Predictions, 6)
	assert.Equal(t, ModelVersion, resp.ModelVersion)

	// Predictions start the interval after the last observation and advance
	// one month per step.
	assert.Equal(t, monthStart(2025, time.July), resp.Predictions[0].Date)
	assert.Equal(t, monthStart(2025, time.December), resp.Predictions[5].Date)

	for i, p := range resp.Predictions {
		assert.Equal(t, 0.95, p.ConfidenceLevel, "step %d", i)
		assert.GreaterOrEqual(t, p.LowerBound, 0.0)
		assert.LessOrEqual(t, p.LowerBound, p.PredictedCount)
		assert.GreaterOrEqual(t, p.UpperBound, p.PredictedCount)
		assert.Equal(t, p.PredictedCount, float64(int(p.PredictedCount)), "counts are whole numbers")
	}
}

func TestForecastWarnsOnOverDifferencedOrder(t *testing.T) {
	// Total differencing beyond 2 is allowed but risky; the engine logs an
	// advisory before fitting. On a perfectly linear history every extra
	// difference is exactly zero, so the forecast still extends the line.
	var buf bytes.Buffer
	eng := New(DefaultConfig(), zerolog.New(&buf))

	counts := make([]float64, 30)
	for i := range counts {
		counts[i] = float64(5 + 2*i)
	}
	req := Request{
		Pairs:       monthlyPairs(monthStart(2023, time.January), counts),
		Granularity: timeseries.Monthly,
		Horizon:     2,
		Order:       &sarima.Order{P: 1, D: 3, Q: 0, S: 1},
	}

	resp, err := eng.Forecast(req)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "total differencing exceeds 2"),
		"over-differenced order must be logged")

	require.Len(t, resp.Predictions, 2)
	assert.Equal(t, 65.0, resp.Predictions[0].PredictedCount)
	assert.Equal(t, 67.0, resp.Predictions[1].PredictedCount)
}

func TestForecastDetectsIncreasingTrend(t *testing.T) {
	counts := make([]float64, 24)
	for i := range counts {
		counts[i] = float64(5 + 2*i)
	}
	req := Request{
		Pairs:       monthlyPairs(monthStart(2023, time.January), counts),
		Granularity: timeseries.Monthly,
		Horizon:     3,
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	assert.Equal(t, TrendIncreasing, resp.Trend)
}

func TestForecastDetectsStableTrend(t *testing.T) {
	counts := []float64{8, 9, 8, 9, 8, 9, 8, 9, 8, 9, 8, 9}
	req := Request{
		Pairs:       monthlyPairs(monthStart(2024, time.January), counts),
		Granularity: timeseries.Monthly,
		Horizon:     2,
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, resp.Trend)
}

func TestForecastMergesEventsAndPairs(t *testing.T) {
	// Two raw event timestamps in January plus an imported total of 3 for the
	// same month must bucket to a combined count of 5.
	events := []time.Time{
		time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 20, 16, 30, 0, 0, time.UTC),
	}
	pairs := monthlyPairs(monthStart(2024, time.January), []float64{3, 4, 6, 5, 7, 6})

	req := Request{Events: events, Pairs: pairs, Granularity: timeseries.Monthly, Horizon: 2}
	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	require.Len(t, resp.Predictions, 2)
	// First forecast step follows the last pair's month.
	assert.Equal(t, monthStart(2024, time.July), resp.Predictions[0].Date)
}

func TestForecastInsufficientData(t *testing.T) {
	req := Request{
		Pairs:       monthlyPairs(monthStart(2025, time.January), []float64{3, 4}),
		Granularity: timeseries.Monthly,
		Horizon:     3,
	}

	_, err := testEngine().Forecast(req)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeInsufficientData, engineErr.Code)
	assert.Equal(t, timeseries.MinMonthlyPoints, engineErr.MinimumRequired)
	assert.Contains(t, engineErr.Error(), "minimum 5")
}

func TestForecastInvalidHorizon(t *testing.T) {
	req := Request{Granularity: timeseries.Monthly, Horizon: 0}

	_, err := testEngine().Forecast(req)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeInvalidOrder, engineErr.Code)
}

func TestForecastInvalidOrderOverride(t *testing.T) {
	req := Request{
		Pairs:       monthlyPairs(monthStart(2024, time.January), []float64{3, 4, 6, 5, 7, 6}),
		Granularity: timeseries.Monthly,
		Horizon:     2,
		Order:       &sarima.Order{P: -1, S: 1},
	}

	_, err := testEngine().Forecast(req)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeInvalidOrder, engineErr.Code)

	var invalid *sarima.InvalidOrderError
	assert.ErrorAs(t, err, &invalid, "the underlying cause stays reachable")
}

func TestForecastTrainingFailure(t *testing.T) {
	// Seasonal period longer than the series itself.
	req := Request{
		Pairs:       monthlyPairs(monthStart(2024, time.January), []float64{3, 4, 6, 5, 7, 6}),
		Granularity: timeseries.Monthly,
		Horizon:     2,
		Order:       &sarima.Order{P: 1, SP: 1, S: 24},
	}

	_, err := testEngine().Forecast(req)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeTrainingFailed, engineErr.Code)
}

func TestForecastSkipsHoldoutForShortSeries(t *testing.T) {
	req := Request{
		Pairs:       monthlyPairs(monthStart(2024, time.January), []float64{3, 4, 6, 5, 7, 6}),
		Granularity: timeseries.Monthly,
		Horizon:     2,
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	assert.Nil(t, resp.Metrics, "6 points is below the hold-out threshold")
}

func TestForecastAttachesHoldoutMetrics(t *testing.T) {
	counts := synthetic.Counts(11, synthetic.Params{N: 30, Period: 12, Base: 40, Trend: 0.5, Amplitude: 10, Noise: 2})
	req := Request{
		Pairs:       monthlyPairs(monthStart(2023, time.January), counts),
		Granularity: timeseries.Monthly,
		Horizon:     3,
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	if assert.NotNil(t, resp.Metrics) {
		assert.GreaterOrEqual(t, resp.Metrics.RMSE, 0.0)
		assert.GreaterOrEqual(t, resp.Metrics.RSquared, 0.0)
		assert.LessOrEqual(t, resp.Metrics.RSquared, 1.0)
	}
}

func TestForecastSeasonalityDetection(t *testing.T) {
	seasonal := synthetic.Counts(3, synthetic.Params{N: 36, Period: 12, Base: 50, Amplitude: 25, Noise: 1})
	req := Request{
		Pairs:       monthlyPairs(monthStart(2022, time.January), seasonal),
		Granularity: timeseries.Monthly,
		Horizon:     3,
		Order:       &sarima.Order{P: 1, D: 0, Q: 1, SP: 1, SD: 0, SQ: 1, S: 12},
	}

	resp, err := testEngine().Forecast(req)
	require.NoError(t, err)
	assert.True(t, resp.SeasonalityDetected)
}

func TestDefaultOrder(t *testing.T) {
	daily := DefaultOrder(timeseries.Daily, 60)
	assert.Equal(t, sarima.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, S: 7}, daily)

	longMonthly := DefaultOrder(timeseries.Monthly, 30)
	assert.Equal(t, 12, longMonthly.S)

	shortMonthly := DefaultOrder(timeseries.Monthly, 12)
	assert.Equal(t, 1, shortMonthly.S, "short monthly series gets a non-seasonal order")
	assert.Equal(t, 1, shortMonthly.D)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	body := "confidence: 0.9\nvalidator:\n  explosion_multiplier: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Confidence)
	assert.Equal(t, 8.0, cfg.Validator.ExplosionMultiplier)
	// Keys not named keep their defaults.
	assert.Equal(t, 10, cfg.MinBacktestPoints)
	assert.Equal(t, 0.05, cfg.TrendEpsilon)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
