package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/timeseries"
)

func history(values []float64) *timeseries.Series {
	return timeseries.FromCounts(values, timeseries.Daily, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
}

func rawForecast(preds []float64) *sarima.Forecast {
	n := len(preds)
	fc := &sarima.Forecast{
		Predictions: preds,
		StdErrs:     make([]float64, n),
		Lower:       make([]float64, n),
		Upper:       make([]float64, n),
		Confidence:  0.95,
	}
	for i, p := range preds {
		fc.Lower[i] = p - 2
		fc.Upper[i] = p + 2
	}
	return fc
}

func TestRunClampsExplosionToBound(t *testing.T) {
	hist := history([]float64{10, 20, 15, 18})
	raw := rawForecast([]float64{30, 250, 1e6})

	out, flags := ProductionConfig().Run(raw, hist)

	require.True(t, flags.Has(FlagExplosion))
	// Bound is historical max times the production multiplier: 20 * 5.
	assert.Equal(t, 30.0, out.Predictions[0])
	assert.Equal(t, 100.0, out.Predictions[1])
	assert.Equal(t, 100.0, out.Predictions[2], "clamped to exactly the bound, not scaled")
}

func TestRunDiagnosticMultiplierIsIndependent(t *testing.T) {
	hist := history([]float64{10, 20, 15, 18})
	raw := rawForecast([]float64{30, 150, 150})

	// 150 exceeds 5x max but not 10x max.
	out, flags := DiagnosticConfig().Run(raw, hist)
	assert.False(t, flags.Has(FlagExplosion))
	assert.Equal(t, 150.0, out.Predictions[1])

	out, flags = ProductionConfig().Run(raw, hist)
	assert.True(t, flags.Has(FlagExplosion))
	assert.Equal(t, 100.0, out.Predictions[1])
}

func TestRunFlagsNearConstantWithoutClamping(t *testing.T) {
	hist := history([]float64{5, 9, 7, 8})
	raw := rawForecast([]float64{6.1, 6.2, 6.1, 6.2, 6.1})

	out, flags := ProductionConfig().Run(raw, hist)

	assert.True(t, flags.Has(FlagNearConstant))
	assert.False(t, flags.Has(FlagExplosion))
	// Values are rounded but never altered beyond that.
	assert.Equal(t, []float64{6, 6, 6, 6, 6}, out.Predictions)
}

func TestRunVariedPredictionsNotFlagged(t *testing.T) {
	hist := history([]float64{5, 9, 7, 8})
	raw := rawForecast([]float64{4, 9, 5, 10, 6})

	_, flags := ProductionConfig().Run(raw, hist)
	assert.Empty(t, flags)
}

func TestRunSinglePredictionFlaggedNearConstant(t *testing.T) {
	_, flags := ProductionConfig().Run(rawForecast([]float64{7}), history([]float64{5, 6, 7}))
	assert.True(t, flags.Has(FlagNearConstant))
}

func TestRunRoundsAndFloorsPredictions(t *testing.T) {
	hist := history([]float64{5, 9, 7, 8})
	raw := rawForecast([]float64{-3.2, 0.4, 2.6, 7.5})

	out, _ := ProductionConfig().Run(raw, hist)
	assert.Equal(t, []float64{0, 0, 3, 8}, out.Predictions)
}

func TestRunKeepsBoundsConsistent(t *testing.T) {
	hist := history([]float64{10, 20, 15})
	raw := rawForecast([]float64{-5, 3.4, 500})

	out, _ := ProductionConfig().Run(raw, hist)

	require.Len(t, out.Lower, 3)
	for i := range out.Predictions {
		assert.GreaterOrEqual(t, out.Lower[i], 0.0, "step %d", i)
		assert.LessOrEqual(t, out.Lower[i], out.Predictions[i], "step %d", i)
		assert.GreaterOrEqual(t, out.Upper[i], out.Predictions[i], "step %d", i)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	hist := history([]float64{10, 20, 15})
	raw := rawForecast([]float64{500.7, 3.2})
	before := append([]float64(nil), raw.Predictions...)

	out, _ := ProductionConfig().Run(raw, hist)

	assert.Equal(t, before, raw.Predictions, "validator must work on a copy")
	assert.NotEqual(t, raw.Predictions, out.Predictions)
}

func TestRunEmptyForecast(t *testing.T) {
	out, flags := ProductionConfig().Run(rawForecast(nil), history([]float64{1, 2, 3}))
	assert.Empty(t, flags)
	assert.Empty(t, out.Predictions)
}
