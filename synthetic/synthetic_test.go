package synthetic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiwatch/epiforecast/timeseries"
)

func TestCountsIsDeterministic(t *testing.T) {
	p := Params{N: 50, Period: 7, Base: 15, Trend: 0.3, Amplitude: 8, Noise: 2}

	first := Counts(42, p)
	second := Counts(42, p)
	assert.Equal(t, first, second, "same seed, same series")

	other := Counts(43, p)
	assert.NotEqual(t, first, other, "different seed must perturb the noise")
}

func TestCountsAreWholeAndNonNegative(t *testing.T) {
	values := Counts(7, Params{N: 40, Period: 12, Base: 2, Trend: -0.5, Amplitude: 5, Noise: 3})
	require.Len(t, values, 40)
	for i, v := range values {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.Equal(t, v, float64(int(v)), "index %d", i)
	}
}

func TestCountsWithoutSeasonOrNoise(t *testing.T) {
	values := Counts(1, Params{N: 5, Base: 10, Trend: 1})
	assert.Equal(t, []float64{10, 11, 12, 13, 14}, values)
}

func TestSeriesCarriesGranularity(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := Series(9, Params{N: 20, Base: 5}, timeseries.Daily, start)

	require.Equal(t, 20, s.Len())
	assert.Equal(t, timeseries.Daily, s.Granularity)
	assert.Equal(t, start, s.Timestamps[0])
	assert.Equal(t, start.AddDate(0, 0, 19), s.Timestamps[19])
}
