package timeseries

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFromPairsFillsGaps(t *testing.T) {
	pairs := []Pair{
		{Date: date(2025, time.March, 1), Count: 3},
		{Date: date(2025, time.March, 5), Count: 2},
	}
	s, err := FromPairs(pairs, Daily, 1)
	require.NoError(t, err)

	require.Equal(t, 5, s.Len())
	assert.Equal(t, []float64{3, 0, 0, 0, 2}, s.Values)
	for i := 1; i < s.Len(); i++ {
		assert.True(t, s.Timestamps[i].After(s.Timestamps[i-1]), "timestamps must be strictly increasing")
	}
}

func TestFromPairsMergesSources(t *testing.T) {
	// Two sources reporting the same interval are summed, including rows
	// that fall on different days of the same month at monthly granularity.
	pairs := []Pair{
		{Date: date(2025, time.January, 3), Count: 4},
		{Date: date(2025, time.January, 20), Count: 6},
		{Date: date(2025, time.February, 1), Count: 1},
		{Date: date(2025, time.March, 15), Count: 2},
	}
	s, err := FromPairs(pairs, Monthly, 3)
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{10, 1, 2}, s.Values)
	assert.Equal(t, date(2025, time.January, 1), s.Timestamps[0])
}

func TestFromPairsUnsortedInput(t *testing.T) {
	pairs := []Pair{
		{Date: date(2025, time.June, 3), Count: 1},
		{Date: date(2025, time.June, 1), Count: 5},
		{Date: date(2025, time.June, 2), Count: 2},
	}
	s, err := FromPairs(pairs, Daily, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2, 1}, s.Values)
}

func TestFromPairsNegativeCount(t *testing.T) {
	pairs := []Pair{{Date: date(2025, time.June, 1), Count: -1}}
	_, err := FromPairs(pairs, Daily, 1)
	require.Error(t, err)
}

func TestFromPairsInsufficientData(t *testing.T) {
	pairs := []Pair{
		{Date: date(2025, time.January, 1), Count: 1},
		{Date: date(2025, time.February, 1), Count: 1},
	}
	_, err := FromPairs(pairs, Monthly, 0)
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, MinMonthlyPoints, insufficient.Required)
	assert.Equal(t, 2, insufficient.Got)
}

func TestFromEventsCountsPerInterval(t *testing.T) {
	events := []time.Time{
		date(2025, time.May, 1).Add(9 * time.Hour),
		date(2025, time.May, 1).Add(15 * time.Hour),
		date(2025, time.May, 3),
	}
	s, err := FromEvents(events, Daily, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 1}, s.Values)
}

func TestMonthlyGapAcrossYearBoundary(t *testing.T) {
	pairs := []Pair{
		{Date: date(2024, time.November, 10), Count: 1},
		{Date: date(2025, time.February, 10), Count: 1},
	}
	s, err := FromPairs(pairs, Monthly, 1)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	assert.Equal(t, date(2024, time.December, 1), s.Timestamps[1])
	assert.Equal(t, date(2025, time.January, 1), s.Timestamps[2])
}

func TestDiffAndSeasonalDiff(t *testing.T) {
	s := FromCounts([]float64{1, 3, 6, 10, 15}, Monthly, date(2025, time.January, 1))

	d := s.Diff()
	assert.Equal(t, []float64{2, 3, 4, 5}, d.Values)
	assert.Equal(t, s.Timestamps[1], d.Timestamps[0])

	sd := s.SeasonalDiff(2)
	assert.Equal(t, []float64{5, 7, 9}, sd.Values)

	empty := s.SeasonalDiff(10)
	assert.Equal(t, 0, empty.Len())
}

func TestSliceAndCopyAreIndependent(t *testing.T) {
	s := FromCounts([]float64{1, 2, 3, 4}, Daily, date(2025, time.January, 1))
	sl := s.Slice(1, 3)
	require.Equal(t, []float64{2, 3}, sl.Values)

	sl.Values[0] = 99
	assert.Equal(t, float64(2), s.Values[1], "slice must not alias the source")
}

func TestSummaryStats(t *testing.T) {
	s := FromCounts([]float64{2, 4, 6, 8}, Daily, date(2025, time.January, 1))
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 2.0, s.Min(), 1e-12)
	assert.InDelta(t, 8.0, s.Max(), 1e-12)
	assert.InDelta(t, 20.0/3.0, s.Variance(), 1e-12)
}

func TestMovingAverage(t *testing.T) {
	s := FromCounts([]float64{1, 2, 3, 4, 5}, Daily, date(2025, time.January, 1))
	ma := s.MovingAverage(3)
	assert.Equal(t, []float64{2, 3, 4}, ma.Values)
}

func TestFutureTimestamps(t *testing.T) {
	s := FromCounts([]float64{1, 2, 3}, Monthly, date(2025, time.October, 1))
	future := s.FutureTimestamps(3)
	require.Len(t, future, 3)
	assert.Equal(t, date(2026, time.January, 1), future[0])
	assert.Equal(t, date(2026, time.March, 1), future[2])
}

func TestFromPairsUnknownGranularity(t *testing.T) {
	_, err := FromPairs([]Pair{{Date: date(2025, time.January, 1), Count: 1}}, Granularity("weekly"), 1)
	require.Error(t, err)

	var insufficient *InsufficientDataError
	assert.False(t, errors.As(err, &insufficient))
}
