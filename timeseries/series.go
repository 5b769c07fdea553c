package timeseries

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Granularity is the fixed interval between consecutive series points.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// Default minimum series lengths required by the back-testing harness.
const (
	MinDailyPoints   = 14
	MinMonthlyPoints = 5
)

// MinPoints returns the default minimum series length for a granularity.
func MinPoints(g Granularity) int {
	if g == Daily {
		return MinDailyPoints
	}
	return MinMonthlyPoints
}

// Point is a single observation: an interval timestamp and its event count.
type Point struct {
	Timestamp time.Time
	Count     float64
}

// Series is a chronologically ordered, gap-free count series. Timestamps are
// strictly increasing with exactly one point per interval; intervals with no
// observed events carry a zero count.
type Series struct {
	Timestamps  []time.Time
	Values      []float64
	Granularity Granularity
}

// InsufficientDataError reports a series too short for the requested use.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d points, got %d", e.Required, e.Got)
}

// FromCounts builds a series from consecutive interval counts starting at start.
func FromCounts(values []float64, g Granularity, start time.Time) *Series {
	timestamps := make([]time.Time, len(values))
	vs := make([]float64, len(values))
	copy(vs, values)
	t := bucket(start, g)
	for i := range timestamps {
		timestamps[i] = t
		t = next(t, g)
	}
	return &Series{Timestamps: timestamps, Values: vs, Granularity: g}
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Points returns the series as timestamped points.
func (s *Series) Points() []Point {
	pts := make([]Point, len(s.Values))
	for i, v := range s.Values {
		pts[i] = Point{Timestamp: s.Timestamps[i], Count: v}
	}
	return pts
}

// Mean returns the arithmetic mean of the series values.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance returns the sample variance of the series values.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std returns the sample standard deviation of the series values.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Diff returns the first difference of the series.
func (s *Series) Diff() *Series {
	return s.lagDiff(1)
}

// SeasonalDiff returns the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m)
}

func (s *Series) lagDiff(k int) *Series {
	if k <= 0 || len(s.Values) <= k {
		return &Series{Granularity: s.Granularity}
	}
	values := make([]float64, len(s.Values)-k)
	for i := k; i < len(s.Values); i++ {
		values[i-k] = s.Values[i] - s.Values[i-k]
	}
	timestamps := make([]time.Time, len(values))
	copy(timestamps, s.Timestamps[k:])
	return &Series{Timestamps: timestamps, Values: values, Granularity: s.Granularity}
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Granularity: s.Granularity}
	}
	values := make([]float64, end-start)
	copy(values, s.Values[start:end])
	timestamps := make([]time.Time, end-start)
	copy(timestamps, s.Timestamps[start:end])
	return &Series{Timestamps: timestamps, Values: values, Granularity: s.Granularity}
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, len(s.Values))
}

// MovingAverage returns the simple moving average with the given window.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Values) {
		return &Series{Granularity: s.Granularity}
	}
	values := make([]float64, len(s.Values)-window+1)
	sum := floats.Sum(s.Values[:window])
	values[0] = sum / float64(window)
	for i := window; i < len(s.Values); i++ {
		sum += s.Values[i] - s.Values[i-window]
		values[i-window+1] = sum / float64(window)
	}
	timestamps := make([]time.Time, len(values))
	copy(timestamps, s.Timestamps[window-1:])
	return &Series{Timestamps: timestamps, Values: values, Granularity: s.Granularity}
}

// FutureTimestamps returns the timestamps of the next horizon intervals after
// the end of the series.
func (s *Series) FutureTimestamps(horizon int) []time.Time {
	if horizon <= 0 || len(s.Timestamps) == 0 {
		return nil
	}
	out := make([]time.Time, horizon)
	t := s.Timestamps[len(s.Timestamps)-1]
	for i := 0; i < horizon; i++ {
		t = next(t, s.Granularity)
		out[i] = t
	}
	return out
}
