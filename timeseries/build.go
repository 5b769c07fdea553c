package timeseries

import (
	"fmt"
	"time"
)

// Pair is a pre-aggregated (date, count) observation from one source.
type Pair struct {
	Date  time.Time
	Count float64
}

// FromEvents builds a gap-free series by counting events per interval.
// minPoints <= 0 selects the default minimum for the granularity.
func FromEvents(events []time.Time, g Granularity, minPoints int) (*Series, error) {
	pairs := make([]Pair, len(events))
	for i, t := range events {
		pairs[i] = Pair{Date: t, Count: 1}
	}
	return FromPairs(pairs, g, minPoints)
}

// FromPairs builds a gap-free series from (date, count) pairs, merging entries
// that fall in the same interval by summing their counts. Pairs may come from
// multiple sources and need not be sorted. Every interval between the earliest
// and latest observed date is present in the result; unobserved intervals
// carry a zero count.
func FromPairs(pairs []Pair, g Granularity, minPoints int) (*Series, error) {
	if g != Daily && g != Monthly {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
	if minPoints <= 0 {
		minPoints = MinPoints(g)
	}
	if len(pairs) == 0 {
		return nil, &InsufficientDataError{Required: minPoints, Got: 0}
	}

	counts := make(map[time.Time]float64, len(pairs))
	var first, last time.Time
	for _, p := range pairs {
		if p.Count < 0 {
			return nil, fmt.Errorf("negative count %v at %s", p.Count, p.Date.Format("2006-01-02"))
		}
		b := bucket(p.Date, g)
		counts[b] += p.Count
		if first.IsZero() || b.Before(first) {
			first = b
		}
		if last.IsZero() || b.After(last) {
			last = b
		}
	}

	var timestamps []time.Time
	var values []float64
	for t := first; !t.After(last); t = next(t, g) {
		timestamps = append(timestamps, t)
		values = append(values, counts[t])
	}

	if len(values) < minPoints {
		return nil, &InsufficientDataError{Required: minPoints, Got: len(values)}
	}
	return &Series{Timestamps: timestamps, Values: values, Granularity: g}, nil
}

// bucket truncates a timestamp to the start of its interval in UTC.
func bucket(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	if g == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// next advances a bucket timestamp by one interval.
func next(t time.Time, g Granularity) time.Time {
	if g == Monthly {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}
