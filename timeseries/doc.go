// Package timeseries builds and manipulates fixed-interval count series.
//
// A Series is the input to every other package in this module: a
// chronologically ordered, gap-free sequence of non-negative counts at daily
// or monthly granularity. Builders accept either raw event timestamps
// (counted per interval) or pre-aggregated (date, count) pairs from multiple
// sources (summed per interval), and fill every unobserved interval between
// the earliest and latest date with a zero count.
//
//	series, err := timeseries.FromPairs(pairs, timeseries.Monthly, 0)
//	if err != nil {
//		var insufficient *timeseries.InsufficientDataError
//		if errors.As(err, &insufficient) {
//			// gather more history
//		}
//	}
//
// All builders and transforms are pure: they never mutate their inputs and
// always return fresh slices.
package timeseries
