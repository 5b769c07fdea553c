package backtest

import (
	"sync"

	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/timeseries"
)

// GridEntry is the outcome for one candidate order in a grid evaluation.
// Exactly one of Result and Err is set.
type GridEntry struct {
	Order  sarima.Order
	Result *Result
	Err    error
}

// EvaluateGrid back-tests every candidate order and reports all outcomes,
// including per-order training failures. Runs are independent, so they are
// evaluated concurrently; results come back in input order.
func EvaluateGrid(series *timeseries.Series, orders []sarima.Order, opts Options) []GridEntry {
	entries := make([]GridEntry, len(orders))

	var wg sync.WaitGroup
	for i, order := range orders {
		wg.Add(1)
		go func(i int, order sarima.Order) {
			defer wg.Done()
			result, err := Evaluate(series, order, opts)
			entries[i] = GridEntry{Order: order, Result: result, Err: err}
		}(i, order)
	}
	wg.Wait()

	return entries
}

// Best returns the entry with the highest held-out R-squared among runs that
// produced a good or moderate diagnosis, or nil when every run failed or
// collapsed.
func Best(entries []GridEntry) *GridEntry {
	var best *GridEntry
	for i := range entries {
		e := &entries[i]
		if e.Err != nil {
			continue
		}
		if e.Result.Diagnosis == DiagnosisConstantPredictions || e.Result.Diagnosis == DiagnosisExplosion {
			continue
		}
		if best == nil || e.Result.Metrics.RSquared > best.Result.Metrics.RSquared {
			best = e
		}
	}
	return best
}
