// Package epiforecast provides seasonal time-series forecasting and evaluation
// for public-health count data (disease cases, health-card issuances).
//
// The engine ingests historical counts per fixed interval, fits a seasonal
// ARIMA model, produces multi-step forecasts with uncertainty bounds, guards
// those forecasts against pathological outputs (explosive growth, collapse to
// a constant), and scores forecast quality with accuracy metrics used both for
// production reporting and for back-testing model configurations before
// deployment.
//
// # Quick Start
//
// Forecast through the engine:
//
//	eng := engine.New(engine.DefaultConfig(), logger)
//	resp, err := eng.Forecast(engine.Request{
//		Pairs:       pairs,
//		Granularity: timeseries.Monthly,
//		Horizon:     6,
//	})
//
// Back-test a candidate order before trusting it in production:
//
//	run, err := backtest.Evaluate(series, sarima.Order{P: 1, D: 1, Q: 1, S: 1}, backtest.DefaultOptions())
//	fmt.Println(run.Diagnosis)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: gap-free count series construction and utilities
//   - sarima: seasonal ARIMA fitting and interval forecasting
//   - validate: forecast pathology detection and clamping
//   - metrics: forecast accuracy metrics and interpretation bands
//   - backtest: hold-out evaluation and diagnosis of model configurations
//   - engine: the request/response surface consumed by the application layer
//   - stats: autocorrelation, seasonal strength, and residual diagnostics
//   - synthetic: deterministic seeded fixtures for exercising the pipeline
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package epiforecast
