// Package sarima fits seasonal ARIMA models to count series and generates
// multi-step forecasts with uncertainty bounds.
//
// An Order (p,d,q)(P,D,Q)[s] with s of 0 or 1 degenerates to a plain
// non-seasonal ARIMA model, so one code path serves both.
//
//	model, err := sarima.Fit(series, sarima.Order{P: 1, D: 1, Q: 1, S: 1})
//	if err != nil {
//		// *InvalidOrderError or *TrainingError
//	}
//	fc, err := model.Forecast(7)
//
// Estimation is conditional sum of squares with AR terms seeded from the
// Yule-Walker equations and refined by momentum gradient descent. The
// differencing orders decide what the model can track: non-zero d follows a
// trend, d of 0 assumes stationarity around the mean.
//
// A Model is immutable after Fit and owned by the caller that created it;
// fits and forecasts for different handles may run concurrently without
// synchronization.
package sarima
