// Package stats provides the statistical primitives behind model fitting and
// seasonality detection: sample autocorrelation (ACF/PACF), Yule-Walker
// estimation, a seasonal-strength measure, and the Ljung-Box residual test.
//
// Functions operate on plain float64 slices so they can be applied to raw
// values, differenced series, or residuals alike. All of them are pure.
package stats
