// Package engine is the request/response surface the surrounding application
// consumes, over an in-process or RPC boundary it defines. It wires the
// pipeline end to end: series building, model fitting, forecasting,
// validation/clamping, and hold-out accuracy scoring.
//
// Fatal failures come back as *Error with a machine-readable Code. Forecast
// pathologies that were corrected or merely detected come back as Advisories
// on a successful Response; they never abort the pipeline.
package engine
