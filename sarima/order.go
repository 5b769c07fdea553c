package sarima

import "fmt"

// Order is a seasonal ARIMA model order (p,d,q)(P,D,Q)[s].
// S of 0 or 1 disables the seasonal terms regardless of SP/SD/SQ.
type Order struct {
	P int // non-seasonal AR order
	D int // non-seasonal differencing order
	Q int // non-seasonal MA order

	SP int // seasonal AR order
	SD int // seasonal differencing order
	SQ int // seasonal MA order
	S  int // seasonal period
}

// Seasonal reports whether the order carries active seasonal terms.
func (o Order) Seasonal() bool {
	return o.S > 1 && (o.SP > 0 || o.SD > 0 || o.SQ > 0)
}

// OverDifferenced reports whether total differencing exceeds the recommended
// ceiling of 2. Stacking differencing beyond that destroys signal on
// moderate-length series; this is advisory, not enforced.
func (o Order) OverDifferenced() bool {
	return o.D+o.SD > 2
}

func (o Order) String() string {
	if o.Seasonal() {
		return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.S)
	}
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Validate checks the order fields in isolation from any series.
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 || o.S < 0 {
		return &InvalidOrderError{Order: o, Reason: "order components must be non-negative"}
	}
	return nil
}

// InvalidOrderError reports a malformed model order. This is a caller error
// and is detected before any numeric work begins.
type InvalidOrderError struct {
	Order  Order
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order, e.Reason)
}

// TrainingError reports that fitting failed for this configuration: the
// optimizer did not converge, differencing consumed the series, or the
// seasonal period is incompatible with the series length. Recoverable by
// trying a different order.
type TrainingError struct {
	Order  Order
	Reason string
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("training failed for %s: %s", e.Order, e.Reason)
}

// InvalidParameterError reports a malformed call parameter such as a
// non-positive forecast horizon.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter: " + e.Reason
}
