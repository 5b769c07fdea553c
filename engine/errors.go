package engine

import "fmt"

// Code is the machine-readable error class surfaced to the request layer.
type Code string

const (
	// CodeInsufficientData: too few points to fit the requested order. The
	// caller must gather more history or reduce horizon/order.
	CodeInsufficientData Code = "INSUFFICIENT_DATA"
	// CodeInvalidOrder: malformed model order or horizon. Caller error.
	CodeInvalidOrder Code = "INVALID_ORDER"
	// CodeTrainingFailed: the optimizer did not converge for this
	// configuration. Recoverable by trying a different order.
	CodeTrainingFailed Code = "TRAINING_FAILED"
)

// Error is the fatal error surface returned to callers. Advisories
// (explosion clamped, near-constant) are not errors; they ride on a
// successful Response.
type Error struct {
	Code Code
	// MinimumRequired is set for CodeInsufficientData.
	MinimumRequired int
	Err             error
}

func (e *Error) Error() string {
	if e.Code == CodeInsufficientData && e.MinimumRequired > 0 {
		return fmt.Sprintf("%s (minimum %d): %v", e.Code, e.MinimumRequired, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
