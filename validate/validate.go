// Package validate post-processes raw forecasts, detecting and correcting
// numerically pathological outputs before they reach callers.
//
// Two pathologies are covered. Explosion: predictions grow far beyond any
// plausible range implied by history; offending values are flagged and
// clamped to the bound. Near-constant collapse: predictions converge to
// nearly one number; this is flagged but never clamped, because a genuinely
// flat demand signal is valid. The flag warns that R-squared on held-out data
// will be ~0 for purely mathematical reasons, not necessarily because the
// model is wrong.
package validate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/timeseries"
)

// Flag identifies a forecast pathology.
type Flag string

const (
	FlagExplosion    Flag = "EXPLOSION"
	FlagNearConstant Flag = "NEAR_CONSTANT"
)

// Flags is the set of pathologies detected in one forecast.
type Flags map[Flag]bool

// Has reports whether the flag is set.
func (f Flags) Has(flag Flag) bool { return f[flag] }

// Config holds the validator thresholds. The explosion multiplier serves two
// distinct purposes with different values: production forecasts clamp at 5x
// the historical maximum, while back-test harnesses flag diagnostically at
// 10x. The two must stay independently configurable.
type Config struct {
	ExplosionMultiplier float64 `yaml:"explosion_multiplier"`
	NearConstantStdDev  float64 `yaml:"near_constant_stddev"`
}

// ProductionConfig is the clamping policy applied to live forecasts.
func ProductionConfig() Config {
	return Config{ExplosionMultiplier: 5, NearConstantStdDev: 1.0}
}

// DiagnosticConfig is the looser flagging policy used by test harnesses.
func DiagnosticConfig() Config {
	return Config{ExplosionMultiplier: 10, NearConstantStdDev: 1.0}
}

// Run validates a raw forecast against the history that produced it,
// returning a corrected copy and the set of detected pathologies. The input
// forecast is not mutated.
//
// All returned predictions are rounded to the nearest non-negative integer;
// counts are whole quantities. Bounds are adjusted so that
// lower <= prediction <= upper and lower >= 0 still hold after correction.
func (c Config) Run(raw *sarima.Forecast, hist *timeseries.Series) (*sarima.Forecast, Flags) {
	out := raw.Copy()
	flags := Flags{}

	if len(out.Predictions) == 0 {
		return out, flags
	}

	// Explosion: clamp anything above historical max times the multiplier.
	if hist != nil && hist.Len() > 0 && c.ExplosionMultiplier > 0 {
		bound := hist.Max() * c.ExplosionMultiplier
		for i, p := range out.Predictions {
			if p > bound {
				flags[FlagExplosion] = true
				out.Predictions[i] = bound
			}
		}
	}

	// Near-constant: diagnostic only, measured before integer rounding.
	if len(out.Predictions) >= 2 {
		if math.Sqrt(stat.Variance(out.Predictions, nil)) < c.NearConstantStdDev {
			flags[FlagNearConstant] = true
		}
	} else if len(out.Predictions) == 1 {
		flags[FlagNearConstant] = true
	}

	for i := range out.Predictions {
		out.Predictions[i] = math.Max(0, math.Round(out.Predictions[i]))
		out.Lower[i] = math.Max(0, math.Min(out.Lower[i], out.Predictions[i]))
		out.Upper[i] = math.Max(out.Upper[i], out.Predictions[i])
	}

	return out, flags
}
