package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/epiwatch/epiforecast/stats"
	"github.com/epiwatch/epiforecast/validate"
)

// Config holds the engine's tunable policy knobs.
type Config struct {
	// Confidence is the nominal forecast interval coverage.
	Confidence float64 `yaml:"confidence"`
	// Validator is the clamping policy applied to live forecasts.
	Validator validate.Config `yaml:"validator"`
	// TrendEpsilon is the per-interval regression slope below which the
	// series is called stable.
	TrendEpsilon float64 `yaml:"trend_epsilon"`
	// SeasonalStrengthCutoff is the seasonal-strength threshold for
	// reporting detected seasonality.
	SeasonalStrengthCutoff float64 `yaml:"seasonal_strength_cutoff"`
	// MinBacktestPoints is the series length below which the engine skips
	// the internal hold-out evaluation that produces accuracy metrics.
	MinBacktestPoints int `yaml:"min_backtest_points"`
}

// DefaultConfig returns the production policy.
func DefaultConfig() Config {
	return Config{
		Confidence:             0.95,
		Validator:              validate.ProductionConfig(),
		TrendEpsilon:           0.05,
		SeasonalStrengthCutoff: stats.SeasonalStrengthCutoff,
		MinBacktestPoints:      10,
	}
}

// LoadConfig reads a YAML config file over the defaults, so a file needs to
// name only the keys it overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
