package metrics

import "gonum.org/v1/gonum/stat"

// Interpretation is a qualitative accuracy band.
type Interpretation string

const (
	Excellent Interpretation = "excellent"
	Good      Interpretation = "good"
	Fair      Interpretation = "fair"
	Poor      Interpretation = "poor"
)

// LowVarianceCutoff is the actual-series variance (in count units) below
// which R-squared stops being meaningful: a model predicting near-flat data
// cannot explain variance that is not there, so MAPE is interpreted instead.
const LowVarianceCutoff = 5.0

// InterpretRSquared maps R-squared to a band: >= 0.9 excellent, >= 0.8 good,
// >= 0.6 fair, else poor.
func InterpretRSquared(r2 float64) Interpretation {
	switch {
	case r2 >= 0.9:
		return Excellent
	case r2 >= 0.8:
		return Good
	case r2 >= 0.6:
		return Fair
	default:
		return Poor
	}
}

// InterpretMAPE maps MAPE to a band: < 10% excellent, < 20% good, < 50% fair,
// else poor.
func InterpretMAPE(mape float64) Interpretation {
	switch {
	case mape < 10:
		return Excellent
	case mape < 20:
		return Good
	case mape < 50:
		return Fair
	default:
		return Poor
	}
}

// Report bundles the full metric battery for one actual/predicted pair.
// RSquared is clamped to [0,1] for display; RSquaredRaw keeps the unclamped
// value so a worse-than-baseline model remains distinguishable.
type Report struct {
	MSE                 float64        `json:"mse" yaml:"mse"`
	RMSE                float64        `json:"rmse" yaml:"rmse"`
	MAE                 float64        `json:"mae" yaml:"mae"`
	MAPE                float64        `json:"mape" yaml:"mape"`
	RSquared            float64        `json:"r_squared" yaml:"r_squared"`
	RSquaredRaw         float64        `json:"r_squared_raw" yaml:"r_squared_raw"`
	DirectionalAccuracy float64        `json:"directional_accuracy" yaml:"directional_accuracy"`
	Interpretation      Interpretation `json:"interpretation" yaml:"interpretation"`
}

// NewReport computes every metric for the pair. The interpretation band is
// chosen from R-squared normally, and from MAPE when the actual series has
// variance below LowVarianceCutoff. Directional accuracy is reported as 0 for
// pairs shorter than 2 points.
func NewReport(actual, predicted []float64) (*Report, error) {
	mse, err := MSE(actual, predicted)
	if err != nil {
		return nil, err
	}
	rmse, err := RMSE(actual, predicted)
	if err != nil {
		return nil, err
	}
	mae, err := MAE(actual, predicted)
	if err != nil {
		return nil, err
	}
	mape, err := MAPE(actual, predicted)
	if err != nil {
		return nil, err
	}
	raw, err := RSquared(actual, predicted)
	if err != nil {
		return nil, err
	}
	da, err := DirectionalAccuracy(actual, predicted)
	if err != nil {
		da = 0
	}

	r2 := ClampRSquared(raw)
	interp := InterpretRSquared(r2)
	if len(actual) >= 2 && stat.Variance(actual, nil) < LowVarianceCutoff {
		interp = InterpretMAPE(mape)
	}

	return &Report{
		MSE:                 mse,
		RMSE:                rmse,
		MAE:                 mae,
		MAPE:                mape,
		RSquared:            r2,
		RSquaredRaw:         raw,
		DirectionalAccuracy: da,
		Interpretation:      interp,
	}, nil
}
