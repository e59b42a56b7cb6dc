package predict

import "github.com/huangsam/greenscore/schema"

// EnergyEstimator converts a control-flow complexity proxy into watt-hours.
// It reports false when it cannot produce a positive estimate.
type EnergyEstimator interface {
	EstimateWh(complexity float64) (float64, bool)
}

// PowerModel estimates energy as a constant power draw over a runtime that
// grows linearly with complexity.
type PowerModel struct {
	Watts          float64 // average package power draw
	SecondsPerUnit float64 // runtime per unit of complexity
}

// DefaultPowerModel is a 50 W draw at one millisecond per complexity unit.
var DefaultPowerModel = PowerModel{Watts: 50, SecondsPerUnit: 0.001}

// EstimateWh implements EnergyEstimator.
func (p PowerModel) EstimateWh(complexity float64) (float64, bool) {
	wh := p.Watts * complexity * p.SecondsPerUnit / 3600
	if wh <= 0 {
		return 0, false
	}
	return wh, true
}

// EstimatorFor returns the estimator of an energy model, or nil for the heuristic.
func EstimatorFor(model schema.EnergyModel) EnergyEstimator {
	if model == schema.PowerEnergy {
		return DefaultPowerModel
	}
	return nil
}
