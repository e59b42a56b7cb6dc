package predict

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/huangsam/greenscore/schema"
)

// MetricRegressor is a learned model that predicts one metric from a feature vector.
type MetricRegressor interface {
	Predict(vec schema.FeatureVector) (float64, error)
	Dimensions() int
}

// ErrIncompatibleModel is returned when a model expects a different feature dimensionality.
var ErrIncompatibleModel = errors.New("model dimensionality does not match feature vector")

// Registry maps metric names to learned regressors. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[schema.MetricName]MetricRegressor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[schema.MetricName]MetricRegressor)}
}

// Register installs or replaces the regressor for a metric.
func (r *Registry) Register(name schema.MetricName, model MetricRegressor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = model
}

// Lookup returns the regressor for a metric, if any.
func (r *Registry) Lookup(name schema.MetricName) (MetricRegressor, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns the metrics with a registered model, in AllMetricNames order.
func (r *Registry) Names() []schema.MetricName {
	var names []schema.MetricName
	for _, name := range schema.AllMetricNames {
		if _, ok := r.Lookup(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Evaluate runs the regressor for a metric. It fails when no model is
// registered, when the model is incompatible, or when the model itself fails.
func (r *Registry) Evaluate(name schema.MetricName, vec schema.FeatureVector) (float64, error) {
	model, ok := r.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("no model registered for %s", name)
	}
	return safePredict(model, vec)
}

// safePredict isolates a regressor so that a misbehaving model cannot fail an analysis.
func safePredict(model MetricRegressor, vec schema.FeatureVector) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = 0, fmt.Errorf("model panic: %v", r)
		}
	}()
	if model.Dimensions() != schema.FeatureLen {
		return 0, fmt.Errorf("%w: want %d, got %d", ErrIncompatibleModel, schema.FeatureLen, model.Dimensions())
	}
	value, err = model.Predict(vec)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("model returned non-finite value %v", value)
	}
	return value, nil
}
