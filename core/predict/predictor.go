package predict

import (
	"math"

	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
)

// Input is everything a prediction depends on.
type Input struct {
	Code     string
	Features schema.FeatureVector
	Language schema.Language
	Region   schema.Region

	// Factor overrides the static emission factor of Region when positive.
	Factor float64
}

// Predictor turns feature vectors into a MetricSet. The zero registry is valid
// and yields pure heuristics.
type Predictor struct {
	registry        *Registry
	estimator       EnergyEstimator
	modelGreenScore bool
	logger          logrus.FieldLogger
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithRegistry sets the learned models consulted for energy and CO2.
func WithRegistry(r *Registry) Option {
	return func(p *Predictor) { p.registry = r }
}

// WithEstimator sets the energy estimator used before the heuristic.
func WithEstimator(e EnergyEstimator) Option {
	return func(p *Predictor) { p.estimator = e }
}

// WithModelGreenScore lets a registered green score model replace the heuristic score.
func WithModelGreenScore(enabled bool) Option {
	return func(p *Predictor) { p.modelGreenScore = enabled }
}

// WithLogger sets the logger used to report model failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Predictor) { p.logger = l }
}

// New creates a Predictor.
func New(opts ...Option) *Predictor {
	p := &Predictor{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict computes every metric for an input. It never fails: model errors
// fall back to the heuristics.
func (p *Predictor) Predict(in Input) schema.MetricSet {
	factor := in.Factor
	if factor <= 0 {
		factor = schema.EmissionFactor(in.Region)
	}

	energy := p.energyWh(in.Features)
	co2 := CO2Grams(energy, factor)
	if v, ok := p.model(schema.MetricCO2, in.Features); ok {
		// Carbon labels are recorded against the US grid.
		co2 = math.Max(minCO2g, v*factor/schema.EmissionFactor(schema.USA))
	}

	score := HeuristicGreenScore(in.Features, in.Language)
	if p.modelGreenScore {
		if v, ok := p.model(schema.MetricGreenScore, in.Features); ok {
			score = round2(clamp(v, 0, 100))
		}
	}

	return schema.MetricSet{
		GreenScore:      score,
		EnergyWh:        energy,
		CO2g:            co2,
		CPUTimeMs:       HeuristicCPUTimeMs(in.Features),
		MemoryMB:        HeuristicMemoryMB(in.Features),
		ComplexityScore: round2(ComplexityScore(in.Code, in.Features, in.Language)),
		TimeComplexity:  TimeComplexity(in.Code, in.Language),
	}
}

func (p *Predictor) energyWh(vec schema.FeatureVector) float64 {
	if v, ok := p.model(schema.MetricEnergy, vec); ok {
		return math.Max(minEnergyWh, v)
	}
	if p.estimator != nil {
		if v, ok := p.estimator.EstimateWh(signalsOf(vec).controlFlow()); ok {
			return v
		}
	}
	return HeuristicEnergyWh(vec)
}

// model consults the registry and logs rather than propagates failures.
func (p *Predictor) model(name schema.MetricName, vec schema.FeatureVector) (float64, bool) {
	if _, ok := p.registry.Lookup(name); !ok {
		return 0, false
	}
	v, err := p.registry.Evaluate(name, vec)
	if err != nil {
		p.logger.WithError(err).WithField("metric", name).Warn("Falling back to heuristic")
		return 0, false
	}
	return v, true
}
