package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/greenscore/core/features"
	"github.com/huangsam/greenscore/core/lang"
	"github.com/huangsam/greenscore/core/optimize"
	"github.com/huangsam/greenscore/core/predict"
	"github.com/huangsam/greenscore/core/suggest"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
)

// ErrInvalidInput reports a caller error, such as a language outside the supported set.
var ErrInvalidInput = errors.New("invalid input")

// ModelLoader loads learned regressors once, on first use.
type ModelLoader func(ctx context.Context) (*predict.Registry, error)

// Observer is notified of every completed analysis and optimization.
type Observer interface {
	ObserveAnalysis(result *schema.AnalysisResult, elapsed time.Duration)
	ObserveOptimization(result *schema.OptimizationResult, elapsed time.Duration)
}

// Analyzer is the analysis context: it owns the model cache and every
// dependency of analyze and optimize. It is safe for concurrent use.
type Analyzer struct {
	registry        *predict.Registry
	loader          ModelLoader
	loadOnce        sync.Once
	predictor       *predict.Predictor
	energyModel     schema.EnergyModel
	modelGreenScore bool

	emission contract.EmissionFactorSource
	recorder contract.HistoryStore
	observer Observer
	logger   logrus.FieldLogger

	suggester *suggest.Engine
	optimizer *optimize.Optimizer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRegistry sets learned models directly. A model loader, when also set,
// adds to this registry.
func WithRegistry(r *predict.Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithModelLoader sets the loader consulted once before the first prediction.
func WithModelLoader(l ModelLoader) Option {
	return func(a *Analyzer) { a.loader = l }
}

// WithEmissionSource sets the live emission factor lookup.
func WithEmissionSource(s contract.EmissionFactorSource) Option {
	return func(a *Analyzer) { a.emission = s }
}

// WithRecorder stores every analysis in the history.
func WithRecorder(h contract.HistoryStore) Option {
	return func(a *Analyzer) { a.recorder = h }
}

// WithObserver reports analyses to an observer such as a metrics collector.
func WithObserver(o Observer) Option {
	return func(a *Analyzer) { a.observer = o }
}

// WithLogger sets the logger shared with the predictor and optimizer.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithEnergyModel selects the energy estimation strategy.
func WithEnergyModel(m schema.EnergyModel) Option {
	return func(a *Analyzer) { a.energyModel = m }
}

// WithModelGreenScore lets a learned green score model replace the heuristic score.
func WithModelGreenScore(enabled bool) Option {
	return func(a *Analyzer) { a.modelGreenScore = enabled }
}

// WithOptimizer replaces the default optimizer, e.g. to bound its workers.
func WithOptimizer(o *optimize.Optimizer) Option {
	return func(a *Analyzer) { a.optimizer = o }
}

// NewAnalyzer creates an Analyzer. Models are not loaded until first use.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		energyModel: schema.HeuristicEnergy,
		logger:      logrus.StandardLogger(),
		suggester:   suggest.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.optimizer == nil {
		a.optimizer = optimize.New(optimize.WithLogger(a.logger))
	}
	return a
}

// ensureModels loads the learned models on the first call only. Loader
// failures leave the heuristics in charge.
func (a *Analyzer) ensureModels(ctx context.Context) {
	a.loadOnce.Do(func() {
		registry := a.registry
		if a.loader != nil {
			loaded, err := a.loader(ctx)
			switch {
			case err != nil:
				a.logger.WithError(err).Warn("Failed to load models, using heuristics")
			case registry == nil:
				registry = loaded
			case loaded != nil:
				for _, name := range loaded.Names() {
					model, _ := loaded.Lookup(name)
					registry.Register(name, model)
				}
			}
		}
		if registry.Len() > 0 {
			a.logger.WithField("models", registry.Names()).Debug("Using learned models")
		}
		a.predictor = predict.New(
			predict.WithRegistry(registry),
			predict.WithEstimator(predict.EstimatorFor(a.energyModel)),
			predict.WithModelGreenScore(a.modelGreenScore),
			predict.WithLogger(a.logger),
		)
	})
}

// DetectLanguage guesses the language of a code sample.
func (a *Analyzer) DetectLanguage(code string) schema.Language {
	return lang.Detect(code)
}

// resolveLanguage detects an empty language and rejects unsupported ones.
func (a *Analyzer) resolveLanguage(code string, language schema.Language) (schema.Language, error) {
	if language == "" {
		return a.DetectLanguage(code), nil
	}
	if _, ok := schema.ValidLanguages[language]; !ok {
		return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, language)
	}
	return language, nil
}

// factor returns the live emission factor when a source is configured and answers.
func (a *Analyzer) factor(ctx context.Context, region schema.Region) float64 {
	if a.emission == nil {
		return 0
	}
	if f, ok := a.emission.Factor(ctx, region); ok {
		return f
	}
	return 0
}

func (a *Analyzer) metrics(code string, language schema.Language, region schema.Region, factor float64) schema.MetricSet {
	return a.predictor.Predict(predict.Input{
		Code:     code,
		Features: features.Extract(code, language),
		Language: language,
		Region:   region,
		Factor:   factor,
	})
}

// Analyze scores a code sample. An empty language is detected. The only
// errors are a done context and an unsupported language.
func (a *Analyzer) Analyze(ctx context.Context, code string, language schema.Language, region schema.Region) (*schema.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	language, err := a.resolveLanguage(code, language)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	a.ensureModels(ctx)

	metrics := a.metrics(code, language, region, a.factor(ctx, region))
	result := &schema.AnalysisResult{
		Language:        language,
		Region:          region,
		Metrics:         metrics,
		Suggestions:     a.suggester.Suggest(code, language, metrics),
		RealWorldImpact: Impact(metrics),
		AnalysisDetails: Details(code, metrics),
	}

	a.record(ctx, code, result)
	if a.observer != nil {
		a.observer.ObserveAnalysis(result, time.Since(start))
	}
	return result, nil
}

// Optimize rewrites a code sample and compares the metrics before and after.
// An empty language is detected.
func (a *Analyzer) Optimize(ctx context.Context, code string, language schema.Language, region schema.Region) (*schema.OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	language, err := a.resolveLanguage(code, language)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	a.ensureModels(ctx)

	outcome, err := a.optimizer.Optimize(ctx, code, language)
	if err != nil {
		return nil, err
	}

	factor := a.factor(ctx, region)
	before := a.metrics(code, language, region, factor)
	after := a.metrics(outcome.Code, language, region, factor)
	changed := optimize.Changed(code, outcome.Code)

	applied := outcome.Applied
	if applied == nil {
		applied = []string{}
	}
	result := &schema.OptimizationResult{
		DetectedLanguage:              language,
		AnalysisSummary:               summarize(language, before, after, changed, len(applied)),
		OriginalCode:                  code,
		OptimizedCode:                 outcome.Code,
		CodeChanged:                   changed,
		ComparisonTable:               BuildComparisonTable(before, after),
		ImprovementsExplanation:       optimize.Explain(code, outcome.Code),
		ExpectedGreenScoreImprovement: roundTo(after.GreenScore-before.GreenScore, 2),
		OriginalMetrics:               before,
		OptimizedMetrics:              after,
		AppliedRules:                  applied,
	}

	if a.observer != nil {
		a.observer.ObserveOptimization(result, time.Since(start))
	}
	return result, nil
}

func summarize(language schema.Language, before, after schema.MetricSet, changed bool, rules int) string {
	if !changed {
		return fmt.Sprintf("Analyzed %s code: green score %.2f (%s). No optimizations were applied.",
			language, before.GreenScore, schema.GetPlainLabel(before.GreenScore))
	}
	return fmt.Sprintf("Analyzed %s code: green score %.2f (%s) -> %.2f (%s) after %d optimization rule(s).",
		language, before.GreenScore, schema.GetPlainLabel(before.GreenScore),
		after.GreenScore, schema.GetPlainLabel(after.GreenScore), rules)
}

// record stores the analysis when a recorder is set. Failures are logged, not returned.
func (a *Analyzer) record(ctx context.Context, code string, result *schema.AnalysisResult) {
	if a.recorder == nil {
		return
	}
	rec := schema.AnalysisRecord{
		RunID:           runIDFrom(ctx),
		Source:          sourceFrom(ctx),
		Language:        result.Language,
		Region:          result.Region,
		AnalyzedAt:      time.Now().UTC(),
		CodeLength:      len(code),
		GreenScore:      result.Metrics.GreenScore,
		EnergyWh:        result.Metrics.EnergyWh,
		CO2g:            result.Metrics.CO2g,
		CPUTimeMs:       result.Metrics.CPUTimeMs,
		MemoryMB:        result.Metrics.MemoryMB,
		ComplexityScore: result.Metrics.ComplexityScore,
		TimeComplexity:  result.Metrics.TimeComplexity,
		SuggestionCount: len(result.Suggestions),
		HighSeverity:    countSeverity(result.Suggestions, schema.SeverityHigh),
	}
	if _, err := a.recorder.Record(ctx, rec); err != nil {
		a.logger.WithError(err).WithField("source", rec.Source).Warn("Failed to record analysis")
	}
}

func countSeverity(suggestions []schema.Suggestion, severity schema.Severity) int {
	n := 0
	for _, s := range suggestions {
		if s.Severity == severity {
			n++
		}
	}
	return n
}
