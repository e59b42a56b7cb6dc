// Package core has core logic for analysis, optimization and policy checks.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/greenscore/core/lang"
	"github.com/huangsam/greenscore/core/optimize"
	"github.com/huangsam/greenscore/core/predict"
	"github.com/huangsam/greenscore/internal/carbon"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/learn"
	"github.com/huangsam/greenscore/schema"
	"golang.org/x/sync/errgroup"
)

// NewAnalyzerFromConfig wires an Analyzer to the validated config and the
// configured stores. Extra options are applied last.
func NewAnalyzerFromConfig(cfg *contract.Config, mgr contract.StoreManager, extra ...Option) *Analyzer {
	logger := contract.Logger()
	opts := []Option{
		WithLogger(logger),
		WithEnergyModel(cfg.EnergyModel),
		WithModelGreenScore(cfg.ModelGreenScore),
		WithOptimizer(optimize.New(optimize.WithWorkers(cfg.Workers), optimize.WithLogger(logger))),
	}
	if cfg.CarbonToken != "" {
		opts = append(opts, WithEmissionSource(carbon.NewClient(carbon.Config{
			BaseURL: cfg.CarbonURL,
			Token:   cfg.CarbonToken,
			TTL:     cfg.CarbonTTL,
			Logger:  logger,
		})))
	}
	if mgr != nil {
		if history := mgr.GetHistoryStore(); cfg.Record && history != nil {
			opts = append(opts, WithRecorder(history))
		}
		if models := mgr.GetModelStore(); cfg.UseModels && models != nil {
			opts = append(opts, WithModelLoader(func(ctx context.Context) (*predict.Registry, error) {
				return learn.LoadRegistry(ctx, models, logger)
			}))
		}
	}
	return NewAnalyzer(append(opts, extra...)...)
}

// ExecuteAnalyze analyzes every input concurrently and prints the results in input order.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, analyzer *Analyzer, out contract.OutputWriter, inputs []Input) error {
	start := time.Now()
	results, err := analyzeInputs(ctx, cfg, analyzer, inputs)
	if err != nil {
		return err
	}
	return out.WriteAnalyses(results, cfg, time.Since(start))
}

// analyzeInputs fans out over inputs with at most cfg.Workers analyses in flight.
// All inputs of one call share a run id in the history.
func analyzeInputs(ctx context.Context, cfg *contract.Config, analyzer *Analyzer, inputs []Input) ([]schema.FileAnalysis, error) {
	ctx = WithRunID(ctx, uuid.NewString())
	results := make([]schema.FileAnalysis, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, in := range inputs {
		g.Go(func() error {
			result, err := analyzer.Analyze(WithSource(gctx, in.source()), in.Code, languageFor(cfg, in), cfg.Region)
			if err != nil {
				return fmt.Errorf("failed to analyze %s: %w", in.source(), err)
			}
			results[i] = schema.FileAnalysis{Path: in.source(), Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExecuteOptimize optimizes a single input and prints the comparison.
func ExecuteOptimize(ctx context.Context, cfg *contract.Config, analyzer *Analyzer, out contract.OutputWriter, in Input) error {
	result, err := analyzer.Optimize(ctx, in.Code, languageFor(cfg, in), cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to optimize %s: %w", in.source(), err)
	}
	return out.WriteOptimization(result, cfg)
}

// ExecuteDetect prints the detected language of every input. The configured
// language is ignored.
func ExecuteDetect(_ context.Context, cfg *contract.Config, out contract.OutputWriter, inputs []Input) error {
	detections := make([]schema.Detection, 0, len(inputs))
	for _, in := range inputs {
		detections = append(detections, schema.Detection{Path: in.source(), Language: lang.DetectFile(in.Path, []byte(in.Code))})
	}
	return out.WriteDetections(detections, cfg)
}

// ExecuteImpact prints the everyday equivalents of an energy and CO2 figure.
func ExecuteImpact(_ context.Context, cfg *contract.Config, out contract.OutputWriter, energyWh, co2g float64) error {
	if energyWh < 0 || co2g < 0 {
		return fmt.Errorf("%w: energy and CO2 must not be negative", ErrInvalidInput)
	}
	report := schema.ImpactReport{
		EnergyWh: energyWh,
		CO2g:     co2g,
		Impact:   Impact(schema.MetricSet{EnergyWh: energyWh, CO2g: co2g}),
	}
	return out.WriteImpact(report, cfg)
}

// ExecuteHistoryList prints the most recent analyses from the history store.
func ExecuteHistoryList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, out contract.OutputWriter) error {
	history := mgr.GetHistoryStore()
	if history == nil {
		return fmt.Errorf("history store is not initialized")
	}
	records, err := history.List(ctx, cfg.Limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	return out.WriteHistory(records, cfg)
}

// ExecuteModelVersions prints the versions manifest of the model store.
func ExecuteModelVersions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, out contract.OutputWriter) error {
	models := mgr.GetModelStore()
	if models == nil {
		return fmt.Errorf("model store is not initialized")
	}
	versions, err := models.Versions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list model versions: %w", err)
	}
	return out.WriteModelVersions(versions, cfg)
}
