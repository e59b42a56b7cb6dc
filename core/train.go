package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/learn"
	"github.com/huangsam/greenscore/schema"
)

// TrainOptions describes one training run.
type TrainOptions struct {
	DatasetPath      string // optional CSV dataset
	SyntheticSamples int    // generated pattern samples added to the dataset
	Forest           learn.ForestConfig
}

// ExecuteTrain fits one regressor per metric on the dataset plus synthetic
// samples, stores the models when a model store is configured, and prints the report.
func ExecuteTrain(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, out contract.OutputWriter, opts TrainOptions) error {
	start := time.Now()
	logger := contract.Logger()

	var samples []schema.TrainingSample
	if opts.DatasetPath != "" {
		loaded, err := learn.LoadDatasetFile(opts.DatasetPath)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		samples = loaded
	}
	datasetRows := len(samples)
	synthetic := learn.SyntheticSamples(opts.SyntheticSamples, opts.Forest.Seed)
	samples = append(samples, synthetic...)

	if opts.Forest.Workers <= 0 {
		opts.Forest.Workers = cfg.Workers
	}
	trainer := learn.NewTrainer(learn.WithForestConfig(opts.Forest), learn.WithLogger(logger))
	result, err := trainer.Train(ctx, samples)
	if err != nil {
		return err
	}

	var models contract.ModelStore
	if mgr != nil {
		models = mgr.GetModelStore()
	}
	if models == nil {
		logger.Warn("No model store configured, trained models are not saved")
	} else if _, err := learn.SaveModels(ctx, models, result); err != nil {
		return err
	}

	report := &schema.TrainingReport{
		DatasetRows:      datasetRows,
		SyntheticSamples: len(synthetic),
		Evaluations:      result.Evaluations,
	}
	return out.WriteTrainingReport(report, cfg, time.Since(start))
}
