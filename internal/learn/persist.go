package learn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/greenscore/core/predict"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
)

// SaveModels stores every trained model with its evaluation and returns the
// new versions in schema.AllMetricNames order.
func SaveModels(ctx context.Context, store contract.ModelStore, result *Result) ([]schema.ModelVersion, error) {
	evals := make(map[schema.MetricName]schema.ModelEvaluation, len(result.Evaluations))
	for _, e := range result.Evaluations {
		evals[e.Name] = e
	}

	var versions []schema.ModelVersion
	for _, name := range schema.AllMetricNames {
		forest, ok := result.Models[name]
		if !ok {
			continue
		}
		payload, err := json.Marshal(forest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s model: %w", name, err)
		}
		e := evals[name]
		version, err := store.Save(ctx, name, payload, map[string]float64{
			"train_r2": e.TrainR2,
			"test_r2":  e.TestR2,
			"mae":      e.MAE,
			"rmse":     e.RMSE,
			"samples":  float64(e.Samples),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save %s model: %w", name, err)
		}
		versions = append(versions, version)
	}
	return versions, nil
}

// DecodeForest parses and validates a stored model payload.
func DecodeForest(payload []byte) (*Forest, error) {
	var f Forest
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, err
	}
	if f.Version != ForestVersion {
		return nil, fmt.Errorf("unsupported model version %d", f.Version)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadRegistry loads the latest model of every metric into a registry.
// Missing models are skipped; corrupt ones are logged and skipped. Only
// store failures are returned.
func LoadRegistry(ctx context.Context, store contract.ModelStore, logger logrus.FieldLogger) (*predict.Registry, error) {
	registry := predict.NewRegistry()
	for _, name := range schema.AllMetricNames {
		rec, ok, err := store.Load(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s model: %w", name, err)
		}
		if !ok {
			continue
		}
		forest, err := DecodeForest(rec.Payload)
		if err != nil {
			logger.WithError(err).WithField("model", name).Warn("Skipping corrupt model")
			continue
		}
		registry.Register(name, forest)
	}
	return registry, nil
}
