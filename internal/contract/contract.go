// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/greenscore/schema"
)

// StoreManager defines the interface for managing the persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
	GetModelStore() ModelStore
}

// HistoryStore defines the interface for recording analyses over time.
type HistoryStore interface {
	// Record stores one analysis and returns its row id
	Record(ctx context.Context, rec schema.AnalysisRecord) (int64, error)

	// List returns the most recent analyses first, at most limit rows (all when limit <= 0)
	List(ctx context.Context, limit int) ([]schema.AnalysisRecord, error)

	// GetStatus returns aggregate information about the history store
	GetStatus(ctx context.Context) (schema.HistoryStatus, error)

	// Clear removes every recorded analysis
	Clear(ctx context.Context) error

	// Close closes the underlying connection
	Close() error
}

// ModelStore defines the interface for persisting trained regressors.
// A missing model is not an error: Load reports it with ok == false.
type ModelStore interface {
	// Save stores a new version of the model for a metric
	Save(ctx context.Context, name schema.MetricName, payload []byte, evaluation map[string]float64) (schema.ModelVersion, error)

	// Load returns the latest version of the model for a metric
	Load(ctx context.Context, name schema.MetricName) (rec schema.ModelRecord, ok bool, err error)

	// Versions returns the versions manifest, newest first
	Versions(ctx context.Context) ([]schema.ModelVersion, error)

	// GetStatus returns status information about the model store
	GetStatus(ctx context.Context) (schema.ModelStatus, error)

	// Clear removes every stored model
	Clear(ctx context.Context) error

	// Close closes the underlying connection
	Close() error
}

// EmissionFactorSource supplies a live emission factor in grams of CO2 per kWh.
// Implementations fail open: ok is false whenever no live value is available.
type EmissionFactorSource interface {
	Factor(ctx context.Context, region schema.Region) (factor float64, ok bool)
}

// OutputWriter renders command results in the configured output format.
// This allows the executors to be tested without capturing stdout.
type OutputWriter interface {
	WriteAnalyses(results []schema.FileAnalysis, cfg *Config, duration time.Duration) error
	WriteOptimization(result *schema.OptimizationResult, cfg *Config) error
	WriteDetections(detections []schema.Detection, cfg *Config) error
	WriteImpact(report schema.ImpactReport, cfg *Config) error
	WriteCheck(result *schema.CheckResult, cfg *Config, duration time.Duration) error
	WriteHistory(records []schema.AnalysisRecord, cfg *Config) error
	WriteModelVersions(versions []schema.ModelVersion, cfg *Config) error
	WriteTrainingReport(report *schema.TrainingReport, cfg *Config, duration time.Duration) error
}
