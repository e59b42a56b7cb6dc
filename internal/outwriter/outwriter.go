// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalyses prints analysis results using the configured output format.
func (ow *OutWriter) WriteAnalyses(results []schema.FileAnalysis, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResults(results, cfg, duration)
}

// WriteOptimization prints an optimization comparison using the configured output format.
func (ow *OutWriter) WriteOptimization(result *schema.OptimizationResult, cfg *contract.Config) error {
	return WriteOptimizationResult(result, cfg)
}

// WriteDetections prints detected languages using the configured output format.
func (ow *OutWriter) WriteDetections(detections []schema.Detection, cfg *contract.Config) error {
	return WriteDetections(detections, cfg)
}

// WriteImpact prints real-world equivalents using the configured output format.
func (ow *OutWriter) WriteImpact(report schema.ImpactReport, cfg *contract.Config) error {
	return WriteImpactReport(report, cfg)
}

// WriteCheck prints a policy check result using the configured output format.
func (ow *OutWriter) WriteCheck(result *schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCheckResult(result, cfg, duration)
}

// WriteHistory prints recorded analyses using the configured output format.
func (ow *OutWriter) WriteHistory(records []schema.AnalysisRecord, cfg *contract.Config) error {
	return WriteHistoryRecords(records, cfg)
}

// WriteModelVersions prints the model versions manifest using the configured output format.
func (ow *OutWriter) WriteModelVersions(versions []schema.ModelVersion, cfg *contract.Config) error {
	return WriteModelVersions(versions, cfg)
}

// WriteTrainingReport prints a training report using the configured output format.
func (ow *OutWriter) WriteTrainingReport(report *schema.TrainingReport, cfg *contract.Config, duration time.Duration) error {
	return WriteTrainingReport(report, cfg, duration)
}
