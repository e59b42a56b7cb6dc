package outwriter

import (
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockOutputWriter is a mock implementation of contract.OutputWriter for testing.
type MockOutputWriter struct {
	mock.Mock
}

var _ contract.OutputWriter = &MockOutputWriter{} // Compile-time check

// WriteAnalyses implements the OutputWriter interface.
func (m *MockOutputWriter) WriteAnalyses(results []schema.FileAnalysis, cfg *contract.Config, duration time.Duration) error {
	return m.Called(results, cfg, duration).Error(0)
}

// WriteOptimization implements the OutputWriter interface.
func (m *MockOutputWriter) WriteOptimization(result *schema.OptimizationResult, cfg *contract.Config) error {
	return m.Called(result, cfg).Error(0)
}

// WriteDetections implements the OutputWriter interface.
func (m *MockOutputWriter) WriteDetections(detections []schema.Detection, cfg *contract.Config) error {
	return m.Called(detections, cfg).Error(0)
}

// WriteImpact implements the OutputWriter interface.
func (m *MockOutputWriter) WriteImpact(report schema.ImpactReport, cfg *contract.Config) error {
	return m.Called(report, cfg).Error(0)
}

// WriteCheck implements the OutputWriter interface.
func (m *MockOutputWriter) WriteCheck(result *schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return m.Called(result, cfg, duration).Error(0)
}

// WriteHistory implements the OutputWriter interface.
func (m *MockOutputWriter) WriteHistory(records []schema.AnalysisRecord, cfg *contract.Config) error {
	return m.Called(records, cfg).Error(0)
}

// WriteModelVersions implements the OutputWriter interface.
func (m *MockOutputWriter) WriteModelVersions(versions []schema.ModelVersion, cfg *contract.Config) error {
	return m.Called(versions, cfg).Error(0)
}

// WriteTrainingReport implements the OutputWriter interface.
func (m *MockOutputWriter) WriteTrainingReport(report *schema.TrainingReport, cfg *contract.Config, duration time.Duration) error {
	return m.Called(report, cfg, duration).Error(0)
}
