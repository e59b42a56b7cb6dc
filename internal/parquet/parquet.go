// Package parquet provides data structures and functions for exporting greenscore
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/greenscore/schema"
	"github.com/parquet-go/parquet-go"
)

// Analysis represents one recorded analysis.
// This struct maps to the greenscore_analyses database table.
type Analysis struct {
	// ID is the row identifier in the history store
	ID int64 `parquet:"id,snappy"`

	// RunID groups the analyses produced by one invocation
	RunID string `parquet:"run_id,snappy,dict"`

	// Source is the file path or "stdin"
	Source string `parquet:"source,snappy"`

	// Language and Region are low-cardinality labels
	Language string `parquet:"language,snappy,dict"`
	Region   string `parquet:"region,snappy,dict"`

	// AnalyzedAt is stored as TIMESTAMP with nanosecond precision
	AnalyzedAt time.Time `parquet:"analyzed_at,snappy"`

	CodeLength      int32   `parquet:"code_length,snappy"`
	GreenScore      float64 `parquet:"green_score,snappy"`
	EnergyWh        float64 `parquet:"energy_wh,snappy"`
	CO2g            float64 `parquet:"co2_g,snappy"`
	CPUTimeMs       float64 `parquet:"cpu_time_ms,snappy"`
	MemoryMB        float64 `parquet:"memory_mb,snappy"`
	ComplexityScore float64 `parquet:"complexity_score,snappy"`

	// TimeComplexity is the Big-O class, e.g. "O(n)"
	TimeComplexity string `parquet:"time_complexity,snappy,dict"`

	SuggestionCount int32 `parquet:"suggestion_count,snappy"`
	HighSeverity    int32 `parquet:"high_severity,snappy"`
}

// ModelVersion represents one entry of the model versions manifest.
// Evaluation metrics that were not recorded are null.
type ModelVersion struct {
	Name       string    `parquet:"name,snappy,dict"`
	Version    int32     `parquet:"version,snappy"`
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
	TrainR2    *float64  `parquet:"train_r2,optional,snappy"`
	TestR2     *float64  `parquet:"test_r2,optional,snappy"`
	MAE        *float64  `parquet:"mae,optional,snappy"`
	RMSE       *float64  `parquet:"rmse,optional,snappy"`
}

// ConvertAnalysisRecords converts schema.AnalysisRecord to Analysis for Parquet export.
func ConvertAnalysisRecords(records []schema.AnalysisRecord) []Analysis {
	result := make([]Analysis, len(records))
	for i, record := range records {
		result[i] = Analysis{
			ID:              record.ID,
			RunID:           record.RunID,
			Source:          record.Source,
			Language:        string(record.Language),
			Region:          string(record.Region),
			AnalyzedAt:      record.AnalyzedAt,
			CodeLength:      int32(record.CodeLength),
			GreenScore:      record.GreenScore,
			EnergyWh:        record.EnergyWh,
			CO2g:            record.CO2g,
			CPUTimeMs:       record.CPUTimeMs,
			MemoryMB:        record.MemoryMB,
			ComplexityScore: record.ComplexityScore,
			TimeComplexity:  record.TimeComplexity,
			SuggestionCount: int32(record.SuggestionCount),
			HighSeverity:    int32(record.HighSeverity),
		}
	}
	return result
}

// ConvertModelVersions converts the versions manifest for Parquet export.
func ConvertModelVersions(versions []schema.ModelVersion) []ModelVersion {
	result := make([]ModelVersion, len(versions))
	for i, v := range versions {
		result[i] = ModelVersion{
			Name:       v.Name,
			Version:    int32(v.Version),
			RecordedAt: v.RecordedAt,
			TrainR2:    metric(v.Metrics, "train_r2"),
			TestR2:     metric(v.Metrics, "test_r2"),
			MAE:        metric(v.Metrics, "mae"),
			RMSE:       metric(v.Metrics, "rmse"),
		}
	}
	return result
}

func metric(m map[string]float64, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return &v
}

// WriteAnalysesParquet writes a slice of Analysis structs to a Parquet file.
func WriteAnalysesParquet(data []Analysis, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteModelVersionsParquet writes a slice of ModelVersion structs to a Parquet file.
func WriteModelVersionsParquet(data []ModelVersion, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ReadAnalysesParquet reads back a file produced by WriteAnalysesParquet.
func ReadAnalysesParquet(path string) ([]Analysis, error) {
	rows, err := parquet.ReadFile[Analysis](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// writeParquet derives the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		_ = file.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// The footer is only written on Close
	return errors.Join(writer.Close(), file.Close())
}
