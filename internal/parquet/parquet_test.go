package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/greenscore/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.AnalysisRecord {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []schema.AnalysisRecord{
		{
			ID: 1, RunID: "run-a", Source: "app/main.py",
			Language: schema.Python, Region: schema.USA, AnalyzedAt: now,
			CodeLength: 120, GreenScore: 45, EnergyWh: 0.02, CO2g: 0.0095,
			CPUTimeMs: 2.5, MemoryMB: 1.2, ComplexityScore: 0.4, TimeComplexity: "O(n)",
			SuggestionCount: 2, HighSeverity: 1,
		},
		{
			ID: 2, RunID: "run-a", Source: "stdin",
			Language: schema.JavaScript, Region: schema.Europe, AnalyzedAt: now.Add(time.Minute),
			CodeLength: 40, GreenScore: 88, EnergyWh: 0.01, CO2g: 0.00276,
			CPUTimeMs: 1, MemoryMB: 0.5, TimeComplexity: "O(1)",
		},
	}
}

func TestAnalysisStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Analysis))
	require.NotNil(t, s)

	expectedColumns := []string{
		"id", "run_id", "source", "language", "region", "analyzed_at",
		"code_length", "green_score", "energy_wh", "co2_g", "cpu_time_ms",
		"memory_mb", "complexity_score", "time_complexity", "suggestion_count", "high_severity",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteAnalysesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "analyses.parquet")
	data := ConvertAnalysisRecords(sampleRecords())

	require.NoError(t, WriteAnalysesParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	readData, err := ReadAnalysesParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].ID, readData[i].ID)
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].Source, readData[i].Source)
		assert.Equal(t, data[i].Language, readData[i].Language)
		assert.Equal(t, data[i].TimeComplexity, readData[i].TimeComplexity)
		assert.Equal(t, data[i].HighSeverity, readData[i].HighSeverity)
		assert.InDelta(t, data[i].GreenScore, readData[i].GreenScore, 0.001)
		assert.InDelta(t, data[i].CO2g, readData[i].CO2g, 1e-9)
		assert.WithinDuration(t, data[i].AnalyzedAt, readData[i].AnalyzedAt, time.Microsecond)
	}
}

func TestWriteAnalysesParquetEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteAnalysesParquet([]Analysis{}, outputPath))

	readData, err := ReadAnalysesParquet(outputPath)
	require.NoError(t, err)
	assert.Empty(t, readData)
}

func TestWriteAnalysesParquetInvalidPath(t *testing.T) {
	err := WriteAnalysesParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestConvertModelVersions(t *testing.T) {
	recorded := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := ConvertModelVersions([]schema.ModelVersion{
		{Name: "green_score", Version: 3, RecordedAt: recorded, Metrics: map[string]float64{"test_r2": 0.81, "mae": 4.2}},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "green_score", rows[0].Name)
	assert.Equal(t, int32(3), rows[0].Version)
	require.NotNil(t, rows[0].TestR2)
	assert.Equal(t, 0.81, *rows[0].TestR2)
	assert.Nil(t, rows[0].TrainR2)
	assert.Nil(t, rows[0].RMSE)

	outputPath := filepath.Join(t.TempDir(), "models.parquet")
	require.NoError(t, WriteModelVersionsParquet(rows, outputPath))
	readBack, err := parquet.ReadFile[ModelVersion](outputPath)
	require.NoError(t, err)
	require.Len(t, readBack, 1)
	assert.Nil(t, readBack[0].TrainR2)
	require.NotNil(t, readBack[0].MAE)
	assert.Equal(t, 4.2, *readBack[0].MAE)
}
