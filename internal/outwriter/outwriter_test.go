package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalyses() []schema.FileAnalysis {
	return []schema.FileAnalysis{
		{
			Path: "src/loops.py",
			Result: &schema.AnalysisResult{
				Language: schema.Python,
				Region:   schema.USA,
				Metrics: schema.MetricSet{
					GreenScore:     42.5,
					EnergyWh:       0.0012,
					CO2g:           0.0005,
					CPUTimeMs:      120,
					MemoryMB:       35,
					TimeComplexity: "O(n^2)",
				},
				Suggestions: []schema.Suggestion{
					{
						Finding:              "Nested loops detected",
						BeforeCode:           "for i in a:\n    for j in b:",
						AfterCode:            "lookup = set(b)",
						Explanation:          "Use a set for membership tests",
						Severity:             schema.SeverityHigh,
						PredictedImprovement: schema.Improvement{GreenScore: 15},
					},
				},
				RealWorldImpact: schema.RealWorldImpact{
					LightBulbHours: 0.12,
					Description:    "Running this 1M times equals 0.12 hours of a 10W LED bulb",
				},
			},
		},
		{
			Path: "web/app.js",
			Result: &schema.AnalysisResult{
				Language: schema.JavaScript,
				Region:   schema.Europe,
				Metrics:  schema.MetricSet{GreenScore: 88, TimeComplexity: "O(n)"},
			},
		},
	}
}

func outConfig(t *testing.T, mode schema.OutputMode) (*contract.Config, string) {
	t.Helper()
	outFile := filepath.Join(t.TempDir(), "out")
	return &contract.Config{
		Output:         mode,
		OutputFile:     outFile,
		Workers:        4,
		Width:          120,
		HistoryBackend: schema.SQLiteBackend,
		ModelBackend:   schema.NoneBackend,
	}, outFile
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestWriteAnalysisResults(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		require.NoError(t, WriteAnalysisResults(sampleAnalyses(), cfg, 1500*time.Millisecond))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "src/loops.py")
		assert.Contains(t, out, "Fair")
		assert.Contains(t, out, "Excellent")
		assert.Contains(t, out, "Nested loops detected")
		assert.Contains(t, out, "before: for i in a:")
		assert.Contains(t, out, "Analyzed 2 input(s) in 1.5s with 4 workers. History backend: sqlite")
	})

	t.Run("json", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.JSONOut)
		require.NoError(t, WriteAnalysisResults(sampleAnalyses(), cfg, time.Second))

		var decoded []schema.FileAnalysis
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, outFile)), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, schema.Python, decoded[0].Result.Language)
		assert.InDelta(t, 42.5, decoded[0].Result.Metrics.GreenScore, 1e-9)
	})

	t.Run("csv", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.CSVOut)
		require.NoError(t, WriteAnalysisResults(sampleAnalyses(), cfg, time.Second))

		records, err := csv.NewReader(strings.NewReader(readOutput(t, outFile))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, analysisCSVHeader, records[0])
		assert.Equal(t, "src/loops.py", records[1][0])
		assert.Equal(t, "Fair", records[1][4])
		assert.Equal(t, "1", records[1][12], "high severity count")
		assert.Equal(t, "0", records[2][11], "no suggestions")
	})

	t.Run("markdown", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.MarkdownOut)
		require.NoError(t, WriteAnalysisResults(sampleAnalyses(), cfg, time.Second))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "| src/loops.py")
		assert.Contains(t, out, "### src/loops.py")
		assert.Contains(t, out, "- **high** Nested loops detected")
		assert.Contains(t, out, "> Running this 1M times")
		assert.NotContains(t, out, "### web/app.js", "inputs without findings get no section")
	})
}

func sampleOptimization() *schema.OptimizationResult {
	return &schema.OptimizationResult{
		DetectedLanguage: schema.Python,
		AnalysisSummary:  "Green score improved from 40.0 to 65.0",
		OriginalCode:     "x = []\nfor i in range(10):\n    x.append(i)",
		OptimizedCode:    "x = [i for i in range(10)]",
		CodeChanged:      true,
		ComparisonTable: map[string]schema.ComparisonEntry{
			"green_score":     {Original: "40.0", Optimized: "65.0", Improvement: "+25.0"},
			"time_complexity": {Original: "O(n)", Optimized: "O(n)", Improvement: "same"},
		},
		ImprovementsExplanation:       "Replaced append loop with a list comprehension",
		ExpectedGreenScoreImprovement: 25,
		AppliedRules:                  []string{"list_comprehension"},
	}
}

func TestWriteOptimizationResult(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		require.NoError(t, WriteOptimizationResult(sampleOptimization(), cfg))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "Green score improved from 40.0 to 65.0")
		assert.Contains(t, out, "Green Score")
		assert.Contains(t, out, "Time Complexity")
		assert.Contains(t, out, "Applied rules: list_comprehension")
		assert.Contains(t, out, "Optimized code:\nx = [i for i in range(10)]")
	})

	t.Run("markdown", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.MarkdownOut)
		require.NoError(t, WriteOptimizationResult(sampleOptimization(), cfg))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "## Optimization (python)")
		assert.Contains(t, out, "- list_comprehension")
		assert.Contains(t, out, "```python\nx = [i for i in range(10)]\n```")
	})

	t.Run("csv keeps comparison order", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.CSVOut)
		require.NoError(t, WriteOptimizationResult(sampleOptimization(), cfg))

		records, err := csv.NewReader(strings.NewReader(readOutput(t, outFile))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "green_score", records[1][0])
		assert.Equal(t, "time_complexity", records[2][0])
	})

	t.Run("unchanged code is not printed", func(t *testing.T) {
		result := sampleOptimization()
		result.CodeChanged = false
		cfg, outFile := outConfig(t, schema.TextOut)
		require.NoError(t, WriteOptimizationResult(result, cfg))
		assert.NotContains(t, readOutput(t, outFile), "Optimized code:")
	})
}

func TestWriteCheckResult(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		result := &schema.CheckResult{
			Passed:       true,
			TotalFiles:   3,
			MinScore:     50,
			AverageScore: 72.25,
			LowestScore:  55,
			LowestFile:   "a.py",
		}
		require.NoError(t, WriteCheckResult(result, cfg, 20*time.Millisecond))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "Policy Check Results:")
		assert.Contains(t, out, "Min Score:")
		assert.Contains(t, out, "Checked 3 files in 20ms")
		assert.Contains(t, out, "✅ All files passed policy checks")
		assert.Contains(t, out, "lowest=55.0 (a.py)")
	})

	t.Run("failed listing is bounded", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		result := &schema.CheckResult{TotalFiles: 12, MinScore: 60}
		for i := range 12 {
			result.FailedFiles = append(result.FailedFiles, schema.CheckFailedFile{
				Path: filepath.Join("src", string(rune('a'+i))+".py"), Score: 30, Threshold: 60, Reason: "score below minimum",
			})
		}
		require.NoError(t, WriteCheckResult(result, cfg, time.Millisecond))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "❌ Policy check failed: 12 violation(s) found across 12 files")
		assert.Contains(t, out, "  - src/a.py (score: 30.0, threshold: 60.0): score below minimum")
		assert.NotContains(t, out, "src/k.py")
		assert.Contains(t, out, "... and 2 more")
	})

	t.Run("json", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.JSONOut)
		result := &schema.CheckResult{Passed: false, TotalFiles: 1, FailOnHigh: true}
		require.NoError(t, WriteCheckResult(result, cfg, time.Millisecond))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, outFile)), &decoded))
		assert.Equal(t, false, decoded["passed"])
		assert.Equal(t, true, decoded["fail_on_high"])
	})
}

func TestWriteHistoryRecords(t *testing.T) {
	when := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	records := []schema.AnalysisRecord{
		{ID: 7, RunID: "run-1", Source: "stdin", Language: schema.Python, Region: schema.World, AnalyzedAt: when, GreenScore: 81, SuggestionCount: 2, HighSeverity: 1},
	}

	t.Run("text", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		require.NoError(t, WriteHistoryRecords(records, cfg))
		out := readOutput(t, outFile)
		assert.Contains(t, out, "stdin")
		assert.Contains(t, out, when.Format(contract.DateTimeFormat))
		assert.Contains(t, out, "Showing 1 most recent analyses. History backend: sqlite")
	})

	t.Run("csv", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.CSVOut)
		require.NoError(t, WriteHistoryRecords(records, cfg))
		rows, err := csv.NewReader(strings.NewReader(readOutput(t, outFile))).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "7", rows[1][0])
		assert.Equal(t, "run-1", rows[1][1])
		assert.Equal(t, "1", rows[1][15])
	})
}

func TestWriteModelVersions(t *testing.T) {
	versions := []schema.ModelVersion{
		{Name: "green_score", Version: 2, RecordedAt: time.Now(), Metrics: map[string]float64{"test_r2": 0.91234, "samples": 480}},
	}

	cfg, outFile := outConfig(t, schema.CSVOut)
	require.NoError(t, WriteModelVersions(versions, cfg))
	rows, err := csv.NewReader(strings.NewReader(readOutput(t, outFile))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "version", "recorded_at", "train_r2", "test_r2", "mae", "rmse", "samples"}, rows[0])
	assert.Equal(t, "2", rows[1][1])
	assert.Equal(t, "-", rows[1][3], "missing metrics render as a dash")
	assert.Equal(t, "0.9123", rows[1][4])
	assert.Equal(t, "480", rows[1][7])
}

func TestWriteTrainingReport(t *testing.T) {
	report := &schema.TrainingReport{
		DatasetRows:      120,
		SyntheticSamples: 400,
		Evaluations: []schema.ModelEvaluation{
			{Name: schema.MetricGreenScore, TrainR2: 0.97, TestR2: 0.88, MAE: 3.1, RMSE: 4.2, Samples: 520},
		},
	}

	cfg, outFile := outConfig(t, schema.TextOut)
	require.NoError(t, WriteTrainingReport(report, cfg, 2*time.Second))
	out := readOutput(t, outFile)
	assert.Contains(t, out, "Trained on 120 dataset rows and 400 synthetic samples")
	assert.Contains(t, out, "0.8800")
	assert.Contains(t, out, "Training completed in 2s with 4 workers. Model backend: none")
}

func TestWriteDetectionsAndImpact(t *testing.T) {
	t.Run("detections json", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.JSONOut)
		detections := []schema.Detection{{Path: "a.ts", Language: schema.TypeScript}}
		require.NoError(t, WriteDetections(detections, cfg))

		var decoded []schema.Detection
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, outFile)), &decoded))
		assert.Equal(t, detections, decoded)
	})

	t.Run("impact text", func(t *testing.T) {
		cfg, outFile := outConfig(t, schema.TextOut)
		report := schema.ImpactReport{
			EnergyWh: 0.001,
			CO2g:     0.0004,
			Impact:   schema.RealWorldImpact{LightBulbHours: 100, TreePlantingDays: 0.5, CarMiles: 1.25, Description: "Equivalent to 100 bulb hours"},
		}
		require.NoError(t, WriteImpactReport(report, cfg))

		out := readOutput(t, outFile)
		assert.Contains(t, out, "Per 1M executions of 0.0010 Wh / 0.0004 g CO2:")
		assert.Contains(t, out, "100.00")
		assert.Contains(t, out, "1.25")
		assert.Contains(t, out, "Equivalent to 100 bulb hours")
	})
}

func TestOutWriterDelegates(t *testing.T) {
	ow := NewOutWriter()
	cfg, outFile := outConfig(t, schema.CSVOut)
	require.NoError(t, ow.WriteDetections([]schema.Detection{{Path: "x.c", Language: schema.C}}, cfg))
	assert.Equal(t, "path,language\nx.c,c\n", readOutput(t, outFile))
}
