package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Region:      schema.USA,
		Output:      schema.TextOut,
		Workers:     2,
		MinScore:    contract.DefaultMinScore,
		Limit:       contract.DefaultHistoryLimit,
		EnergyModel: schema.HeuristicEnergy,
	}
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	pyFile := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(pyFile, []byte(efficientSum), 0o644))

	t.Run("stdin when no paths", func(t *testing.T) {
		inputs, err := ReadInputs(nil, strings.NewReader("print(1)"))
		require.NoError(t, err)
		require.Len(t, inputs, 1)
		assert.Equal(t, StdinPath, inputs[0].Path)
		assert.Equal(t, "print(1)", inputs[0].Code)
		assert.Equal(t, "stdin", inputs[0].source())
	})

	t.Run("files and stdin keep order", func(t *testing.T) {
		inputs, err := ReadInputs([]string{pyFile, StdinPath}, strings.NewReader("x"))
		require.NoError(t, err)
		require.Len(t, inputs, 2)
		assert.Equal(t, pyFile, inputs[0].source())
		assert.Equal(t, efficientSum, inputs[0].Code)
		assert.Equal(t, "x", inputs[1].Code)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadInputs([]string{filepath.Join(dir, "missing.py")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.py")
	})
}

func TestLanguageFor(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, schema.JavaScript, languageFor(cfg, Input{Path: "app.js", Code: jsIndexLoop}))
	assert.Equal(t, schema.Python, languageFor(cfg, Input{Path: StdinPath, Code: inefficientSum}))

	cfg.Language = schema.Java
	assert.Equal(t, schema.Java, languageFor(cfg, Input{Path: "app.js", Code: jsIndexLoop}), "configured language wins")
}

func TestExecuteAnalyze(t *testing.T) {
	cfg := testConfig()
	inputs := []Input{
		{Path: "slow.py", Code: inefficientSum},
		{Path: "fast.py", Code: efficientSum},
		{Path: "loop.js", Code: jsIndexLoop},
	}

	out := &outwriter.MockOutputWriter{}
	out.On("WriteAnalyses", mock.MatchedBy(func(results []schema.FileAnalysis) bool {
		if len(results) != 3 {
			return false
		}
		return results[0].Path == "slow.py" &&
			results[1].Path == "fast.py" &&
			results[2].Path == "loop.js" &&
			results[2].Result.Language == schema.JavaScript
	}), cfg, mock.Anything).Return(nil)

	require.NoError(t, ExecuteAnalyze(context.Background(), cfg, NewAnalyzer(), out, inputs))
	out.AssertExpectations(t)
}

func TestExecuteAnalyzeRecordsHistory(t *testing.T) {
	cfg := testConfig()
	cfg.Record = true

	history := &iocache.MockHistoryStore{}
	var runIDs []string
	history.On("Record", mock.Anything, mock.AnythingOfType("schema.AnalysisRecord")).
		Run(func(args mock.Arguments) {
			runIDs = append(runIDs, args.Get(1).(schema.AnalysisRecord).RunID)
		}).
		Return(int64(1), nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)
	mgr.On("GetModelStore").Return(nil)

	cfg.Workers = 1 // serialize Record calls for the runIDs slice
	out := &outwriter.MockOutputWriter{}
	out.On("WriteAnalyses", mock.Anything, cfg, mock.Anything).Return(nil)

	analyzer := NewAnalyzerFromConfig(cfg, mgr)
	inputs := []Input{{Path: "a.py", Code: efficientSum}, {Path: "b.py", Code: inefficientSum}}
	require.NoError(t, ExecuteAnalyze(context.Background(), cfg, analyzer, out, inputs))

	require.Len(t, runIDs, 2)
	assert.NotEmpty(t, runIDs[0])
	assert.Equal(t, runIDs[0], runIDs[1], "one run id per invocation")
	history.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestExecuteAnalyzeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &outwriter.MockOutputWriter{}
	err := ExecuteAnalyze(ctx, testConfig(), NewAnalyzer(), out, []Input{{Path: "a.py", Code: efficientSum}})
	require.ErrorIs(t, err, context.Canceled)
	out.AssertNotCalled(t, "WriteAnalyses", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteOptimize(t *testing.T) {
	cfg := testConfig()
	code := "result = []\nfor x in items:\n    result.append(x * 2)\n"

	out := &outwriter.MockOutputWriter{}
	out.On("WriteOptimization", mock.MatchedBy(func(r *schema.OptimizationResult) bool {
		return r.DetectedLanguage == schema.Python && r.OriginalCode == code
	}), cfg).Return(nil)

	require.NoError(t, ExecuteOptimize(context.Background(), cfg, NewAnalyzer(), out, Input{Path: "gen.py", Code: code}))
	out.AssertExpectations(t)
}

func TestExecuteDetect(t *testing.T) {
	cfg := testConfig()
	cfg.Language = schema.Java

	out := &outwriter.MockOutputWriter{}
	out.On("WriteDetections", []schema.Detection{
		{Path: "stdin", Language: schema.Python},
		{Path: "loop.js", Language: schema.JavaScript},
	}, cfg).Return(nil)

	inputs := []Input{{Path: StdinPath, Code: inefficientSum}, {Path: "loop.js", Code: jsIndexLoop}}
	require.NoError(t, ExecuteDetect(context.Background(), cfg, out, inputs))
	out.AssertExpectations(t)
}

func TestExecuteImpact(t *testing.T) {
	cfg := testConfig()

	out := &outwriter.MockOutputWriter{}
	out.On("WriteImpact", mock.MatchedBy(func(r schema.ImpactReport) bool {
		return r.EnergyWh == 0.6 && r.Impact.LightBulbHours == 10
	}), cfg).Return(nil)

	require.NoError(t, ExecuteImpact(context.Background(), cfg, out, 0.6, 4.04))
	out.AssertExpectations(t)

	err := ExecuteImpact(context.Background(), cfg, out, -1, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteHistoryList(t *testing.T) {
	cfg := testConfig()
	records := []schema.AnalysisRecord{{ID: 2, Source: "b.py"}, {ID: 1, Source: "a.py"}}

	history := &iocache.MockHistoryStore{}
	history.On("List", mock.Anything, cfg.Limit).Return(records, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)
	out := &outwriter.MockOutputWriter{}
	out.On("WriteHistory", records, cfg).Return(nil)

	require.NoError(t, ExecuteHistoryList(context.Background(), cfg, mgr, out))
	out.AssertExpectations(t)

	empty := &iocache.MockStoreManager{}
	empty.On("GetHistoryStore").Return(nil)
	assert.Error(t, ExecuteHistoryList(context.Background(), cfg, empty, out))
}

func TestExecuteModelVersions(t *testing.T) {
	cfg := testConfig()
	versions := []schema.ModelVersion{{Name: "green_score", Version: 3}}

	models := &iocache.MockModelStore{}
	models.On("Versions", mock.Anything).Return(versions, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetModelStore").Return(models)
	out := &outwriter.MockOutputWriter{}
	out.On("WriteModelVersions", versions, cfg).Return(nil)

	require.NoError(t, ExecuteModelVersions(context.Background(), cfg, mgr, out))
	out.AssertExpectations(t)
	models.AssertExpectations(t)
}

func BenchmarkExecuteAnalyze(b *testing.B) {
	cfg := testConfig()
	cfg.Workers = 4
	analyzer := NewAnalyzer()
	out := &outwriter.MockOutputWriter{}
	out.On("WriteAnalyses", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	inputs := make([]Input, 16)
	for i := range inputs {
		inputs[i] = Input{Path: "bench.py", Code: inefficientSum}
	}

	for b.Loop() {
		_ = ExecuteAnalyze(context.Background(), cfg, analyzer, out, inputs)
	}
}
