package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/greenscore/core/predict"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	inefficientSum = "def f(n):\n    total = 0\n    for i in range(len(n)):\n        total += n[i]\n    return total"
	efficientSum   = "def f(x): return sum(x)"
	jsIndexLoop    = "for (let i = 0; i < arr.length; i++) { console.log(arr[i]); }"
)

type fixedFactor struct {
	factor float64
	ok     bool
}

func (f fixedFactor) Factor(context.Context, schema.Region) (float64, bool) {
	return f.factor, f.ok
}

type recordingObserver struct {
	mu            sync.Mutex
	analyses      int
	optimizations int
}

func (o *recordingObserver) ObserveAnalysis(*schema.AnalysisResult, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.analyses++
}

func (o *recordingObserver) ObserveOptimization(*schema.OptimizationResult, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.optimizations++
}

type constRegressor float64

func (c constRegressor) Predict(schema.FeatureVector) (float64, error) { return float64(c), nil }
func (constRegressor) Dimensions() int                                { return schema.FeatureLen }

func findingsOf(result *schema.AnalysisResult) []string {
	var out []string
	for _, s := range result.Suggestions {
		out = append(out, s.Finding)
	}
	return out
}

func TestAnalyzeInefficientPython(t *testing.T) {
	a := NewAnalyzer()
	result, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.Equal(t, schema.Python, result.Language)
	assert.Less(t, result.Metrics.GreenScore, 50.0)
	assert.Contains(t, findingsOf(result), "Index-based iteration detected")
	assert.Contains(t, findingsOf(result), "Manual summation detected")
	assert.Equal(t, "O(n)", result.AnalysisDetails.AlgorithmComplexity)
	assert.Equal(t, 5, result.AnalysisDetails.LinesOfCode)
	assert.Equal(t, result.Metrics.ComplexityScore, result.AnalysisDetails.CyclomaticComplexity)
	assert.Contains(t, result.RealWorldImpact.Description, "light bulb")
}

func TestAnalyzeEfficientPython(t *testing.T) {
	a := NewAnalyzer()
	result, err := a.Analyze(context.Background(), efficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Metrics.GreenScore, 70.0)
	assert.NotContains(t, findingsOf(result), "Manual summation detected")
	assert.NotNil(t, result.Suggestions)
}

func TestAnalyzeJavaScriptIndexLoop(t *testing.T) {
	a := NewAnalyzer()
	result, err := a.Analyze(context.Background(), jsIndexLoop, schema.JavaScript, schema.USA)
	require.NoError(t, err)
	assert.Contains(t, findingsOf(result), "Use for...of or forEach instead of traditional for loops")
}

func TestAnalyzeDetectsEmptyLanguage(t *testing.T) {
	a := NewAnalyzer()
	code := "public class Main { public static void main(String[] args) { } }"
	assert.Equal(t, schema.Java, a.DetectLanguage(code))

	result, err := a.Analyze(context.Background(), code, "", schema.USA)
	require.NoError(t, err)
	assert.Equal(t, schema.Java, result.Language)
}

func TestAnalyzeRegionScalesCO2(t *testing.T) {
	a := NewAnalyzer()
	usa, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	europe, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.Europe)
	require.NoError(t, err)

	assert.Equal(t, usa.Metrics.GreenScore, europe.Metrics.GreenScore)
	assert.Equal(t, usa.Metrics.EnergyWh, europe.Metrics.EnergyWh)
	assert.InDelta(t, 276.0/475.0, europe.Metrics.CO2g/usa.Metrics.CO2g, 1e-9)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := NewAnalyzer()
	first, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeErrors(t *testing.T) {
	a := NewAnalyzer()

	_, err := a.Analyze(context.Background(), "x = 1", schema.Language("cobol"), schema.USA)
	assert.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Analyze(ctx, "x = 1", schema.Python, schema.USA)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = a.Optimize(context.Background(), "x = 1", schema.Language("cobol"), schema.USA)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyzeUsesLiveEmissionFactor(t *testing.T) {
	static := NewAnalyzer()
	live := NewAnalyzer(WithEmissionSource(fixedFactor{factor: 950, ok: true}))
	down := NewAnalyzer(WithEmissionSource(fixedFactor{}))

	base, err := static.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	doubled, err := live.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	fallback, err := down.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, doubled.Metrics.CO2g/base.Metrics.CO2g, 1e-9)
	assert.Equal(t, base.Metrics, fallback.Metrics)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("Record", mock.Anything, mock.MatchedBy(func(rec schema.AnalysisRecord) bool {
		return rec.Source == "pkg/sum.py" &&
			rec.RunID == "run-7" &&
			rec.Language == schema.Python &&
			rec.CodeLength == len(inefficientSum) &&
			rec.SuggestionCount > 0
	})).Return(int64(1), nil).Once()

	a := NewAnalyzer(WithRecorder(store))
	ctx := WithRunID(WithSource(context.Background(), "pkg/sum.py"), "run-7")
	_, err := a.Analyze(ctx, inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAnalyzeRecordFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := &iocache.MockHistoryStore{}
	store.On("Record", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	a := NewAnalyzer(WithRecorder(store), WithLogger(logger))
	result, err := a.Analyze(context.Background(), efficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Failed to record analysis", hook.LastEntry().Message)
	assert.Equal(t, defaultSource, hook.LastEntry().Data["source"])
}

func TestAnalyzeLoadsModelsOnce(t *testing.T) {
	var calls int
	var mu sync.Mutex
	loader := func(context.Context) (*predict.Registry, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		r := predict.NewRegistry()
		r.Register(schema.MetricEnergy, constRegressor(0.5))
		return r, nil
	}

	a := NewAnalyzer(WithModelLoader(loader))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
			assert.NoError(t, err)
			assert.Equal(t, 0.5, result.Metrics.EnergyWh)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestAnalyzeModelLoaderFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	loader := func(context.Context) (*predict.Registry, error) {
		return nil, errors.New("corrupt manifest")
	}
	a := NewAnalyzer(WithModelLoader(loader), WithLogger(logger))
	withModels, err := a.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	heuristic, err := NewAnalyzer().Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.Equal(t, heuristic.Metrics, withModels.Metrics)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Failed to load models, using heuristics", hook.LastEntry().Message)
}

func TestAnalyzeModelGreenScore(t *testing.T) {
	r := predict.NewRegistry()
	r.Register(schema.MetricGreenScore, constRegressor(91.234))

	off := NewAnalyzer(WithRegistry(r))
	on := NewAnalyzer(WithRegistry(r), WithModelGreenScore(true))

	heuristic, err := off.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)
	learned, err := on.Analyze(context.Background(), inefficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.NotEqual(t, 91.23, heuristic.Metrics.GreenScore)
	assert.Equal(t, 91.23, learned.Metrics.GreenScore)
}

func TestOptimize(t *testing.T) {
	observer := &recordingObserver{}
	a := NewAnalyzer(WithObserver(observer))
	result, err := a.Optimize(context.Background(), inefficientSum, "", schema.USA)
	require.NoError(t, err)

	assert.Equal(t, schema.Python, result.DetectedLanguage)
	assert.True(t, result.CodeChanged)
	assert.Contains(t, result.OptimizedCode, "sum(n)")
	assert.Contains(t, result.AppliedRules, "sum-builtin")
	assert.Greater(t, result.ExpectedGreenScoreImprovement, 0.0)
	assert.InDelta(t, result.OptimizedMetrics.GreenScore-result.OriginalMetrics.GreenScore,
		result.ExpectedGreenScoreImprovement, 0.006)
	assert.Len(t, result.ComparisonTable, len(schema.ComparisonMetricOrder))
	for _, key := range schema.ComparisonMetricOrder {
		assert.Contains(t, result.ComparisonTable, key)
	}
	assert.Contains(t, result.AnalysisSummary, "after")
	assert.NotEmpty(t, result.ImprovementsExplanation)
	assert.Equal(t, 1, observer.optimizations)
	assert.Zero(t, observer.analyses)
}

func TestOptimizeNoChange(t *testing.T) {
	a := NewAnalyzer()
	result, err := a.Optimize(context.Background(), efficientSum, schema.Python, schema.USA)
	require.NoError(t, err)

	assert.False(t, result.CodeChanged)
	assert.Equal(t, efficientSum, result.OptimizedCode)
	assert.Empty(t, result.AppliedRules)
	assert.NotNil(t, result.AppliedRules)
	assert.Zero(t, result.ExpectedGreenScoreImprovement)
	assert.Equal(t, "unchanged", result.ComparisonTable["time_complexity"].Improvement)
	assert.Contains(t, result.AnalysisSummary, "No optimizations were applied")
}

func BenchmarkAnalyze(b *testing.B) {
	a := NewAnalyzer()
	ctx := context.Background()
	for b.Loop() {
		_, _ = a.Analyze(ctx, inefficientSum, schema.Python, schema.USA)
	}
}
