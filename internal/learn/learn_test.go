package learn

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/greenscore/core/features"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `code,language,green_score,energy_wh,co2_g,cpu_time_ms,memory_mb,complexity,duration,emissions,emissions_rate,energy_consumed,country_name,region,cloud_provider,cloud_region,os,cpu_model,gpu_model,ram_total_size,tracking_mode,on_cloud,pue
"def f(x):
    return sum(x)",python,85,0.02,5.1,0.8,3.1,1,0.5,0.0001,0.0002,0.00003,Germany,europe,,,Linux,Intel,,16,machine,N,1.0
,python,10,1,1,1,1,1,,,,,,,,,,,,,,,
"for (let i = 0; i < a.length; i++) {}",,40,0.06,15.2,2.8,12.5,4,,,,,,,,,,,,,,,
`

func smallForest() ForestConfig {
	return ForestConfig{Trees: 10, MaxDepth: 6, MinSamplesSplit: 2, Seed: 42, Workers: 2}
}

func TestLoadDataset(t *testing.T) {
	samples, err := LoadDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, samples, 2, "rows with empty code are skipped")

	first := samples[0]
	assert.Equal(t, "def f(x):\n    return sum(x)", first.Code)
	assert.Equal(t, schema.Python, first.Language)
	assert.Equal(t, 85.0, first.Metrics["green_score"])
	assert.Equal(t, 16.0, first.Metrics["ram_total_size"])
	assert.Equal(t, "Germany", first.Labels["country_name"])
	assert.Equal(t, "N", first.Labels["on_cloud"])
	assert.NotContains(t, first.Labels, "cloud_provider")

	// An empty language defaults to python
	assert.Equal(t, schema.Python, samples[1].Language)
	assert.Equal(t, 40.0, samples[1].Metrics["green_score"])
}

func TestLoadDatasetErrors(t *testing.T) {
	samples, err := LoadDataset(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, samples)

	_, err = LoadDataset(strings.NewReader("language,green_score\npython,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = LoadDatasetFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))
	samples, err := LoadDatasetFile(path)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestColumns(t *testing.T) {
	assert.Len(t, Columns, 23)
	assert.Equal(t, "code", Columns[0])
	assert.Equal(t, "pue", Columns[len(Columns)-1])
}

func TestSyntheticSamples(t *testing.T) {
	samples := SyntheticSamples(50, 42)
	require.Len(t, samples, 53)
	assert.Equal(t, 45.0, samples[0].Metrics["green_score"])
	assert.Equal(t, 85.0, samples[1].Metrics["green_score"])
	assert.Equal(t, 25.0, samples[len(samples)-1].Metrics["green_score"])

	seen := map[float64]bool{}
	for _, s := range samples[2 : len(samples)-1] {
		seen[s.Metrics["green_score"]] = true
		assert.Equal(t, schema.Python, s.Language)
	}
	for score := range seen {
		assert.Contains(t, []float64{40, 60, 88}, score)
	}

	assert.Equal(t, samples, SyntheticSamples(50, 42), "same seed, same samples")

	// Samples do not share metric maps
	samples[0].Metrics["green_score"] = 0
	assert.Equal(t, 45.0, SyntheticSamples(0, 1)[0].Metrics["green_score"])
}

func TestFitForest(t *testing.T) {
	x := []schema.FeatureVector{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []float64{5, 5, 5, 50, 50, 50}

	f, err := FitForest(context.Background(), x, y, smallForest())
	require.NoError(t, err)
	require.Len(t, f.Trees, 10)
	assert.Equal(t, schema.FeatureLen, f.Dimensions())
	require.NoError(t, f.validate())

	low, err := f.Predict(schema.FeatureVector{1})
	require.NoError(t, err)
	high, err := f.Predict(schema.FeatureVector{11})
	require.NoError(t, err)
	assert.Less(t, low, high)
	assert.GreaterOrEqual(t, low, 5.0)
	assert.LessOrEqual(t, high, 50.0)

	again, err := FitForest(context.Background(), x, y, ForestConfig{Trees: 10, MaxDepth: 6, Seed: 42, Workers: 5})
	require.NoError(t, err)
	assert.Equal(t, f, again, "worker count does not change the forest")
}

func TestFitForestErrors(t *testing.T) {
	_, err := FitForest(context.Background(), nil, nil, smallForest())
	assert.Error(t, err)

	_, err = FitForest(context.Background(), []schema.FeatureVector{{1}}, []float64{1, 2}, smallForest())
	assert.Error(t, err)

	cfg := smallForest()
	cfg.Trees = 0
	_, err = FitForest(context.Background(), []schema.FeatureVector{{1}}, []float64{1}, cfg)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FitForest(ctx, []schema.FeatureVector{{1}, {2}}, []float64{1, 2}, smallForest())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = (&Forest{}).Predict(schema.FeatureVector{})
	assert.ErrorIs(t, err, ErrEmptyForest)
}

func TestEvaluationMetrics(t *testing.T) {
	truth := []float64{1, 2, 3}
	assert.Equal(t, 1.0, R2(truth, truth))
	assert.Equal(t, 0.0, MAE(truth, truth))
	assert.Equal(t, 0.0, RMSE(truth, truth))

	pred := []float64{2, 2, 2}
	assert.Equal(t, 0.0, R2(truth, pred))
	assert.InDelta(t, 2.0/3.0, MAE(truth, pred), 1e-12)
	assert.InDelta(t, 0.8164965809, RMSE(truth, pred), 1e-9)

	assert.Equal(t, 1.0, R2([]float64{4, 4}, []float64{4, 4}))
	assert.Equal(t, 0.0, R2([]float64{4, 4}, []float64{3, 4}))
	assert.Equal(t, 0.0, R2(nil, nil))
}

func TestSplit(t *testing.T) {
	train, test := split(10, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, append(append([]int{}, train...), test...))

	train, test = split(2, 0.2, 42)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)
}

func TestTrain(t *testing.T) {
	logger, hook := test.NewNullLogger()
	trainer := NewTrainer(WithForestConfig(smallForest()), WithLogger(logger))

	result, err := trainer.Train(context.Background(), SyntheticSamples(60, 42))
	require.NoError(t, err)
	require.Len(t, result.Models, 3)
	require.Len(t, result.Evaluations, 3)
	assert.Len(t, hook.AllEntries(), 3)

	for i, name := range schema.AllMetricNames {
		eval := result.Evaluations[i]
		assert.Equal(t, name, eval.Name)
		assert.Equal(t, 63, eval.Samples)
		assert.GreaterOrEqual(t, eval.MAE, 0.0)
		assert.GreaterOrEqual(t, eval.RMSE, eval.MAE)
	}

	// The inefficient and efficient anchors are learned in the right order
	green := result.Models[schema.MetricGreenScore]
	bad, err := green.Predict(features.Extract(processListLoop.code, schema.Python))
	require.NoError(t, err)
	good, err := green.Predict(features.Extract(processListComprehension.code, schema.Python))
	require.NoError(t, err)
	assert.Less(t, bad, good)
}

func TestTrainNotEnoughSamples(t *testing.T) {
	trainer := NewTrainer(WithForestConfig(smallForest()))
	_, err := trainer.Train(context.Background(), SyntheticSamples(0, 42)[:1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough labeled samples")
}

func TestSaveAndLoadModels(t *testing.T) {
	trainer := NewTrainer(WithForestConfig(smallForest()))
	result, err := trainer.Train(context.Background(), SyntheticSamples(30, 7))
	require.NoError(t, err)

	payloads := map[schema.MetricName][]byte{}
	store := &iocache.MockModelStore{}
	store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			payloads[args.Get(1).(schema.MetricName)] = args.Get(2).([]byte)
			evaluation := args.Get(3).(map[string]float64)
			assert.Contains(t, evaluation, "test_r2")
			assert.Contains(t, evaluation, "rmse")
		}).
		Return(schema.ModelVersion{Version: 1}, nil).Times(3)

	versions, err := SaveModels(context.Background(), store, result)
	require.NoError(t, err)
	assert.Len(t, versions, 3)
	store.AssertExpectations(t)

	loadStore := &iocache.MockModelStore{}
	loadStore.On("Load", mock.Anything, schema.MetricGreenScore).
		Return(schema.ModelRecord{Name: schema.MetricGreenScore, Payload: payloads[schema.MetricGreenScore]}, true, nil)
	loadStore.On("Load", mock.Anything, schema.MetricEnergy).
		Return(schema.ModelRecord{}, false, nil)
	loadStore.On("Load", mock.Anything, schema.MetricCO2).
		Return(schema.ModelRecord{Name: schema.MetricCO2, Payload: []byte(`{"version":1,"features":24,"trees":[{"nodes":[{"l":5,"r":6}]}]}`)}, true, nil)

	logger, hook := test.NewNullLogger()
	registry, err := LoadRegistry(context.Background(), loadStore, logger)
	require.NoError(t, err)
	assert.Equal(t, []schema.MetricName{schema.MetricGreenScore}, registry.Names())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Skipping corrupt model", hook.LastEntry().Message)

	vec := features.Extract(efficientSum.code, schema.Python)
	want, _ := result.Models[schema.MetricGreenScore].Predict(vec)
	got, err := registry.Evaluate(schema.MetricGreenScore, vec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeForest(t *testing.T) {
	_, err := DecodeForest([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeForest([]byte(`{"version":99,"features":24,"trees":[]}`))
	assert.Error(t, err)

	_, err = DecodeForest([]byte(`{"version":1,"features":24,"trees":[{"nodes":[]}]}`))
	assert.Error(t, err)

	f := &Forest{Version: ForestVersion, Features: schema.FeatureLen, Trees: []Tree{{Nodes: []Node{{Left: -1, Right: -1, Value: 3}}}}}
	payload, err := json.Marshal(f)
	require.NoError(t, err)
	decoded, err := DecodeForest(payload)
	require.NoError(t, err)
	v, err := decoded.Predict(schema.FeatureVector{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func BenchmarkFitForest(b *testing.B) {
	samples := SyntheticSamples(200, 42)
	x := make([]schema.FeatureVector, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = features.Extract(s.Code, s.Language)
		y[i] = s.Metrics["green_score"]
	}
	for b.Loop() {
		_, _ = FitForest(context.Background(), x, y, smallForest())
	}
}
