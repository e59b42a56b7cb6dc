package learn

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/huangsam/greenscore/core/features"
	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
)

// DefaultTestFraction is the share of samples held out for evaluation.
const DefaultTestFraction = 0.2

// Targets maps each learned metric to its dataset column.
var Targets = map[schema.MetricName]string{
	schema.MetricGreenScore: "green_score",
	schema.MetricEnergy:     "energy_wh",
	schema.MetricCO2:        "co2_g",
}

// Trainer fits one forest per metric.
type Trainer struct {
	forest       ForestConfig
	testFraction float64
	logger       logrus.FieldLogger
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithForestConfig overrides the forest hyperparameters.
func WithForestConfig(cfg ForestConfig) TrainerOption {
	return func(t *Trainer) { t.forest = cfg }
}

// WithWorkers bounds the number of trees grown at once.
func WithWorkers(n int) TrainerOption {
	return func(t *Trainer) { t.forest.Workers = n }
}

// WithLogger sets the progress logger.
func WithLogger(l logrus.FieldLogger) TrainerOption {
	return func(t *Trainer) { t.logger = l }
}

// NewTrainer creates a Trainer with the default forest configuration.
func NewTrainer(opts ...TrainerOption) *Trainer {
	t := &Trainer{
		forest:       DefaultForestConfig,
		testFraction: DefaultTestFraction,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Result holds the trained models and their evaluations.
type Result struct {
	Models      map[schema.MetricName]*Forest
	Evaluations []schema.ModelEvaluation
}

// Train fits a forest for every metric in schema.AllMetricNames. Samples
// without the target column are ignored for that metric; a metric with
// fewer than two labeled samples is an error.
func (t *Trainer) Train(ctx context.Context, samples []schema.TrainingSample) (*Result, error) {
	vectors := make([]schema.FeatureVector, len(samples))
	for i, s := range samples {
		vectors[i] = features.Extract(s.Code, s.Language)
	}

	result := &Result{Models: make(map[schema.MetricName]*Forest, len(Targets))}
	for _, name := range schema.AllMetricNames {
		column := Targets[name]
		var x []schema.FeatureVector
		var y []float64
		for i, s := range samples {
			if v, ok := s.Metrics[column]; ok && !math.IsNaN(v) {
				x = append(x, vectors[i])
				y = append(y, v)
			}
		}
		if len(x) < 2 {
			return nil, fmt.Errorf("not enough labeled samples for %s: %d", name, len(x))
		}

		trainIdx, testIdx := split(len(x), t.testFraction, t.forest.Seed)
		forest, err := FitForest(ctx, pick(x, trainIdx), pick(y, trainIdx), t.forest)
		if err != nil {
			return nil, fmt.Errorf("failed to train %s model: %w", name, err)
		}

		eval := evaluate(forest, x, y, trainIdx, testIdx)
		eval.Name = name
		t.logger.WithFields(logrus.Fields{
			"model":    name,
			"train_r2": eval.TrainR2,
			"test_r2":  eval.TestR2,
			"mae":      eval.MAE,
			"rmse":     eval.RMSE,
		}).Info("Trained model")

		result.Models[name] = forest
		result.Evaluations = append(result.Evaluations, eval)
	}
	return result, nil
}

// split shuffles n indices and holds out ceil(n*fraction) of them, at least one.
func split(n int, fraction float64, seed uint64) (train, test []int) {
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	nTest := int(math.Ceil(float64(n) * fraction))
	nTest = min(max(nTest, 1), n-1)
	return perm[nTest:], perm[:nTest]
}

func pick[T any](values []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func evaluate(f *Forest, x []schema.FeatureVector, y []float64, trainIdx, testIdx []int) schema.ModelEvaluation {
	predictAll := func(idx []int) (truth, pred []float64) {
		for _, i := range idx {
			v, _ := f.Predict(x[i])
			truth = append(truth, y[i])
			pred = append(pred, v)
		}
		return truth, pred
	}
	trainTruth, trainPred := predictAll(trainIdx)
	testTruth, testPred := predictAll(testIdx)
	return schema.ModelEvaluation{
		TrainR2: R2(trainTruth, trainPred),
		TestR2:  R2(testTruth, testPred),
		MAE:     MAE(testTruth, testPred),
		RMSE:    RMSE(testTruth, testPred),
		Samples: len(y),
	}
}

// R2 is the coefficient of determination. With constant truth it is 1 for a
// perfect prediction and 0 otherwise.
func R2(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range truth {
		mean += v
	}
	mean /= float64(len(truth))

	var ssRes, ssTot float64
	for i, v := range truth {
		ssRes += (v - pred[i]) * (v - pred[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MAE is the mean absolute error.
func MAE(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	sum := 0.0
	for i, v := range truth {
		sum += math.Abs(v - pred[i])
	}
	return sum / float64(len(truth))
}

// RMSE is the root mean squared error.
func RMSE(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	sum := 0.0
	for i, v := range truth {
		sum += (v - pred[i]) * (v - pred[i])
	}
	return math.Sqrt(sum / float64(len(truth)))
}
