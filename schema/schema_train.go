package schema

// TrainingSample is one labeled code sample used to fit regressors.
type TrainingSample struct {
	Code     string
	Language Language
	Metrics  map[string]float64 // numeric dataset columns
	Labels   map[string]string  // textual dataset columns
}

// ModelEvaluation holds the fit quality of a single regressor.
type ModelEvaluation struct {
	Name    MetricName `json:"name"`
	TrainR2 float64    `json:"train_r2"`
	TestR2  float64    `json:"test_r2"`
	MAE     float64    `json:"mae"`
	RMSE    float64    `json:"rmse"`
	Samples int        `json:"samples"`
}

// TrainingReport summarizes an offline training run.
type TrainingReport struct {
	DatasetRows      int               `json:"dataset_rows"`
	SyntheticSamples int               `json:"synthetic_samples"`
	Evaluations      []ModelEvaluation `json:"evaluations"`
}
