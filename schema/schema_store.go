package schema

import "time"

// AnalysisRecord represents a row from the greenscore_analyses table.
type AnalysisRecord struct {
	ID              int64
	RunID           string
	Source          string // file path or "stdin"
	Language        Language
	Region          Region
	AnalyzedAt      time.Time
	CodeLength      int
	GreenScore      float64
	EnergyWh        float64
	CO2g            float64
	CPUTimeMs       float64
	MemoryMB        float64
	ComplexityScore float64
	TimeComplexity  string
	SuggestionCount int
	HighSeverity    int
}

// ModelRecord represents a persisted regressor for one metric.
type ModelRecord struct {
	Name       MetricName
	Payload    []byte
	Version    int
	RecordedAt time.Time
}

// ModelVersion is one entry of the model versions manifest.
type ModelVersion struct {
	Name       string             `json:"name"`
	Metrics    map[string]float64 `json:"metrics"`
	RecordedAt time.Time          `json:"recorded_at"`
	Version    int                `json:"version"`
}
