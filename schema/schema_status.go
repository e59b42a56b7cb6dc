package schema

import "time"

// HistoryStatus represents the status of the analysis history store.
type HistoryStatus struct {
	Backend          string                    `json:"backend"`
	Connected        bool                      `json:"connected"`
	TotalAnalyses    int                       `json:"total_analyses"`
	LastAnalysisID   int64                     `json:"last_analysis_id"`
	LastAnalysisTime time.Time                 `json:"last_analysis_time"`
	OldestTime       time.Time                 `json:"oldest_time"`
	AverageScore     float64                   `json:"average_score"`
	TotalCO2g        float64                   `json:"total_co2_g"`
	TotalEnergyWh    float64                   `json:"total_energy_wh"`
	Languages        map[Language]LanguageStat `json:"languages"`
}

// LanguageStat aggregates history rows for one language.
type LanguageStat struct {
	Count             int     `json:"count"`
	AverageGreenScore float64 `json:"average_green_score"`
	TotalCO2g         float64 `json:"total_co2_g"`
	TotalEnergyWh     float64 `json:"total_energy_wh"`
}

// ModelStatus represents the status of the model store.
type ModelStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalModels     int       `json:"total_models"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}
