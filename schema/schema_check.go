package schema

// CheckResult holds the results of a green score policy check.
type CheckResult struct {
	Passed       bool              `json:"passed"`
	FailedFiles  []CheckFailedFile `json:"failed_files"`
	TotalFiles   int               `json:"total_files"`
	MinScore     float64           `json:"min_score"`
	FailOnHigh   bool              `json:"fail_on_high"`
	AverageScore float64           `json:"average_score"`
	LowestScore  float64           `json:"lowest_score"`
	LowestFile   string            `json:"lowest_file"`
}

// CheckFailedFile represents a file that failed the policy check.
type CheckFailedFile struct {
	Path      string  `json:"path"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Reason    string  `json:"reason"`
}
