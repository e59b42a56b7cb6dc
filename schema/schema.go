// Package schema has the models and constants shared by every part of greenscore.
package schema

// FeatureLen is the fixed dimensionality of a FeatureVector.
const FeatureLen = 24

// FeatureVector is the fixed-length numeric summary of a code sample.
type FeatureVector [FeatureLen]float64

// Feature indices within a FeatureVector.
const (
	FeatLength        = iota // code length in bytes
	FeatNewlines             // newline count
	FeatSpaces               // space count
	FeatTabs                 // tab count
	FeatFor                  // for-loop tokens
	FeatWhile                // while-loop tokens
	FeatIf                   // conditional tokens
	FeatFunc                 // function definition tokens
	FeatClass                // class definition tokens
	FeatIndexIter            // index-based iteration anti-pattern
	FeatComprehension        // comprehension or functional-collection markers
	FeatBuiltin              // built-in aggregate calls
	FeatFunctional           // functional combinator calls
	FeatLambda               // lambda or arrow functions
	FeatImport               // import or include statements
	FeatFromImport           // from-imports or secondary import form
	FeatASTFor               // AST For nodes (pattern loops for non-Python)
	FeatASTWhile             // AST While nodes (pattern conditionals for non-Python)
	FeatASTIf                // AST If nodes (pattern functions for non-Python)
	FeatASTFunctionDef       // AST FunctionDef nodes (pattern classes for non-Python)
	FeatASTClassDef          // AST ClassDef nodes
	FeatASTListComp          // AST ListComp nodes
	FeatASTDictComp          // AST DictComp nodes
	FeatASTSetComp           // AST SetComp nodes
)

// CodeSample is an immutable analyzer input.
type CodeSample struct {
	Source   string   `json:"source"`
	Language Language `json:"language"`
}

// MetricSet holds the predicted resource metrics of a code sample.
type MetricSet struct {
	GreenScore      float64 `json:"green_score"`
	EnergyWh        float64 `json:"energy_wh"`
	CO2g            float64 `json:"co2_g"`
	CPUTimeMs       float64 `json:"cpu_time_ms"`
	MemoryMB        float64 `json:"memory_mb"`
	ComplexityScore float64 `json:"complexity_score"`
	TimeComplexity  string  `json:"time_complexity"`
}

// Improvement is the estimated gain of applying a suggestion.
type Improvement struct {
	GreenScore float64 `json:"green_score"`
	EnergyWh   float64 `json:"energy_wh"`
}

// Suggestion is a detected inefficiency with a before/after illustration.
type Suggestion struct {
	Finding              string      `json:"finding"`
	BeforeCode           string      `json:"before_code"`
	AfterCode            string      `json:"after_code"`
	Explanation          string      `json:"explanation"`
	PredictedImprovement Improvement `json:"predicted_improvement"`
	Severity             Severity    `json:"severity"`
}

// RealWorldImpact expresses energy and CO2 as everyday equivalents.
type RealWorldImpact struct {
	LightBulbHours   float64 `json:"light_bulb_hours"`
	TreePlantingDays float64 `json:"tree_planting_days"`
	CarMiles         float64 `json:"car_miles"`
	Description      string  `json:"description"`
}

// MemoryPatterns summarizes memory-related markers of a code sample.
type MemoryPatterns struct {
	ImportsCount             int    `json:"imports_count"`
	FunctionDefinitions      int    `json:"function_definitions"`
	ClassDefinitions         int    `json:"class_definitions"`
	EstimatedMemoryFootprint string `json:"estimated_memory_footprint"`
}

// AnalysisDetails is the detailed breakdown attached to an analysis.
type AnalysisDetails struct {
	LinesOfCode            int            `json:"lines_of_code"`
	CyclomaticComplexity   float64        `json:"cyclomatic_complexity"`
	MaintainabilityIndex   float64        `json:"maintainability_index"`
	CodeSmells             []string       `json:"code_smells"`
	AlgorithmComplexity    string         `json:"algorithm_complexity"`
	MemoryPatterns         MemoryPatterns `json:"memory_patterns"`
	PerformanceBottlenecks []string       `json:"performance_bottlenecks"`
}

// AnalysisResult is the complete output of an analyze call.
type AnalysisResult struct {
	Language        Language        `json:"language"`
	Region          Region          `json:"region"`
	Metrics         MetricSet       `json:"metrics"`
	Suggestions     []Suggestion    `json:"suggestions"`
	RealWorldImpact RealWorldImpact `json:"real_world_impact"`
	AnalysisDetails AnalysisDetails `json:"analysis_details"`
}

// ComparisonEntry is a single row of an optimization comparison table.
type ComparisonEntry struct {
	Original    string `json:"original"`
	Optimized   string `json:"optimized"`
	Improvement string `json:"improvement"`
}

// OptimizationResult is the complete output of an optimize call.
type OptimizationResult struct {
	DetectedLanguage              Language                   `json:"detected_language"`
	AnalysisSummary               string                     `json:"analysis_summary"`
	OriginalCode                  string                     `json:"original_code"`
	OptimizedCode                 string                     `json:"optimized_code"`
	CodeChanged                   bool                       `json:"code_changed"`
	ComparisonTable               map[string]ComparisonEntry `json:"comparison_table"`
	ImprovementsExplanation       string                     `json:"improvements_explanation"`
	ExpectedGreenScoreImprovement float64                    `json:"expected_green_score_improvement"`
	OriginalMetrics               MetricSet                  `json:"original_metrics"`
	OptimizedMetrics              MetricSet                  `json:"optimized_metrics"`
	AppliedRules                  []string                   `json:"applied_rules"`
}

// ComparisonMetricOrder is the display order of comparison table rows.
var ComparisonMetricOrder = []string{
	"green_score",
	"energy_wh",
	"co2_g",
	"cpu_time_ms",
	"memory_mb",
	"complexity_score",
	"time_complexity",
}

// FileAnalysis pairs an input path with its analysis.
type FileAnalysis struct {
	Path   string          `json:"path"`
	Result *AnalysisResult `json:"result"`
}

// Detection pairs an input path with its detected language.
type Detection struct {
	Path     string   `json:"path"`
	Language Language `json:"language"`
}

// ImpactReport is a standalone real-world impact computation.
type ImpactReport struct {
	EnergyWh float64         `json:"energy_wh"`
	CO2g     float64         `json:"co2_g"`
	Impact   RealWorldImpact `json:"real_world_impact"`
}
