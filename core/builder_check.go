package core

import (
	"fmt"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// Reasons reported for failed files.
const (
	reasonBelowMinimum = "green score below minimum"
	reasonHighSeverity = "high severity finding"
)

// CheckResultBuilder builds the check result using a builder pattern.
type CheckResultBuilder struct {
	cfg          *contract.Config
	analyses     []schema.FileAnalysis
	failedFiles  []schema.CheckFailedFile
	averageScore float64
	lowestScore  float64
	lowestFile   string
	result       *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder over completed analyses.
func NewCheckResultBuilder(cfg *contract.Config, analyses []schema.FileAnalysis) *CheckResultBuilder {
	return &CheckResultBuilder{cfg: cfg, analyses: analyses}
}

// ComputeMetrics calculates score statistics and identifies failed files.
// A file fails once per violated rule.
func (b *CheckResultBuilder) ComputeMetrics() *CheckResultBuilder {
	b.failedFiles = []schema.CheckFailedFile{}
	sum := 0.0
	for i, fa := range b.analyses {
		score := fa.Result.Metrics.GreenScore
		sum += score
		if i == 0 || score < b.lowestScore {
			b.lowestScore = score
			b.lowestFile = fa.Path
		}

		if score < b.cfg.MinScore {
			b.failedFiles = append(b.failedFiles, schema.CheckFailedFile{
				Path:      fa.Path,
				Score:     score,
				Threshold: b.cfg.MinScore,
				Reason:    reasonBelowMinimum,
			})
		}
		if b.cfg.FailOnHigh {
			if high := countSeverity(fa.Result.Suggestions, schema.SeverityHigh); high > 0 {
				b.failedFiles = append(b.failedFiles, schema.CheckFailedFile{
					Path:      fa.Path,
					Score:     score,
					Threshold: b.cfg.MinScore,
					Reason:    fmt.Sprintf("%d %s(s)", high, reasonHighSeverity),
				})
			}
		}
	}
	if len(b.analyses) > 0 {
		b.averageScore = sum / float64(len(b.analyses))
	}
	return b
}

// BuildResult constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	b.result = &schema.CheckResult{
		Passed:       len(b.failedFiles) == 0,
		FailedFiles:  b.failedFiles,
		TotalFiles:   len(b.analyses),
		MinScore:     b.cfg.MinScore,
		FailOnHigh:   b.cfg.FailOnHigh,
		AverageScore: roundTo(b.averageScore, 2),
		LowestScore:  b.lowestScore,
		LowestFile:   b.lowestFile,
	}
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}
