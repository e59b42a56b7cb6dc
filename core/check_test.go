package core

import (
	"context"
	"testing"

	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func analysisWith(path string, score float64, severities ...schema.Severity) schema.FileAnalysis {
	suggestions := make([]schema.Suggestion, 0, len(severities))
	for _, s := range severities {
		suggestions = append(suggestions, schema.Suggestion{Finding: "finding", Severity: s})
	}
	return schema.FileAnalysis{
		Path: path,
		Result: &schema.AnalysisResult{
			Metrics:     schema.MetricSet{GreenScore: score},
			Suggestions: suggestions,
		},
	}
}

func TestCheckResultBuilder(t *testing.T) {
	tests := []struct {
		name       string
		minScore   float64
		failOnHigh bool
		analyses   []schema.FileAnalysis
		passed     bool
		reasons    []string
		lowest     string
		average    float64
	}{
		{
			name:     "all above minimum",
			minScore: 50,
			analyses: []schema.FileAnalysis{analysisWith("a.py", 80), analysisWith("b.py", 60, schema.SeverityHigh)},
			passed:   true,
			lowest:   "b.py",
			average:  70,
		},
		{
			name:     "below minimum",
			minScore: 70,
			analyses: []schema.FileAnalysis{analysisWith("a.py", 80), analysisWith("b.py", 60)},
			reasons:  []string{reasonBelowMinimum},
			lowest:   "b.py",
			average:  70,
		},
		{
			name:       "high severity fails only with fail-on-high",
			minScore:   50,
			failOnHigh: true,
			analyses:   []schema.FileAnalysis{analysisWith("a.py", 80, schema.SeverityHigh, schema.SeverityHigh, schema.SeverityMedium)},
			reasons:    []string{"2 high severity finding(s)"},
			lowest:     "a.py",
			average:    80,
		},
		{
			name:       "both rules on one file",
			minScore:   90,
			failOnHigh: true,
			analyses:   []schema.FileAnalysis{analysisWith("a.py", 30, schema.SeverityHigh)},
			reasons:    []string{reasonBelowMinimum, "1 high severity finding(s)"},
			lowest:     "a.py",
			average:    30,
		},
		{
			name:     "no inputs",
			minScore: 50,
			passed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MinScore = tt.minScore
			cfg.FailOnHigh = tt.failOnHigh

			result := NewCheckResultBuilder(cfg, tt.analyses).ComputeMetrics().BuildResult().GetResult()
			require.NotNil(t, result)

			var reasons []string
			for _, f := range result.FailedFiles {
				reasons = append(reasons, f.Reason)
			}
			assert.Equal(t, tt.reasons, reasons)
			assert.Equal(t, len(tt.reasons) == 0, result.Passed)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, len(tt.analyses), result.TotalFiles)
			assert.Equal(t, tt.lowest, result.LowestFile)
			assert.InDelta(t, tt.average, result.AverageScore, 1e-9)
			assert.Equal(t, tt.minScore, result.MinScore)
			assert.Equal(t, tt.failOnHigh, result.FailOnHigh)
		})
	}
}

func TestExecuteCheck(t *testing.T) {
	t.Run("passes", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinScore = 0

		out := &outwriter.MockOutputWriter{}
		out.On("WriteCheck", mock.MatchedBy(func(r *schema.CheckResult) bool { return r.Passed && r.TotalFiles == 1 }), cfg, mock.Anything).Return(nil)

		require.NoError(t, ExecuteCheck(context.Background(), cfg, NewAnalyzer(), out, []Input{{Path: "a.py", Code: efficientSum}}))
		out.AssertExpectations(t)
	})

	t.Run("fails after printing", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinScore = 100

		out := &outwriter.MockOutputWriter{}
		out.On("WriteCheck", mock.MatchedBy(func(r *schema.CheckResult) bool { return !r.Passed }), cfg, mock.Anything).Return(nil)

		err := ExecuteCheck(context.Background(), cfg, NewAnalyzer(), out, []Input{{Path: "slow.py", Code: inefficientSum}})
		require.ErrorIs(t, err, ErrCheckFailed)
		assert.Contains(t, err.Error(), "1 violation(s) found")
		out.AssertExpectations(t)
	})
}
