package suggest

import "github.com/huangsam/greenscore/schema"

// LowScoreThreshold is the green score below which a general review is suggested.
const LowScoreThreshold = 40.0

var genericRules = []Rule{
	{
		Name: "low-green-score",
		Applies: func(_ string, metrics schema.MetricSet) bool {
			return metrics.GreenScore < LowScoreThreshold
		},
		Build: fixed(schema.Suggestion{
			Finding:              "Low Green Score detected",
			BeforeCode:           "Current implementation",
			AfterCode:            "Consider algorithmic improvements",
			Explanation:          "The code has significant efficiency issues that should be addressed",
			PredictedImprovement: improvement(20, -0.05),
			Severity:             schema.SeverityHigh,
		}),
	},
}
