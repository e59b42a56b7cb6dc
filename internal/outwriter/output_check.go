package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// maxViolationsShown bounds the failure listing in text output.
const maxViolationsShown = 10

// WriteCheckResult outputs a policy check result in a concise format suitable for CI/CD.
func WriteCheckResult(result *schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeCheckText(w, result, duration) },
		func(w io.Writer) error { return writeJSON(w, result) },
		func(w io.Writer) error { return writeCheckCSV(w, result) },
		func(w io.Writer) error { return writeCheckText(w, result, duration) },
	)
}

func writeCheckText(w io.Writer, result *schema.CheckResult, duration time.Duration) error {
	writeCheckHeader(w, result, duration)
	if result.Passed {
		writeCheckSuccess(w, result)
	} else {
		writeCheckFailure(w, result)
	}
	return nil
}

// writeCheckHeader prints the common header information for check results.
func writeCheckHeader(w io.Writer, result *schema.CheckResult, duration time.Duration) {
	_, _ = fmt.Fprintln(w, "Policy Check Results:")

	labels := []string{"Min Score:", "Fail On High:"}
	values := []any{fmt.Sprintf("%.1f", result.MinScore), result.FailOnHigh}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}
	for i, label := range labels {
		_, _ = fmt.Fprintf(w, "  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Checked %d files in %v\n\n", result.TotalFiles, duration.Round(time.Millisecond))
}

func writeCheckSuccess(w io.Writer, result *schema.CheckResult) {
	_, _ = fmt.Fprintf(w, "✅ All files passed policy checks\n\n")
	_, _ = fmt.Fprintln(w, "Scores observed:")
	_, _ = fmt.Fprintf(w, "  average=%.1f\n", result.AverageScore)
	if result.LowestFile != "" {
		_, _ = fmt.Fprintf(w, "  lowest=%.1f (%s)\n", result.LowestScore, result.LowestFile)
	}
}

func writeCheckFailure(w io.Writer, result *schema.CheckResult) {
	_, _ = fmt.Fprintf(w, "❌ Policy check failed: %d violation(s) found across %d files\n\n", len(result.FailedFiles), result.TotalFiles)

	for i, f := range result.FailedFiles {
		if i >= maxViolationsShown {
			_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(result.FailedFiles)-i)
			break
		}
		_, _ = fmt.Fprintf(w, "  - %s (score: %.1f, threshold: %.1f): %s\n", f.Path, f.Score, f.Threshold, f.Reason)
	}
}

func writeCheckCSV(w io.Writer, result *schema.CheckResult) error {
	return writeCSVWithHeader(w, []string{"path", "score", "threshold", "reason"}, func(cw *csv.Writer) error {
		for _, f := range result.FailedFiles {
			if err := cw.Write([]string{f.Path, fmt.Sprintf("%.2f", f.Score), fmt.Sprintf("%.2f", f.Threshold), f.Reason}); err != nil {
				return err
			}
		}
		return nil
	})
}
