package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// comparisonLabels are the display names of comparison table rows.
var comparisonLabels = map[string]string{
	"green_score":      "Green Score",
	"energy_wh":        "Energy",
	"co2_g":            "CO2",
	"cpu_time_ms":      "CPU Time",
	"memory_mb":        "Memory",
	"complexity_score": "Complexity",
	"time_complexity":  "Time Complexity",
}

// WriteOptimizationResult outputs an optimization, dispatching based on the output format configured.
func WriteOptimizationResult(result *schema.OptimizationResult, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeOptimizationText(w, result, cfg.UseColors) },
		func(w io.Writer) error { return writeJSON(w, result) },
		func(w io.Writer) error { return writeOptimizationCSV(w, result) },
		func(w io.Writer) error { return writeOptimizationMarkdown(w, result) },
	)
}

func comparisonRows(result *schema.OptimizationResult) [][]string {
	rows := make([][]string, 0, len(schema.ComparisonMetricOrder))
	for _, key := range schema.ComparisonMetricOrder {
		entry, ok := result.ComparisonTable[key]
		if !ok {
			continue
		}
		rows = append(rows, []string{comparisonLabels[key], entry.Original, entry.Optimized, entry.Improvement})
	}
	return rows
}

func writeOptimizationText(w io.Writer, result *schema.OptimizationResult, colored bool) error {
	summary := result.AnalysisSummary
	if colored {
		c := color.New(color.FgYellow)
		if result.ExpectedGreenScoreImprovement > 0 {
			c = contract.GoodColor
		}
		summary = c.Sprint(summary)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", summary); err != nil {
		return err
	}

	if err := renderTable(w, []string{"Metric", "Original", "Optimized", "Improvement"}, comparisonRows(result), false); err != nil {
		return err
	}

	var b strings.Builder
	if len(result.AppliedRules) > 0 {
		fmt.Fprintf(&b, "\nApplied rules: %s\n", strings.Join(result.AppliedRules, ", "))
	}
	if result.ImprovementsExplanation != "" {
		fmt.Fprintf(&b, "\n%s\n", result.ImprovementsExplanation)
	}
	if result.CodeChanged {
		fmt.Fprintf(&b, "\nOptimized code:\n%s\n", strings.TrimRight(result.OptimizedCode, "\n"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeOptimizationMarkdown(w io.Writer, result *schema.OptimizationResult) error {
	if _, err := fmt.Fprintf(w, "## Optimization (%s)\n\n%s\n\n", result.DetectedLanguage, result.AnalysisSummary); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Metric", "Original", "Optimized", "Improvement"}, comparisonRows(result), true); err != nil {
		return err
	}

	var b strings.Builder
	if len(result.AppliedRules) > 0 {
		b.WriteString("\n**Applied rules**\n\n")
		for _, rule := range result.AppliedRules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
	}
	if result.ImprovementsExplanation != "" {
		fmt.Fprintf(&b, "\n%s\n", result.ImprovementsExplanation)
	}
	if result.CodeChanged {
		fmt.Fprintf(&b, "\n```%s\n%s\n```\n", result.DetectedLanguage, strings.TrimRight(result.OptimizedCode, "\n"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeOptimizationCSV(w io.Writer, result *schema.OptimizationResult) error {
	return writeCSVWithHeader(w, []string{"metric", "original", "optimized", "improvement"}, func(cw *csv.Writer) error {
		for _, key := range schema.ComparisonMetricOrder {
			entry, ok := result.ComparisonTable[key]
			if !ok {
				continue
			}
			if err := cw.Write([]string{key, entry.Original, entry.Optimized, entry.Improvement}); err != nil {
				return err
			}
		}
		return nil
	})
}
