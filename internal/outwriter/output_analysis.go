package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// analysisCSVHeader is the column order of analysis CSV output.
var analysisCSVHeader = []string{
	"path",
	"language",
	"region",
	"green_score",
	"label",
	"energy_wh",
	"co2_g",
	"cpu_time_ms",
	"memory_mb",
	"complexity_score",
	"time_complexity",
	"suggestions",
	"high_severity",
	"light_bulb_hours",
}

// WriteAnalysisResults outputs analysis results, dispatching based on the output format configured.
func WriteAnalysisResults(results []schema.FileAnalysis, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeAnalysisTable(w, results, cfg, duration, false) },
		func(w io.Writer) error { return writeJSON(w, results) },
		func(w io.Writer) error { return writeAnalysisCSV(w, results) },
		func(w io.Writer) error { return writeAnalysisTable(w, results, cfg, duration, true) },
	)
}

// writeAnalysisTable generates the human-readable or markdown summary table
// followed by the findings of each input.
func writeAnalysisTable(w io.Writer, results []schema.FileAnalysis, cfg *contract.Config, duration time.Duration, markdown bool) error {
	colored := cfg.UseColors && !markdown
	fmtFloat, _ := createFormatters(2)
	fmtSmall, _ := createFormatters(4)

	headers := []string{"Path", "Language", "Score", "Label", "Energy (Wh)", "CO2 (g)", "Big-O", "Findings"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		path := r.Path
		if !markdown {
			path = contract.TruncatePath(path, GetMaxTablePathWidth(cfg))
		}
		m := r.Result.Metrics
		rows = append(rows, []string{
			path,
			string(r.Result.Language),
			fmtFloat(m.GreenScore),
			scoreLabel(m.GreenScore, colored),
			fmtSmall(m.EnergyWh),
			fmtSmall(m.CO2g),
			m.TimeComplexity,
			strconv.Itoa(len(r.Result.Suggestions)),
		})
	}
	if err := renderTable(w, headers, rows, markdown); err != nil {
		return err
	}

	for _, r := range results {
		if len(r.Result.Suggestions) == 0 {
			continue
		}
		if err := writeSuggestions(w, r, colored, markdown); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nAnalyzed %d input(s) in %v with %d workers. History backend: %s\n",
		len(results), duration.Round(time.Millisecond), cfg.Workers, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeSuggestions lists the findings for one input with their before/after code.
func writeSuggestions(w io.Writer, r schema.FileAnalysis, colored, markdown bool) error {
	var b strings.Builder
	if markdown {
		fmt.Fprintf(&b, "\n### %s\n\n", r.Path)
	} else {
		fmt.Fprintf(&b, "\n%s\n", r.Path)
	}
	for _, s := range r.Result.Suggestions {
		if markdown {
			fmt.Fprintf(&b, "- **%s** %s (+%.0f green score)\n", s.Severity, s.Finding, s.PredictedImprovement.GreenScore)
			fmt.Fprintf(&b, "  - %s\n", s.Explanation)
			continue
		}
		fmt.Fprintf(&b, "  [%s] %s (+%.0f green score)\n", severityLabel(s.Severity, colored), s.Finding, s.PredictedImprovement.GreenScore)
		fmt.Fprintf(&b, "      %s\n", s.Explanation)
		if s.BeforeCode != "" {
			fmt.Fprintf(&b, "      before: %s\n", firstLine(s.BeforeCode))
			fmt.Fprintf(&b, "      after:  %s\n", firstLine(s.AfterCode))
		}
	}
	impact := r.Result.RealWorldImpact
	if impact.Description != "" {
		if markdown {
			fmt.Fprintf(&b, "\n> %s\n", impact.Description)
		} else {
			fmt.Fprintf(&b, "  %s\n", impact.Description)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeAnalysisCSV writes one row per analyzed input.
func writeAnalysisCSV(w io.Writer, results []schema.FileAnalysis) error {
	fmtFloat, intFmt := createFormatters(4)
	return writeCSVWithHeader(w, analysisCSVHeader, func(cw *csv.Writer) error {
		for _, r := range results {
			m := r.Result.Metrics
			rec := []string{
				r.Path,
				string(r.Result.Language),
				string(r.Result.Region),
				fmtFloat(m.GreenScore),
				schema.GetPlainLabel(m.GreenScore),
				fmtFloat(m.EnergyWh),
				fmtFloat(m.CO2g),
				fmtFloat(m.CPUTimeMs),
				fmtFloat(m.MemoryMB),
				fmtFloat(m.ComplexityScore),
				m.TimeComplexity,
				fmt.Sprintf(intFmt, len(r.Result.Suggestions)),
				fmt.Sprintf(intFmt, countHigh(r.Result.Suggestions)),
				fmtFloat(r.Result.RealWorldImpact.LightBulbHours),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func countHigh(suggestions []schema.Suggestion) int {
	n := 0
	for _, s := range suggestions {
		if s.Severity == schema.SeverityHigh {
			n++
		}
	}
	return n
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
