package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// WriteHistoryRecords outputs recorded analyses, newest first.
func WriteHistoryRecords(records []schema.AnalysisRecord, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeHistoryTable(w, records, cfg, false) },
		func(w io.Writer) error { return writeJSON(w, records) },
		func(w io.Writer) error { return writeHistoryCSV(w, records) },
		func(w io.Writer) error { return writeHistoryTable(w, records, cfg, true) },
	)
}

func writeHistoryTable(w io.Writer, records []schema.AnalysisRecord, cfg *contract.Config, markdown bool) error {
	colored := cfg.UseColors && !markdown
	fmtFloat, _ := createFormatters(2)
	fmtSmall, _ := createFormatters(4)

	headers := []string{"ID", "When", "Source", "Language", "Score", "Label", "CO2 (g)", "Findings"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		source := r.Source
		if !markdown {
			source = contract.TruncatePath(source, GetMaxTablePathWidth(cfg))
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.AnalyzedAt.Format(contract.DateTimeFormat),
			source,
			string(r.Language),
			fmtFloat(r.GreenScore),
			scoreLabel(r.GreenScore, colored),
			fmtSmall(r.CO2g),
			strconv.Itoa(r.SuggestionCount),
		})
	}
	if err := renderTable(w, headers, rows, markdown); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d most recent analyses. History backend: %s\n", len(records), cfg.HistoryBackend)
	return err
}

func writeHistoryCSV(w io.Writer, records []schema.AnalysisRecord) error {
	header := []string{
		"id", "run_id", "analyzed_at", "source", "language", "region", "code_length",
		"green_score", "energy_wh", "co2_g", "cpu_time_ms", "memory_mb",
		"complexity_score", "time_complexity", "suggestions", "high_severity",
	}
	fmtFloat, intFmt := createFormatters(4)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				strconv.FormatInt(r.ID, 10),
				r.RunID,
				r.AnalyzedAt.Format(contract.DateTimeFormat),
				r.Source,
				string(r.Language),
				string(r.Region),
				fmt.Sprintf(intFmt, r.CodeLength),
				fmtFloat(r.GreenScore),
				fmtFloat(r.EnergyWh),
				fmtFloat(r.CO2g),
				fmtFloat(r.CPUTimeMs),
				fmtFloat(r.MemoryMB),
				fmtFloat(r.ComplexityScore),
				r.TimeComplexity,
				fmt.Sprintf(intFmt, r.SuggestionCount),
				fmt.Sprintf(intFmt, r.HighSeverity),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteModelVersions outputs the model versions manifest.
func WriteModelVersions(versions []schema.ModelVersion, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeModelVersionsTable(w, versions, false) },
		func(w io.Writer) error { return writeJSON(w, versions) },
		func(w io.Writer) error { return writeModelVersionsCSV(w, versions) },
		func(w io.Writer) error { return writeModelVersionsTable(w, versions, true) },
	)
}

// evaluationKeys lists the manifest metrics in display order.
var evaluationKeys = []string{"train_r2", "test_r2", "mae", "rmse", "samples"}

func evaluationCells(metrics map[string]float64) []string {
	cells := make([]string, len(evaluationKeys))
	for i, key := range evaluationKeys {
		v, ok := metrics[key]
		switch {
		case !ok:
			cells[i] = "-"
		case key == "samples":
			cells[i] = strconv.Itoa(int(v))
		default:
			cells[i] = fmt.Sprintf("%.4f", v)
		}
	}
	return cells
}

func writeModelVersionsTable(w io.Writer, versions []schema.ModelVersion, markdown bool) error {
	headers := []string{"Model", "Version", "Recorded", "Train R2", "Test R2", "MAE", "RMSE", "Samples"}
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		row := []string{v.Name, strconv.Itoa(v.Version), v.RecordedAt.Format(contract.DateTimeFormat)}
		rows = append(rows, append(row, evaluationCells(v.Metrics)...))
	}
	return renderTable(w, headers, rows, markdown)
}

func writeModelVersionsCSV(w io.Writer, versions []schema.ModelVersion) error {
	header := append([]string{"name", "version", "recorded_at"}, evaluationKeys...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range versions {
			rec := []string{v.Name, strconv.Itoa(v.Version), v.RecordedAt.Format(contract.DateTimeFormat)}
			if err := cw.Write(append(rec, evaluationCells(v.Metrics)...)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDetections outputs the detected language of each input.
func WriteDetections(detections []schema.Detection, cfg *contract.Config) error {
	rows := func() [][]string {
		out := make([][]string, 0, len(detections))
		for _, d := range detections {
			out = append(out, []string{d.Path, string(d.Language)})
		}
		return out
	}
	return dispatch(cfg,
		func(w io.Writer) error { return renderTable(w, []string{"Path", "Language"}, rows(), false) },
		func(w io.Writer) error { return writeJSON(w, detections) },
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"path", "language"}, func(cw *csv.Writer) error {
				return cw.WriteAll(rows())
			})
		},
		func(w io.Writer) error { return renderTable(w, []string{"Path", "Language"}, rows(), true) },
	)
}

// WriteImpactReport outputs the everyday equivalents of an energy and CO2 figure.
func WriteImpactReport(report schema.ImpactReport, cfg *contract.Config) error {
	impact := report.Impact
	rows := [][]string{
		{"Light bulb hours", fmt.Sprintf("%.2f", impact.LightBulbHours)},
		{"Tree planting days", fmt.Sprintf("%.2f", impact.TreePlantingDays)},
		{"Car miles", fmt.Sprintf("%.2f", impact.CarMiles)},
	}
	text := func(markdown bool) func(io.Writer) error {
		return func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Per 1M executions of %.4f Wh / %.4f g CO2:\n\n", report.EnergyWh, report.CO2g); err != nil {
				return err
			}
			if err := renderTable(w, []string{"Equivalent", "Value"}, rows, markdown); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "\n%s\n", impact.Description)
			return err
		}
	}
	return dispatch(cfg,
		text(false),
		func(w io.Writer) error { return writeJSON(w, report) },
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"equivalent", "value"}, func(cw *csv.Writer) error {
				return cw.WriteAll(rows)
			})
		},
		text(true),
	)
}
