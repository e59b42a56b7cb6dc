package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/greenscore/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintHistoryStatus prints history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Analyses: %d\n", status.TotalAnalyses)
	if status.TotalAnalyses == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Last Analysis ID: %d\n", status.LastAnalysisID)
	_, _ = fmt.Fprintf(w, "Last Analysis: %s\n", status.LastAnalysisTime.Format(statusTimeFormat))
	_, _ = fmt.Fprintf(w, "Oldest Analysis: %s\n", status.OldestTime.Format(statusTimeFormat))
	_, _ = fmt.Fprintf(w, "Average Green Score: %.2f\n", status.AverageScore)
	_, _ = fmt.Fprintf(w, "Total CO2: %.4f g\n", status.TotalCO2g)
	_, _ = fmt.Fprintf(w, "Total Energy: %.4f Wh\n", status.TotalEnergyWh)

	languages := make([]schema.Language, 0, len(status.Languages))
	for lang := range status.Languages {
		languages = append(languages, lang)
	}
	slices.Sort(languages)

	_, _ = fmt.Fprintln(w, "Languages:")
	for _, lang := range languages {
		stat := status.Languages[lang]
		_, _ = fmt.Fprintf(w, "  %s: %d analyses, avg score %.2f, %.4f g CO2\n", lang, stat.Count, stat.AverageGreenScore, stat.TotalCO2g)
	}
}

// PrintModelStatus prints model store status information.
func PrintModelStatus(w io.Writer, status schema.ModelStatus) {
	_, _ = fmt.Fprintf(w, "Model Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Models: %d\n", status.TotalModels)
	if status.TotalModels > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}
