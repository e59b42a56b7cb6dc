package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// dispatch routes a result to the writer for the configured output mode.
// Text is the default for any mode without a dedicated writer.
func dispatch(cfg *contract.Config, text, jsonOut, csvOut, markdown func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, jsonOut, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, csvOut, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := writeWithFile(cfg.OutputFile, markdown, "Wrote Markdown"); err != nil {
			return fmt.Errorf("error writing Markdown output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, text, "Wrote table")
	}
	return nil
}

// renderTable writes rows as a bordered text table or a markdown table.
func renderTable(w io.Writer, headers []string, rows [][]string, markdown bool) error {
	var table *tablewriter.Table
	if markdown {
		table = tablewriter.NewTable(w, tablewriter.WithRenderer(renderer.NewMarkdown()))
	} else {
		table = tablewriter.NewWriter(w)
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
	}
	table.Header(headers)

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// scoreLabel returns the colored label for tables and the plain label otherwise.
func scoreLabel(score float64, colored bool) string {
	if colored {
		return contract.GetColorLabel(score)
	}
	return schema.GetPlainLabel(score)
}

// severityLabel mirrors scoreLabel for suggestion severities.
func severityLabel(severity schema.Severity, colored bool) string {
	if colored {
		return contract.GetSeverityLabel(severity)
	}
	return string(severity)
}
