package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/parquet"
)

// ExecuteHistoryExport writes every recorded analysis to a Parquet file.
// When a model store is given, its versions manifest is written alongside.
func ExecuteHistoryExport(ctx context.Context, w io.Writer, history contract.HistoryStore, models contract.ModelStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := history.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalAnalyses == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analyses: %d\n", status.TotalAnalyses)

	records, err := history.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve analyses: %w", err)
	}
	analysesFile := outputFile + ".analyses.parquet"
	if err := parquet.WriteAnalysesParquet(parquet.ConvertAnalysisRecords(records), analysesFile); err != nil {
		return fmt.Errorf("failed to write analyses: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analyses to: %s\n", len(records), analysesFile)

	if models != nil {
		versions, err := models.Versions(ctx)
		if err != nil {
			return fmt.Errorf("failed to retrieve model versions: %w", err)
		}
		if len(versions) > 0 {
			versionsFile := outputFile + ".model_versions.parquet"
			if err := parquet.WriteModelVersionsParquet(parquet.ConvertModelVersions(versions), versionsFile); err != nil {
				return fmt.Errorf("failed to write model versions: %w", err)
			}
			_, _ = fmt.Fprintf(w, "Exported %d model versions to: %s\n", len(versions), versionsFile)
		}
	}

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
