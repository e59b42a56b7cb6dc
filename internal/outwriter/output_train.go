package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// WriteTrainingReport outputs the fit quality of each trained regressor.
func WriteTrainingReport(report *schema.TrainingReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeTrainingTable(w, report, cfg, duration, false) },
		func(w io.Writer) error { return writeJSON(w, report) },
		func(w io.Writer) error { return writeTrainingCSV(w, report) },
		func(w io.Writer) error { return writeTrainingTable(w, report, cfg, duration, true) },
	)
}

func trainingRows(report *schema.TrainingReport) [][]string {
	fmtFloat, _ := createFormatters(4)
	rows := make([][]string, 0, len(report.Evaluations))
	for _, e := range report.Evaluations {
		rows = append(rows, []string{
			string(e.Name),
			fmtFloat(e.TrainR2),
			fmtFloat(e.TestR2),
			fmtFloat(e.MAE),
			fmtFloat(e.RMSE),
			strconv.Itoa(e.Samples),
		})
	}
	return rows
}

func writeTrainingTable(w io.Writer, report *schema.TrainingReport, cfg *contract.Config, duration time.Duration, markdown bool) error {
	if _, err := fmt.Fprintf(w, "Trained on %d dataset rows and %d synthetic samples\n\n", report.DatasetRows, report.SyntheticSamples); err != nil {
		return err
	}
	headers := []string{"Model", "Train R2", "Test R2", "MAE", "RMSE", "Samples"}
	if err := renderTable(w, headers, trainingRows(report), markdown); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Training completed in %v with %d workers. Model backend: %s\n",
		duration.Round(time.Millisecond), cfg.Workers, cfg.ModelBackend)
	return err
}

func writeTrainingCSV(w io.Writer, report *schema.TrainingReport) error {
	header := []string{"name", "train_r2", "test_r2", "mae", "rmse", "samples"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.WriteAll(trainingRows(report))
	})
}
