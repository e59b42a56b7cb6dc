// Package learn trains and persists the regressors used by the metric predictor.
package learn

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// Columns is the header of a training dataset, in file order.
var Columns = []string{
	"code", "language", "green_score", "energy_wh", "co2_g", "cpu_time_ms", "memory_mb",
	"complexity", "duration", "emissions", "emissions_rate", "energy_consumed",
	"country_name", "region", "cloud_provider", "cloud_region", "os",
	"cpu_model", "gpu_model", "ram_total_size", "tracking_mode", "on_cloud", "pue",
}

// ErrMissingColumn is returned when a dataset header lacks a required column.
var ErrMissingColumn = errors.New("dataset is missing a required column")

// requiredColumns must appear in every dataset header; the rest are optional.
var requiredColumns = []string{"code"}

// LoadDatasetFile reads a dataset from disk. A missing file yields no samples
// and os.ErrNotExist so that callers can fall back to synthetic data.
func LoadDatasetFile(path string) ([]schema.TrainingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadDataset(f)
}

// LoadDataset parses a CSV dataset. Rows with empty code are skipped, an
// empty language defaults to python, numeric cells land in Metrics and
// everything else in Labels. Unparseable or empty numeric cells are omitted.
func LoadDataset(r io.Reader) ([]schema.TrainingSample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []schema.TrainingSample{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	samples := []schema.TrainingSample{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset line %d: %w", line, err)
		}
		if sample, ok := parseRecord(record, index); ok {
			samples = append(samples, sample)
		}
	}
	return samples, nil
}

func parseRecord(record []string, index map[string]int) (schema.TrainingSample, bool) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	code := cell("code")
	if strings.TrimSpace(code) == "" {
		return schema.TrainingSample{}, false
	}
	language := schema.Python
	if raw := strings.TrimSpace(cell("language")); raw != "" {
		language = schema.ParseLanguage(raw)
	}

	sample := schema.TrainingSample{
		Code:     code,
		Language: language,
		Metrics:  map[string]float64{},
		Labels:   map[string]string{},
	}
	for _, col := range Columns[2:] {
		raw := strings.TrimSpace(cell(col))
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			sample.Metrics[col] = v
		} else {
			sample.Labels[col] = raw
		}
	}
	return sample, true
}
