package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// analysisColumns is the column order shared by inserts and selects.
var analysisColumns = []string{
	"run_id", "source", "language", "region", "analyzed_at", "code_length",
	"green_score", "energy_wh", "co2_g", "cpu_time_ms", "memory_mb",
	"complexity_score", "time_complexity", "suggestion_count", "high_severity",
}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	builder sqrl.StatementBuilderType
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:      db,
		backend: backend,
		builder: statementBuilder(backend),
	}, nil
}

// Record stores one analysis and returns its row id.
func (hs *HistoryStoreImpl) Record(ctx context.Context, rec schema.AnalysisRecord) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}
	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = time.Now()
	}

	insert := hs.builder.Insert(analysesTable).Columns(analysisColumns...).Values(
		rec.RunID, rec.Source, string(rec.Language), string(rec.Region), rec.AnalyzedAt.UnixMilli(), rec.CodeLength,
		rec.GreenScore, rec.EnergyWh, rec.CO2g, rec.CPUTimeMs, rec.MemoryMB,
		rec.ComplexityScore, rec.TimeComplexity, rec.SuggestionCount, rec.HighSeverity,
	)

	// PostgreSQL has no LastInsertId support
	if hs.backend == schema.PostgreSQLBackend {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := hs.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record analysis: %w", err)
		}
		return id, nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := hs.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record analysis: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent analyses first.
func (hs *HistoryStoreImpl) List(ctx context.Context, limit int) ([]schema.AnalysisRecord, error) {
	if hs.db == nil {
		return []schema.AnalysisRecord{}, nil
	}

	sel := hs.builder.Select(append([]string{"id"}, analysisColumns...)...).
		From(analysesTable).
		OrderBy("analyzed_at DESC", "id DESC")
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := hs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []schema.AnalysisRecord{}
	for rows.Next() {
		var rec schema.AnalysisRecord
		var language, region string
		var analyzedAt int64
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Source, &language, &region, &analyzedAt, &rec.CodeLength,
			&rec.GreenScore, &rec.EnergyWh, &rec.CO2g, &rec.CPUTimeMs, &rec.MemoryMB,
			&rec.ComplexityScore, &rec.TimeComplexity, &rec.SuggestionCount, &rec.HighSeverity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		rec.Language = schema.Language(language)
		rec.Region = schema.Region(region)
		rec.AnalyzedAt = time.UnixMilli(analyzedAt)
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return results, nil
}

// GetStatus returns aggregate information about the history store.
func (hs *HistoryStoreImpl) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Languages: map[schema.Language]schema.LanguageStat{},
	}
	if hs.db == nil {
		return status, nil
	}
	status.Connected = true

	query, args, err := hs.builder.Select(
		"COUNT(*)",
		"COALESCE(MAX(id), 0)",
		"COALESCE(MAX(analyzed_at), 0)",
		"COALESCE(MIN(analyzed_at), 0)",
		"COALESCE(AVG(green_score), 0)",
		"COALESCE(SUM(co2_g), 0)",
		"COALESCE(SUM(energy_wh), 0)",
	).From(analysesTable).ToSql()
	if err != nil {
		return status, err
	}

	var newest, oldest int64
	if err := hs.db.QueryRowContext(ctx, query, args...).Scan(
		&status.TotalAnalyses, &status.LastAnalysisID, &newest, &oldest,
		&status.AverageScore, &status.TotalCO2g, &status.TotalEnergyWh,
	); err != nil {
		return status, fmt.Errorf("failed to query history status: %w", err)
	}
	if status.TotalAnalyses > 0 {
		status.LastAnalysisTime = time.UnixMilli(newest)
		status.OldestTime = time.UnixMilli(oldest)
	}

	query, args, err = hs.builder.Select(
		"language", "COUNT(*)", "AVG(green_score)", "SUM(co2_g)", "SUM(energy_wh)",
	).From(analysesTable).GroupBy("language").ToSql()
	if err != nil {
		return status, err
	}
	rows, err := hs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return status, fmt.Errorf("failed to query language breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var language string
		var stat schema.LanguageStat
		if err := rows.Scan(&language, &stat.Count, &stat.AverageGreenScore, &stat.TotalCO2g, &stat.TotalEnergyWh); err != nil {
			return status, fmt.Errorf("failed to scan language breakdown: %w", err)
		}
		status.Languages[schema.Language(language)] = stat
	}
	return status, rows.Err()
}

// Clear removes every recorded analysis.
func (hs *HistoryStoreImpl) Clear(ctx context.Context) error {
	if hs.db == nil {
		return nil
	}
	query, args, err := hs.builder.Delete(analysesTable).ToSql()
	if err != nil {
		return err
	}
	if _, err := hs.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear analyses: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
