package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// ModelStoreImpl implements the ModelStore interface.
type ModelStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	builder sqrl.StatementBuilderType
}

var _ contract.ModelStore = &ModelStoreImpl{} // Compile-time check

// NewModelStore creates a new ModelStore with the specified backend.
func NewModelStore(backend schema.DatabaseBackend, connStr string) (*ModelStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &ModelStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetModelDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create model tables: %w", err)
	}

	return &ModelStoreImpl{
		db:      db,
		backend: backend,
		builder: statementBuilder(backend),
	}, nil
}

// Save stores payload as the next version of the named model.
func (ms *ModelStoreImpl) Save(ctx context.Context, name schema.MetricName, payload []byte, evaluation map[string]float64) (schema.ModelVersion, error) {
	version := schema.ModelVersion{
		Name:       string(name),
		Metrics:    evaluation,
		RecordedAt: time.Now(),
	}
	if ms.db == nil {
		return version, nil
	}
	if version.Metrics == nil {
		version.Metrics = map[string]float64{}
	}

	encoded, err := json.Marshal(version.Metrics)
	if err != nil {
		return version, fmt.Errorf("failed to encode evaluation: %w", err)
	}

	tx, err := ms.db.BeginTx(ctx, nil)
	if err != nil {
		return version, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := ms.builder.Select("COALESCE(MAX(version), 0)").
		From(modelsTable).
		Where(sqrl.Eq{"name": string(name)}).
		ToSql()
	if err != nil {
		return version, err
	}
	var latest int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return version, fmt.Errorf("failed to read latest version of %s: %w", name, err)
	}
	version.Version = latest + 1

	query, args, err = ms.builder.Insert(modelsTable).
		Columns("name", "version", "payload", "evaluation", "recorded_at").
		Values(string(name), version.Version, payload, string(encoded), version.RecordedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return version, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return version, fmt.Errorf("failed to save model %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return version, fmt.Errorf("failed to commit model %s: %w", name, err)
	}
	return version, nil
}

// Load returns the latest version of the named model.
func (ms *ModelStoreImpl) Load(ctx context.Context, name schema.MetricName) (schema.ModelRecord, bool, error) {
	rec := schema.ModelRecord{Name: name}
	if ms.db == nil {
		return rec, false, nil
	}

	query, args, err := ms.builder.Select("payload", "version", "recorded_at").
		From(modelsTable).
		Where(sqrl.Eq{"name": string(name)}).
		OrderBy("version DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return rec, false, err
	}

	var recordedAt int64
	err = ms.db.QueryRowContext(ctx, query, args...).Scan(&rec.Payload, &rec.Version, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("failed to load model %s: %w", name, err)
	}
	rec.RecordedAt = time.UnixMilli(recordedAt)
	return rec, true, nil
}

// Versions returns the versions manifest, newest first.
func (ms *ModelStoreImpl) Versions(ctx context.Context) ([]schema.ModelVersion, error) {
	if ms.db == nil {
		return []schema.ModelVersion{}, nil
	}

	query, args, err := ms.builder.Select("name", "version", "evaluation", "recorded_at").
		From(modelsTable).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := ms.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query model versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []schema.ModelVersion{}
	for rows.Next() {
		var v schema.ModelVersion
		var evaluation string
		var recordedAt int64
		if err := rows.Scan(&v.Name, &v.Version, &evaluation, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model version: %w", err)
		}
		if err := json.Unmarshal([]byte(evaluation), &v.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode evaluation of %s v%d: %w", v.Name, v.Version, err)
		}
		v.RecordedAt = time.UnixMilli(recordedAt)
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model versions: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the model store.
func (ms *ModelStoreImpl) GetStatus(ctx context.Context) (schema.ModelStatus, error) {
	status := schema.ModelStatus{Backend: string(ms.backend)}
	if ms.db == nil {
		return status, nil
	}
	status.Connected = true

	query, args, err := ms.builder.Select(
		"COUNT(*)",
		"COALESCE(MAX(recorded_at), 0)",
		"COALESCE(MIN(recorded_at), 0)",
		"COALESCE(SUM(LENGTH(payload)), 0)",
	).From(modelsTable).ToSql()
	if err != nil {
		return status, err
	}

	var newest, oldest int64
	if err := ms.db.QueryRowContext(ctx, query, args...).Scan(
		&status.TotalModels, &newest, &oldest, &status.TableSizeBytes,
	); err != nil {
		return status, fmt.Errorf("failed to query model status: %w", err)
	}
	if status.TotalModels > 0 {
		status.LastEntryTime = time.UnixMilli(newest)
		status.OldestEntryTime = time.UnixMilli(oldest)
	}
	return status, nil
}

// Clear removes every stored model.
func (ms *ModelStoreImpl) Clear(ctx context.Context) error {
	if ms.db == nil {
		return nil
	}
	query, args, err := ms.builder.Delete(modelsTable).ToSql()
	if err != nil {
		return err
	}
	if _, err := ms.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear models: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (ms *ModelStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}
