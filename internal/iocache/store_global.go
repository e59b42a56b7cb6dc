package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// GetModelDBFilePath returns the path to the SQLite DB file for model storage.
func GetModelDBFilePath() string {
	return contract.GetModelDBFilePath()
}

// InitStores initializes the global manager with separate history and model stores.
// An empty backend leaves the corresponding store unset.
func InitStores(historyBackend schema.DatabaseBackend, historyConnStr string, modelBackend schema.DatabaseBackend, modelConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var historyStore contract.HistoryStore
		if historyBackend != "" {
			historyStore, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		var modelStore contract.ModelStore
		if modelBackend != "" {
			modelStore, err = NewModelStore(modelBackend, modelConnStr)
			if err != nil {
				if historyStore != nil {
					_ = historyStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize model store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.history = historyStore
		Manager.models = modelStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
		if Manager.models != nil {
			_ = Manager.models.Close()
		}
	})
}

// ClearHistory clears the history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it deletes every row.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, analysesTable)
}

// ClearModels clears the trained models for the specified backend.
func ClearModels(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, modelsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr, table string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, table)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable deletes every row of the table. The table itself is kept so
// the recorded migration version stays accurate.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	db, err := openDB(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	query, args, err := statementBuilder(backend).Delete(tableName).ToSql()
	if err != nil {
		return err
	}
	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", tableName, err)
	}
	return nil
}
