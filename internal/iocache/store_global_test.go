package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStores(t *testing.T) {
	dir := t.TempDir()
	err := InitStores(
		schema.SQLiteBackend, filepath.Join(dir, "history.db"),
		schema.NoneBackend, "",
	)
	require.NoError(t, err)
	t.Cleanup(CloseStores)

	require.NotNil(t, Manager.GetHistoryStore())
	require.NotNil(t, Manager.GetModelStore())

	status, err := Manager.GetHistoryStore().GetStatus(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Connected)

	modelStatus, err := Manager.GetModelStore().GetStatus(t.Context())
	require.NoError(t, err)
	assert.False(t, modelStatus.Connected)

	// Later calls are ignored
	assert.NoError(t, InitStores(schema.MySQLBackend, "bogus", schema.MySQLBackend, "bogus"))
}

func TestClearHistory(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())
		require.FileExists(t, dbPath)

		require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearModels(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.ErrorContains(t, ClearModels("oracle", "", ""), "unsupported backend")
	})
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, "sqlite"},
		{schema.MySQLBackend, "mysql"},
		{schema.PostgreSQLBackend, "pgx"},
	}
	for _, tt := range tests {
		got, err := driverName(tt.backend)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
	_, err := driverName(schema.NoneBackend)
	assert.Error(t, err)
}

func TestStatementBuilderPlaceholders(t *testing.T) {
	query, _, err := statementBuilder(schema.PostgreSQLBackend).Delete(analysesTable).Where("id = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM greenscore_analyses WHERE id = $1", query)

	query, _, err = statementBuilder(schema.MySQLBackend).Delete(analysesTable).Where("id = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM greenscore_analyses WHERE id = ?", query)
}
