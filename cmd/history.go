package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/schema"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the analysis history store",
	Long: `Inspect, export and maintain the history of recorded analyses.

Analyses are recorded by "greenscore analyze --record". Each record keeps the
source, language, region, metrics, green score and suggestion count.

Examples:
  # Show the latest recorded analyses
  greenscore history list --limit 10

  # Check history status
  greenscore history status

  # Export history to Parquet
  greenscore history export --output-file history

  # Clear all history
  greenscore history clear`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyListCmd lists recent analyses.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent analyses",
	Long: `Print the most recent recorded analyses, newest first.

Examples:
  # Latest 25 analyses
  greenscore history list

  # Latest 100 as CSV
  greenscore history list --limit 100 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(rootCtx, cfg, iocache.Manager, out); err != nil {
			contract.LogFatal("Cannot list history", err)
		}
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show history status and statistics",
	Long: `Display the backend, record count, average green score, total energy
and CO2, per-language counts and the time range of recorded analyses.

Examples:
  # Status of the default SQLite history
  greenscore history status

  # Status of a MySQL history
  greenscore history status --history-backend mysql --history-db-connect "user:pass@tcp(localhost:3306)/greenscore"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		history := iocache.Manager.GetHistoryStore()
		if history == nil {
			contract.LogFatal("Cannot get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := history.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to Parquet files",
	Long: `Export every recorded analysis to <output-file>.analyses.parquet. When a
model store is configured, the model versions manifest is written to
<output-file>.models.parquet as well.

Parquet files can be read by DuckDB, pandas, Spark and most analytics tools.

Examples:
  # Export to ./history.analyses.parquet
  greenscore history export --output-file history

  # Query the export with DuckDB
  duckdb -c "SELECT language, avg(green_score) FROM 'history.analyses.parquet' GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		history := iocache.Manager.GetHistoryStore()
		if history == nil {
			contract.LogFatal("Cannot export history", fmt.Errorf("history store is not initialized"))
		}
		if err := iocache.ExecuteHistoryExport(rootCtx, os.Stdout, history, iocache.Manager.GetModelStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export history", err)
		}
	},
}

// historyClearCmd clears the history store.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all recorded analyses",
	Long: `Delete every recorded analysis.

For SQLite the database file is removed. For MySQL and PostgreSQL every row is
deleted and the schema is kept.

Examples:
  # Clear the default SQLite history
  greenscore history clear`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqlitePath(cfg.HistoryBackend, cfg.HistoryDBConnect, iocache.GetHistoryDBFilePath()), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Cannot clear history", err)
		}
		fmt.Println("History cleared.")
	},
}

// historyMigrateCmd runs history schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  greenscore history migrate

  # Rollback to the initial state
  greenscore history migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// sqlitePath resolves the database file for SQLite backends.
func sqlitePath(backend schema.DatabaseBackend, connStr, defaultPath string) string {
	if backend != schema.SQLiteBackend {
		return ""
	}
	if connStr != "" {
		return connStr
	}
	return defaultPath
}
