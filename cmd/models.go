package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage trained prediction models",
	Long: `Inspect and maintain the models saved by "greenscore train".

Every training run stores a new version of each metric model together with
its evaluation scores. Analyses use the latest version when --use-models is set.

Examples:
  # List all model versions
  greenscore models list

  # Check model store status
  greenscore models status

  # Remove all trained models
  greenscore models clear`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// modelsListCmd lists model versions.
var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List model versions with their evaluation scores",
	Long: `Print the versions manifest: metric name, version, training time, MSE,
MAE and R² of every stored model.

Examples:
  # As markdown for a report
  greenscore models list --output markdown`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModelVersions(rootCtx, cfg, iocache.Manager, out); err != nil {
			contract.LogFatal("Cannot list model versions", err)
		}
	},
}

// modelsStatusCmd shows model store status.
var modelsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show model store status and statistics",
	Long: `Display the backend, number of stored model versions, table size and the
time range of training runs.

Examples:
  greenscore models status`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		models := iocache.Manager.GetModelStore()
		if models == nil {
			contract.LogFatal("Cannot get model status", fmt.Errorf("model store is not initialized"))
		}
		status, err := models.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot get model status", err)
		}
		iocache.PrintModelStatus(os.Stdout, status)
	},
}

// modelsClearCmd clears the model store.
var modelsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all trained models",
	Long: `Delete every stored model version. Analyses fall back to the heuristic
estimates until the models are trained again.

Examples:
  greenscore models clear`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearModels(cfg.ModelBackend, sqlitePath(cfg.ModelBackend, cfg.ModelDBConnect, iocache.GetModelDBFilePath()), cfg.ModelDBConnect); err != nil {
			contract.LogFatal("Cannot clear models", err)
		}
		fmt.Println("Models cleared.")
	},
}

// modelsMigrateCmd runs model store schema migrations.
var modelsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the model store.

Examples:
  # Migrate to latest version (default)
  greenscore models migrate

  # Migrate to specific version
  greenscore models migrate --target-version 1`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iocache.MigrateModels(os.Stdout, cfg.ModelBackend, cfg.ModelDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
