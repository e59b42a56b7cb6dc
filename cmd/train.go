package cmd

import (
	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/learn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// trainCmd fits the prediction models.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the energy, CO2 and green score prediction models",
	Long: `Fit one random forest regressor per metric and save them to the model store.

Training data is the optional --dataset CSV plus --synthetic generated samples
built from known efficient and inefficient code patterns. A held-out split is
used to report MSE, MAE and R² for each model. Every run stores a new model
version; use "greenscore models list" to see them and --use-models to predict
with the latest.

Dataset columns: code (required), language, green_score, energy_wh, co2_g and
the optional measurement columns of a codecarbon export.

Examples:
  # Train on synthetic samples only
  greenscore train

  # Train on measured data with a larger forest
  greenscore train --dataset measurements.csv --trees 200 --max-depth 12

  # Reproducible run stored in PostgreSQL
  greenscore train --seed 7 --model-backend postgresql --model-db-connect "host=localhost dbname=greenscore"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		forest := learn.DefaultForestConfig
		forest.Trees = viper.GetInt("trees")
		forest.MaxDepth = viper.GetInt("max-depth")
		forest.Seed = viper.GetUint64("seed")
		forest.Workers = cfg.Workers

		opts := core.TrainOptions{
			DatasetPath:      viper.GetString("dataset"),
			SyntheticSamples: viper.GetInt("synthetic"),
			Forest:           forest,
		}
		if err := core.ExecuteTrain(rootCtx, cfg, iocache.Manager, out, opts); err != nil {
			contract.LogFatal("Cannot train models", err)
		}
	},
}
