// Package cmd defines the command-line interface for greenscore.
package cmd

import (
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/learn"
	"github.com/huangsam/greenscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Add the models subcommands to the parent models command
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsStatusCmd)
	modelsCmd.AddCommand(modelsClearCmd)
	modelsCmd.AddCommand(modelsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("language", "", "Source language (default: detect per input)")
	rootCmd.PersistentFlags().String("region", string(schema.USA), "Grid region for CO2 estimates: usa or europe or asia or world")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv or markdown")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("energy-model", string(schema.HeuristicEnergy), "Energy model: heuristic or power")
	rootCmd.PersistentFlags().Bool("use-models", false, "Predict energy and CO2 with the trained models")
	rootCmd.PersistentFlags().Bool("model-green-score", false, "Also replace the green score with the trained model prediction")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("model-backend", string(schema.SQLiteBackend), "Model backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("model-db-connect", "", "Database connection string for the model store")
	rootCmd.PersistentFlags().String("carbon-token", "", "API token for live grid carbon intensity (default: static factors)")
	rootCmd.PersistentFlags().String("carbon-url", contract.DefaultCarbonURL, "Base URL of the carbon intensity API")
	rootCmd.PersistentFlags().String("carbon-ttl", "", "How long live emission factors are cached (e.g. 15m)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Bool("record", false, "Record each analysis in the history store")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of impactCmd to Viper
	impactCmd.Flags().Float64("energy-wh", 0, "Energy in watt-hours")
	impactCmd.Flags().Float64("co2-g", 0, "CO2 in grams")
	if err := viper.BindPFlags(impactCmd.Flags()); err != nil {
		contract.LogFatal("Error binding impact flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("min-score", contract.DefaultMinScore, "Minimum green score every input must reach")
	checkCmd.Flags().Bool("fail-on-high", false, "Also fail when any high severity suggestion is found")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of trainCmd to Viper
	forest := learn.DefaultForestConfig
	trainCmd.Flags().String("dataset", "", "Optional CSV dataset of measured samples")
	trainCmd.Flags().Int("synthetic", learn.DefaultSyntheticPatterns, "Number of synthetic pattern samples to add")
	trainCmd.Flags().Int("trees", forest.Trees, "Number of trees per forest")
	trainCmd.Flags().Int("max-depth", forest.MaxDepth, "Maximum depth of each tree")
	trainCmd.Flags().Uint64("seed", forest.Seed, "Random seed for sampling and synthetic data")
	if err := viper.BindPFlags(trainCmd.Flags()); err != nil {
		contract.LogFatal("Error binding train flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().IntP("limit", "l", contract.DefaultHistoryLimit, "Number of records to display")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Migrate flags are read from each command since both share a name
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	modelsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
