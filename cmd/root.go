package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profilePrefix is the file prefix for CPU and memory profiles. Empty disables profiling.
var profilePrefix string

// out renders every command result.
var out contract.OutputWriter = outwriter.NewOutWriter()

// startProfiling starts CPU profiling if enabled.
func startProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	cpuFile, err := os.Create(profilePrefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profilePrefix, profilePrefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profilePrefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "greenscore",
	Short: "Estimate the energy use and carbon footprint of source code.",
	Long: `Greenscore analyzes code for energy-inefficient patterns, estimates the
energy and CO2 cost of running it, and rewrites it into a greener form.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("GREENSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("region", schema.USA)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("min-score", contract.DefaultMinScore)
	viper.SetDefault("limit", contract.DefaultHistoryLimit)
	viper.SetDefault("energy-model", schema.HeuristicEnergy)
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("model-backend", schema.SQLiteBackend)
	viper.SetDefault("model-db-connect", "")
	viper.SetDefault("carbon-url", contract.DefaultCarbonURL)
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
}

// setConfigFile points Viper at --config or the default .greenscore.yaml search paths.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".greenscore") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfig merges defaults, file, env and flags, then validates them into cfg.
func loadConfig() error {
	// 1. Read config file. A missing file is fine; we'll use defaults/env/flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetLogLevel(cfg.LogLevel)
	return nil
}

// sharedSetup validates config and initializes the persistence layer.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	profilePrefix = viper.GetString("profile")
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	if err := loadConfig(); err != nil {
		return err
	}

	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.ModelBackend, cfg.ModelDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configOnlySetup validates config without opening any store. Migrations and
// clears use it so they can run against a database in any state.
func configOnlySetup(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

// newAnalyzer builds the analyzer for the validated config and global stores.
func newAnalyzer(extra ...core.Option) *core.Analyzer {
	return core.NewAnalyzerFromConfig(cfg, iocache.Manager, extra...)
}

// readInputs reads the positional file arguments, or stdin when none are given.
func readInputs(args []string) ([]core.Input, error) {
	return core.ReadInputs(args, os.Stdin)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
