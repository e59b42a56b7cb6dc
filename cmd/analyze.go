package cmd

import (
	"fmt"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd focused on per-file energy analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Estimate energy, CO2 and green score of source files",
	Long: `Analyze source code for energy-inefficient patterns and estimate its footprint.

Each input gets:
- Complexity and pattern features (loops, nesting, recursion, allocations)
- Estimated energy in watt-hours and CO2 in grams for the selected region
- A green score from 0 (wasteful) to 100 (efficient)
- Suggestions ranked by severity with estimated savings

Files are analyzed concurrently and printed in argument order. With no file
arguments, or a single "-", code is read from stdin.

Examples:
  # Analyze a Python file
  greenscore analyze slow.py

  # Analyze several files for the European grid as JSON
  greenscore analyze --region europe --output json a.py b.js

  # Analyze stdin and keep the result in the history store
  cat main.go | greenscore analyze --language go --record`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		inputs, err := readInputs(args)
		if err != nil {
			contract.LogFatal("Cannot read inputs", err)
		}
		if err := core.ExecuteAnalyze(rootCtx, cfg, newAnalyzer(), out, inputs); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}

// optimizeCmd rewrites one input into a greener form.
var optimizeCmd = &cobra.Command{
	Use:   "optimize [file]",
	Short: "Rewrite code into a more energy-efficient form",
	Long: `Apply pattern-based rewrites to a single input and compare the metrics
before and after.

The output includes the optimized code, the list of applied rewrites and a
comparison table of green score, energy and CO2. Code with no applicable
rewrite is returned unchanged.

Examples:
  # Optimize a file and print a markdown comparison
  greenscore optimize --output markdown slow.py

  # Optimize stdin
  cat loop.js | greenscore optimize --language javascript`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		inputs, err := readInputs(args)
		if err != nil {
			contract.LogFatal("Cannot read input", err)
		}
		if err := core.ExecuteOptimize(rootCtx, cfg, newAnalyzer(), out, inputs[0]); err != nil {
			contract.LogFatal("Cannot run optimization", err)
		}
	},
}

// detectCmd prints the detected language of each input.
var detectCmd = &cobra.Command{
	Use:   "detect [file...]",
	Short: "Detect the programming language of source files",
	Long: `Detect the language of each input from its file name and content.

The --language flag is ignored here. Unrecognized inputs report "unknown".

Examples:
  # Detect several files
  greenscore detect main.go app.js script.py

  # Detect stdin
  echo 'console.log("hi")' | greenscore detect`,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, args []string) {
		inputs, err := readInputs(args)
		if err != nil {
			contract.LogFatal("Cannot read inputs", err)
		}
		if err := core.ExecuteDetect(rootCtx, cfg, out, inputs); err != nil {
			contract.LogFatal("Cannot detect languages", err)
		}
	},
}

// impactCmd translates energy and CO2 figures into everyday equivalents.
var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Translate energy and CO2 into everyday equivalents",
	Long: `Express an energy and CO2 figure as light bulb hours, phone charges,
car miles and tree days.

Examples:
  # Impact of one kilowatt-hour on a typical grid
  greenscore impact --energy-wh 1000 --co2-g 404

  # As JSON
  greenscore impact --energy-wh 0.6 --co2-g 0.24 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		energyWh := viper.GetFloat64("energy-wh")
		co2g := viper.GetFloat64("co2-g")
		if err := core.ExecuteImpact(rootCtx, cfg, out, energyWh, co2g); err != nil {
			return fmt.Errorf("cannot compute impact: %w", err)
		}
		return nil
	},
}
