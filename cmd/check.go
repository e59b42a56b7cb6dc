package cmd

import (
	"github.com/huangsam/greenscore/core"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Enforce a minimum green score for CI/CD pipelines (fails build on violations)",
	Long: `Analyze the given files and enforce a green score policy.

Designed specifically for CI/CD integration - exits with a non-zero code when
any input scores below --min-score, or when --fail-on-high is set and a high
severity suggestion is found. The full report is printed either way.

Default minimum score: 60

Use cases:
- Pull request gates - block merges that add wasteful code
- Release validation - keep hot paths efficient before deployment
- Prevent regression - catch score drops automatically

Examples:
  # Check changed files against the default policy
  git diff --name-only origin/main | xargs greenscore check

  # Stricter policy that also rejects high severity findings
  greenscore check --min-score 75 --fail-on-high src/*.py`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		inputs, err := readInputs(args)
		if err != nil {
			return err
		}
		return core.ExecuteCheck(rootCtx, cfg, newAnalyzer(), out, inputs)
	},
}
