package cmd

import (
	"context"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/mcp"
	"github.com/huangsam/greenscore/internal/telemetry"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Greenscore MCP server",
	Long: `Launch an MCP server over stdio that allows AI agents to analyze, optimize
and detect code via standard tools.

With --metrics-addr, Prometheus metrics for every served analysis are exposed
on http://<addr>/metrics while the server runs.

Examples:
  # Serve MCP on stdio
  greenscore mcp

  # Serve MCP and expose metrics on port 9464
  greenscore mcp --metrics-addr :9464`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdout stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		var extra []core.Option
		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			metrics := telemetry.NewMetrics()
			extra = append(extra, core.WithObserver(metrics))
			go func() {
				if err := metrics.Serve(ctx, addr, contract.Logger()); err != nil {
					contract.LogWarn("Metrics server stopped", err)
				}
			}()
		}
		return mcp.StartMCPServer(ctx, cfg, newAnalyzer(extra...), iocache.Manager)
	},
}

func init() {
	mcpCmd.Flags().String("metrics-addr", "", "Address to expose Prometheus metrics on (e.g. :9464)")
	rootCmd.AddCommand(mcpCmd)
}
