// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// languageEnum lists the accepted values of the language argument.
var languageEnum = []string{"python", "javascript", "typescript", "java", "cpp", "c"}

// regionEnum lists the accepted values of the region argument.
var regionEnum = []string{"usa", "europe", "asia", "world"}

// NewMCPServer initializes and configures the greenscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, analyzer *core.Analyzer, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Green Code Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		analyzer: analyzer,
		mgr:      mgr,
	}

	// --- 1. Tool: analyze_code ---
	s.AddTool(mcp.NewTool("analyze_code",
		mcp.WithDescription("Estimate the energy, CO2 and green score of a code snippet and suggest improvements."),
		mcp.WithString("code", mcp.Description("The source code to analyze."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Language of the code. Detected when omitted."), mcp.Enum(languageEnum...)),
		mcp.WithString("region", mcp.Description("Region used for the emission factor. Defaults to the server configuration."), mcp.Enum(regionEnum...)),
	), h.handleAnalyzeCode)

	// --- 2. Tool: optimize_code ---
	s.AddTool(mcp.NewTool("optimize_code",
		mcp.WithDescription("Rewrite a code snippet into a greener equivalent and compare metrics before and after."),
		mcp.WithString("code", mcp.Description("The source code to optimize."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Language of the code. Detected when omitted."), mcp.Enum(languageEnum...)),
		mcp.WithString("region", mcp.Description("Region used for the emission factor."), mcp.Enum(regionEnum...)),
	), h.handleOptimizeCode)

	// --- 3. Tool: detect_language ---
	s.AddTool(mcp.NewTool("detect_language",
		mcp.WithDescription("Detect the programming language of a code snippet."),
		mcp.WithString("code", mcp.Description("The source code to inspect."), mcp.Required()),
		mcp.WithString("filename", mcp.Description("Optional file name used as a hint.")),
	), h.handleDetectLanguage)

	// --- 4. Tool: real_world_impact ---
	s.AddTool(mcp.NewTool("real_world_impact",
		mcp.WithDescription("Express an energy and CO2 figure as everyday equivalents per one million executions."),
		mcp.WithNumber("energy_wh", mcp.Description("Energy per execution in watt hours."), mcp.Required()),
		mcp.WithNumber("co2_g", mcp.Description("CO2 per execution in grams."), mcp.Required()),
	), h.handleRealWorldImpact)

	// --- 5. Tool: list_history ---
	s.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List the most recent recorded analyses."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListHistory)

	return s
}

// StartMCPServer starts the greenscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, analyzer *core.Analyzer, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, analyzer, mgr)
	return server.ServeStdio(s)
}
