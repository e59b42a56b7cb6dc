package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/core/lang"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	analyzer *core.Analyzer
	mgr      contract.StoreManager
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// codeArgs extracts the code, language and region arguments shared by
// analyze_code and optimize_code.
func (h *toolHandler) codeArgs(request mcp.CallToolRequest) (code string, language schema.Language, region schema.Region, err error) {
	code, err = request.RequireString("code")
	if err != nil {
		return "", "", "", err
	}
	if raw := request.GetString("language", ""); raw != "" {
		language = schema.ParseLanguage(raw)
	}
	region = h.baseCfg.Region
	if raw := request.GetString("region", ""); raw != "" {
		parsed, ok := schema.ParseRegion(raw)
		if !ok {
			return "", "", "", fmt.Errorf("invalid region %q", raw)
		}
		region = parsed
	}
	return code, language, region, nil
}

// toolError reports caller mistakes and failures as tool errors, never as
// protocol errors.
func toolError(action string, err error) *mcp.CallToolResult {
	if errors.Is(err, core.ErrInvalidInput) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
}

func (h *toolHandler) handleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, language, region, err := h.codeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := h.analyzer.Analyze(core.WithSource(ctx, "mcp"), code, language, region)
	if err != nil {
		return toolError("analysis", err), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleOptimizeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, language, region, err := h.codeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := h.analyzer.Optimize(ctx, code, language, region)
	if err != nil {
		return toolError("optimization", err), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleDetectLanguage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	filename := request.GetString("filename", "")
	return jsonResult(schema.Detection{Path: filename, Language: lang.DetectFile(filename, []byte(code))})
}

func (h *toolHandler) handleRealWorldImpact(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	energy, err := request.RequireFloat("energy_wh")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	co2, err := request.RequireFloat("co2_g")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if energy < 0 || co2 < 0 {
		return mcp.NewToolResultError("invalid parameters: energy_wh and co2_g must not be negative"), nil
	}

	return jsonResult(schema.ImpactReport{
		EnergyWh: energy,
		CO2g:     co2,
		Impact:   core.Impact(schema.MetricSet{EnergyWh: energy, CO2g: co2}),
	})
}

func (h *toolHandler) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetHistoryStore() == nil {
		return mcp.NewToolResultError("history is not available: no history backend configured"), nil
	}
	limit := h.baseCfg.Limit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxHistoryLimit)
	}

	records, err := h.mgr.GetHistoryStore().List(ctx, limit)
	if err != nil {
		return toolError("history listing", err), nil
	}
	return jsonResult(records)
}
