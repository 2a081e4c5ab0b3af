package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/scangrade/scangrade/core"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGradeImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("image_path", "")

	if err := contract.RevalidateSla(cfg, request.GetString("sla_path", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid SLA specification: %v", err)), nil
	}

	model, _, err := core.GetGradeReportResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grading failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(model, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGradeBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("input_path", "")
	if p := request.GetString("pattern", ""); p != "" {
		cfg.Pattern = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	if err := contract.RevalidateSla(cfg, request.GetString("sla_path", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid SLA specification: %v", err)), nil
	}

	report, _, err := core.GetBatchReportResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch grading failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEvaluateSla(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("image_path", "")

	if err := contract.RevalidateSla(cfg, request.GetString("sla_path", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid SLA specification: %v", err)), nil
	}

	model, _, err := core.GetGradeReportResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compliance evaluation failed: %v", err)), nil
	}

	// Focused verdict document with the image context added
	type JSONSlaVerdict struct {
		Image        string  `json:"image"`
		OverallScore float64 `json:"overall_score"`
		schema.SlaSection
	}

	verdict := JSONSlaVerdict{
		Image:        model.Summary.Image,
		OverallScore: model.Summary.OverallScore,
		SlaSection:   model.Sla,
	}

	jsonData, _ := json.MarshalIndent(verdict, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMetricCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := h.baseCfg.Catalog
	if catalog == nil {
		catalog = schema.GetCatalogGlobal()
	}

	renderModel := schema.BuildCatalogRenderModel(catalog)
	jsonData, _ := json.MarshalIndent(renderModel, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
