// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/scangrade/scangrade/internal/contract"
)

// NewMCPServer initializes and configures the Scangrade MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scangrade Quality Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: grade_image ---
	s.AddTool(mcp.NewTool("grade_image",
		mcp.WithDescription("Grade a single image quality metrics document and return the full report."),
		mcp.WithString("image_path", mcp.Description("Path to the metrics JSON document."), mcp.Required()),
		mcp.WithString("sla_path", mcp.Description("Path to an SLA specification document (defaults to the built-in specification).")),
	), h.handleGradeImage)

	// --- 2. Tool: grade_batch ---
	s.AddTool(mcp.NewTool("grade_batch",
		mcp.WithDescription("Grade every metrics document under a path and return ranked outcomes with population statistics."),
		mcp.WithString("input_path", mcp.Description("Directory of metrics documents, or a glob of document paths."), mcp.Required()),
		mcp.WithString("pattern", mcp.Description("Glob pattern for documents inside a directory. Defaults to '*.json'.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked outcomes returned.")),
		mcp.WithString("sla_path", mcp.Description("Path to an SLA specification document.")),
	), h.handleGradeBatch)

	// --- 3. Tool: evaluate_sla ---
	s.AddTool(mcp.NewTool("evaluate_sla",
		mcp.WithDescription("Evaluate one image against the SLA specification and return the compliance verdict."),
		mcp.WithString("image_path", mcp.Description("Path to the metrics JSON document."), mcp.Required()),
		mcp.WithString("sla_path", mcp.Description("Path to an SLA specification document.")),
	), h.handleEvaluateSla)

	// --- 4. Tool: get_metric_catalog ---
	s.AddTool(mcp.NewTool("get_metric_catalog",
		mcp.WithDescription("Return the scoring profile of every graded quality metric."),
	), h.handleGetMetricCatalog)

	return s
}

// StartMCPServer starts the Scangrade MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
