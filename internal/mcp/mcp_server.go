// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strata-dev/strata/internal/contract"
)

// NewMCPServer initializes and configures the Strata MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Strata Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: query_path ---
	s.AddTool(mcp.NewTool("query_path",
		mcp.WithDescription("Report the complexity metric history of one file or folder across every indexed revision."),
		mcp.WithString("path", mcp.Description("The file or folder path to report on, relative to the repository root."), mcp.Required()),
		mcp.WithString("metrics", mcp.Description("Comma-separated metric names to include (defaults to every metric of the active operators).")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's configured repository).")),
	), h.handleQueryPath)

	// --- 2. Tool: rank_files ---
	s.AddTool(mcp.NewTool("rank_files",
		mcp.WithDescription("Rank every indexed file of one revision by a metric, worst values first."),
		mcp.WithString("metric", mcp.Description("Metric name to rank by (e.g. 'mi', 'complexity', 'loc'). Defaults to 'mi'.")),
		mcp.WithString("revision", mcp.Description("Revision key or unique prefix (defaults to the newest indexed revision).")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleRankFiles)

	// --- 3. Tool: list_revisions ---
	s.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List the indexed revisions of the repository, oldest first."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleListRevisions)

	// --- 4. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List every registered operator and the metrics it computes."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the Strata MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
