package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/operators"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleQueryPath(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	metricNames := splitMetricNames(request.GetString("metrics", ""))

	report, err := core.GetReportResults(cfg, path, metricNames)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRankFiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	metric := request.GetString("metric", "mi")
	revision := request.GetString("revision", "")

	rank, err := core.GetRankResults(cfg, revision, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rank failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rank, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRevisions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	records, err := core.GetRevisionListing(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("revision listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type metricInfo struct {
		Operator    string `json:"operator"`
		Metric      string `json:"metric"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Aggregation string `json:"aggregation"`
		Trend       string `json:"trend"`
	}

	var defs []metricInfo
	for _, op := range operators.All() {
		for _, m := range op.Metrics() {
			defs = append(defs, metricInfo{
				Operator:    op.Name(),
				Metric:      m.Name,
				Description: m.Description,
				Type:        string(m.Type),
				Aggregation: string(m.Aggregation),
				Trend:       string(m.Trend),
			})
		}
	}

	jsonData, _ := json.MarshalIndent(defs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// splitMetricNames turns a comma-separated metric list into clean names.
func splitMetricNames(raw string) []string {
	var names []string
	for part := range strings.SplitSeq(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
