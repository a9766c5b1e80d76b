package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.SessionStore
}

func (h *toolHandler) handleTriageCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.TopN = l
	}

	hotspots, err := core.GetHotspotResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("triage failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(hotspots, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSessionStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := h.store.Latest()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no session available: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListHotspots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := h.store.Latest()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no session available: %v", err)), nil
	}

	hotspots := record.Hotspots
	if l := request.GetInt("limit", 0); l > 0 && l < len(hotspots) {
		hotspots = hotspots[:l]
	}

	jsonData, _ := json.MarshalIndent(hotspots, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
