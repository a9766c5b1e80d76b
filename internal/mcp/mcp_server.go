// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the debtsession MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.SessionStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Debt Session Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: triage_codebase ---
	s.AddTool(mcp.NewTool("triage_codebase",
		mcp.WithDescription("Measure a codebase snapshot and rank its technical debt hotspots. Read-only; does not touch session state."),
		mcp.WithString("repo_path", mcp.Description("Path to the codebase snapshot (defaults to current directory if not specified).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of hotspots returned.")),
	), h.handleTriageCodebase)

	// --- 2. Tool: session_status ---
	s.AddTool(mcp.NewTool("session_status",
		mcp.WithDescription("Report the current refactoring session: phase, remaining budget, ledger and plan progress."),
	), h.handleSessionStatus)

	// --- 3. Tool: list_hotspots ---
	s.AddTool(mcp.NewTool("list_hotspots",
		mcp.WithDescription("Return the ranked hotspots from the most recent triage of the current session."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of hotspots returned.")),
	), h.handleListHotspots)

	return s
}

// StartMCPServer starts the debtsession MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.SessionStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
