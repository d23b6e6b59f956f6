// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Coach MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Coach Study Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: project_score ---
	s.AddTool(mcp.NewTool("project_score",
		mcp.WithDescription("Project each subject's score to the deadline and estimate the probability of reaching the target."),
		mcp.WithString("subject", mcp.Description("Only project this subject (defaults to every subject).")),
		mcp.WithNumber("target", mcp.Description("Target score between 0 and 100. Defaults to 70.")),
		mcp.WithString("deadline", mcp.Description("Deadline as YYYY-MM-DD, RFC3339 or 'in N days'. Omit for no deadline.")),
		mcp.WithNumber("trials", mcp.Description("Number of Monte Carlo trials.")),
		mcp.WithString("seed", mcp.Description("Explicit random seed for reproducible results.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleProjectScore)

	// --- 2. Tool: recommend_topic ---
	s.AddTool(mcp.NewTool("recommend_topic",
		mcp.WithDescription("Rank topics by study urgency and recommend the one to study next."),
		mcp.WithString("subject", mcp.Description("Only rank topics of this subject.")),
		mcp.WithString("deadline", mcp.Description("Deadline used for the crunch multiplier.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked topics.")),
	), h.handleRecommendTopic)

	// --- 3. Tool: generate_goals ---
	s.AddTool(mcp.NewTool("generate_goals",
		mcp.WithDescription("Generate study goals (question counts) for the most urgent topics."),
		mcp.WithString("subject", mcp.Description("Only generate goals for this subject.")),
		mcp.WithString("deadline", mcp.Description("Deadline used for the crunch multiplier.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of goals.")),
	), h.handleGenerateGoals)

	return s
}

// StartMCPServer starts the Coach MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
