package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the common request arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("subject", ""); s != "" {
		cfg.Subject = s
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	overrides := contract.EngineOverrides{
		Trials:   request.GetInt("trials", 0),
		Deadline: request.GetString("deadline", ""),
		Seed:     cast.ToString(request.GetArguments()["seed"]),
	}
	if _, ok := request.GetArguments()["target"]; ok {
		target := request.GetFloat("target", cfg.TargetScore)
		overrides.Target = &target
	}
	if err := contract.RevalidateEngine(cfg, overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *toolHandler) handleProjectScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid projection parameters: %v", err)), nil
	}

	results, _, err := core.GetProjectionResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}

	enriched := schema.EnrichProjections(results)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecommendTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recommendation parameters: %v", err)), nil
	}

	rec, err := core.GetRecommendation(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	payload := struct {
		HasSuggestion bool                     `json:"has_suggestion"`
		Text          string                   `json:"text"`
		Top           *schema.UrgencyScore     `json:"top,omitempty"`
		Ranked        []schema.EnrichedUrgency `json:"ranked"`
	}{
		HasSuggestion: rec.HasSuggestion,
		Text:          rec.Text,
		Top:           rec.Top,
		Ranked:        schema.EnrichUrgency(rec.Ranked),
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGenerateGoals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid goal parameters: %v", err)), nil
	}

	goals, err := core.GetGoals(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("goal generation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(goals, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
