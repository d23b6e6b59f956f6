package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/datastore"
	mcp_internal "github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/mcp"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

func baseConfig() *contract.Config {
	return &contract.Config{
		EngineConfig: contract.EngineConfig{
			TargetScore: 70,
			TrialCount:  2000,
			Now:         now,
			Mastery:     algo.DefaultMasteryPolicy(),
			Urgency:     algo.DefaultUrgencyPolicy(),
		},
		ResultLimit: 10,
		Backend:     schema.SQLiteBackend,
	}
}

// seededManager returns a SQLite store holding a few results for two subjects.
func seededManager(t *testing.T) contract.StoreManager {
	t.Helper()
	ctx := context.Background()
	store, err := datastore.NewStore(ctx, schema.SQLiteBackend, filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	day0 := now.AddDate(0, 0, -10)
	_, err = store.AppendRecords(ctx, []schema.PerformanceRecord{
		{ID: "m1", SubjectID: "math", TopicID: "algebra", Timestamp: day0, CorrectCount: 6, TotalCount: 10},
		{ID: "m2", SubjectID: "math", TopicID: "geometry", Timestamp: day0.AddDate(0, 0, 2), CorrectCount: 7, TotalCount: 10},
		{ID: "l1", SubjectID: "law", TopicID: "contracts", Timestamp: day0.AddDate(0, 0, 9), CorrectCount: 9, TotalCount: 10},
	}, algo.DefaultMasteryPolicy())
	require.NoError(t, err)
	return datastore.NewStoreManager(store)
}

func callTool(t *testing.T, name string, mgr contract.StoreManager, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// The manager is never reached when the parameters are invalid
	var mgr contract.StoreManager

	t.Run("project_score target out of range", func(t *testing.T) {
		res := callTool(t, "project_score", mgr, map[string]any{"target": 150.0})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "target must be between 0 and 100")
	})

	t.Run("project_score invalid seed", func(t *testing.T) {
		res := callTool(t, "project_score", mgr, map[string]any{"seed": "lucky"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid seed value")
	})

	t.Run("recommend_topic invalid deadline", func(t *testing.T) {
		res := callTool(t, "recommend_topic", mgr, map[string]any{"deadline": "someday"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid deadline value")
	})
}

func TestMCPServerHandlers_ProjectScore(t *testing.T) {
	mgr := seededManager(t)

	res := callTool(t, "project_score", mgr, map[string]any{
		"subject":  "math",
		"target":   60.0,
		"deadline": "2024-04-10",
		"seed":     "42",
	})
	require.False(t, res.IsError, resultText(res))

	var results []schema.EnrichedProjection
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "math", results[0].SubjectID)
	assert.Equal(t, 60.0, results[0].TargetScore)
	assert.Equal(t, int64(42), results[0].Seed)
	assert.NotEmpty(t, results[0].Label)

	t.Run("unknown subject", func(t *testing.T) {
		res := callTool(t, "project_score", mgr, map[string]any{"subject": "art"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), `no records found for subject "art"`)
	})
}

func TestMCPServerHandlers_RecommendAndGoals(t *testing.T) {
	mgr := seededManager(t)

	res := callTool(t, "recommend_topic", mgr, map[string]any{"deadline": "in 30 days"})
	require.False(t, res.IsError, resultText(res))
	var rec struct {
		HasSuggestion bool                 `json:"has_suggestion"`
		Top           *schema.UrgencyScore `json:"top"`
		Ranked        []map[string]any     `json:"ranked"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rec))
	assert.True(t, rec.HasSuggestion)
	require.NotNil(t, rec.Top)
	assert.Equal(t, "algebra", rec.Top.TopicID)
	assert.Len(t, rec.Ranked, 3)

	res = callTool(t, "generate_goals", mgr, map[string]any{"subject": "law", "limit": 5.0})
	require.False(t, res.IsError, resultText(res))
	var goals []schema.Goal
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, "contracts", goals[0].TopicID)
	assert.Equal(t, algo.MinGoalQuestions, goals[0].Questions)
}
