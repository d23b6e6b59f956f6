package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		EngineConfig: contract.EngineConfig{
			TargetScore: 70,
			TrialCount:  5000,
			Deadline:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Output:    output,
		Precision: 1,
		Width:     160,
		Backend:   schema.SQLiteBackend,
	}
}

var testProjections = []schema.ProjectionResult{
	{
		SubjectID:          "math",
		CurrentMean:        62.5,
		CurrentStdDev:      9,
		Trend:              schema.TrendUp,
		SampleCount:        4,
		HorizonDays:        90,
		EffectiveDays:      41.6,
		SlopeGrowth:        20.8,
		ProjectedMean:      83.3,
		TimeUncertainty:    4.74,
		PooledStdDev:       10.17,
		TargetScore:        70,
		ZScore:             -1.31,
		ProbabilityPercent: 90.4,
		AnalyticPercent:    90.5,
		Trials:             5000,
		Seed:               20240161,
	},
	{SubjectID: "law", CurrentMean: 40, ProjectedMean: 40, TargetScore: 70, ProbabilityPercent: 0, Trials: 5000},
}

var testRecommendation = schema.Recommendation{
	HasSuggestion: true,
	Ranked: []schema.UrgencyScore{
		{TopicID: "geometry", MeanEstimate: 0.4, Deficiency: 0.6, DaysSinceLast: 30, HasActivity: true, RecencyWeight: 2.45, CrunchMultiplier: 1, CompositeScore: 1.47, RecommendationText: "Study geometry next"},
		{TopicID: "algebra", MeanEstimate: 0.8, Deficiency: 0.2, RecencyWeight: 1, CrunchMultiplier: 1, CompositeScore: 0.2},
	},
	Text: "Study geometry next",
}

func TestWriteProjections(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := newTestConfig(schema.TextOut)
		cfg.Detail = true
		err := NewOutWriterTo(&buf).WriteProjections(7, testProjections, cfg, time.Second)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "math")
		assert.Contains(t, out, "83.3")
		assert.Contains(t, out, "Likely")
		assert.Contains(t, out, "Remote")
		assert.Contains(t, out, "Showing 2 subjects (target: 70.0, deadline: 2024-06-01, trials: 5000)")
		assert.Contains(t, out, "Run: #7")
	})

	t.Run("table without run", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := newTestConfig(schema.TextOut)
		cfg.Deadline = time.Time{}
		require.NoError(t, NewOutWriterTo(&buf).WriteProjections(0, testProjections, cfg, time.Second))
		assert.Contains(t, buf.String(), "deadline: none")
		assert.Contains(t, buf.String(), "Run: not recorded")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(&buf).WriteProjections(1, testProjections, newTestConfig(schema.JSONOut), 0))

		var result []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		require.Len(t, result, 2)
		assert.Equal(t, float64(1), result[0]["rank"])
		assert.Equal(t, "math", result[0]["subject_id"])
		assert.Equal(t, "Likely", result[0]["label"])
		assert.Equal(t, 90.4, result[0]["probability_percent"])
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(&buf).WriteProjections(1, testProjections, newTestConfig(schema.CSVOut), 0))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "rank,subject,current_mean"))
		assert.Contains(t, lines[1], "math")
		assert.Contains(t, lines[1], "90.4")
		assert.Contains(t, lines[1], "20240161")
		assert.Contains(t, lines[2], "Remote")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := newTestConfig(schema.ParquetOut)
		err := NewOutWriter().WriteProjections(1, testProjections, cfg, 0)
		assert.ErrorIs(t, err, errParquetNeedsFile)

		cfg.OutputFile = filepath.Join(t.TempDir(), "projections.parquet")
		require.NoError(t, NewOutWriter().WriteProjections(1, testProjections, cfg, 0))
		info, err := os.Stat(cfg.OutputFile)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("output file", func(t *testing.T) {
		cfg := newTestConfig(schema.JSONOut)
		cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(&buf).WriteProjections(1, testProjections, cfg, 0))
		assert.Empty(t, buf.String(), "nothing goes to the default writer")

		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"subject_id": "law"`)
	})

	t.Run("bad output file", func(t *testing.T) {
		cfg := newTestConfig(schema.CSVOut)
		cfg.OutputFile = "/nonexistent/dir/out.csv"
		err := NewOutWriter().WriteProjections(1, testProjections, cfg, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error writing csv output")
	})
}

func TestWriteRecommendation(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := newTestConfig(schema.TextOut)
		cfg.Detail = true
		require.NoError(t, NewOutWriterTo(&buf).WriteRecommendation(testRecommendation, cfg, time.Second))

		out := buf.String()
		assert.Contains(t, out, "geometry")
		assert.Contains(t, out, "High")
		assert.Contains(t, out, "Low")
		assert.Contains(t, out, "👉 Study geometry next")
		assert.Contains(t, out, "Ranked 2 topics")
	})

	t.Run("no suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		rec := schema.Recommendation{Text: "no suggestion: record some results"}
		require.NoError(t, NewOutWriterTo(&buf).WriteRecommendation(rec, newTestConfig(schema.TextOut), 0))
		assert.Equal(t, "no suggestion: record some results\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		rec := testRecommendation
		top := rec.Ranked[0]
		rec.Top = &top
		require.NoError(t, NewOutWriterTo(&buf).WriteRecommendation(rec, newTestConfig(schema.JSONOut), 0))

		var result map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, true, result["has_suggestion"])
		ranked, ok := result["ranked"].([]any)
		require.True(t, ok)
		require.Len(t, ranked, 2)
		first, ok := ranked[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "High", first["label"])
		assert.Equal(t, float64(1), first["rank"])
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(&buf).WriteRecommendation(testRecommendation, newTestConfig(schema.CSVOut), 0))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "2,algebra,,0.8,0.2,,1.0,1.0,0.2,Low,", lines[2], "no activity leaves days empty")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		err := NewOutWriter().WriteRecommendation(testRecommendation, newTestConfig(schema.ParquetOut), 0)
		assert.Error(t, err)
	})
}

func TestWriteGoals(t *testing.T) {
	goals := []schema.Goal{
		{Rank: 1, TopicID: "geometry", Questions: 12, Priority: schema.PriorityHigh, Text: "Answer 12 questions on geometry"},
		{Rank: 2, TopicID: "algebra", Questions: 5, Priority: schema.PriorityLow, Text: "Answer 5 questions on algebra"},
	}

	var buf bytes.Buffer
	cfg := newTestConfig(schema.TextOut)
	cfg.Detail = true
	require.NoError(t, NewOutWriterTo(&buf).WriteGoals(goals, cfg, time.Second))
	assert.Contains(t, buf.String(), "Answer 12 questions on geometry")
	assert.Contains(t, buf.String(), "Generated 2 goals (17 questions in total)")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteGoals(nil, cfg, 0))
	assert.Contains(t, buf.String(), "No goals")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteGoals(goals, newTestConfig(schema.CSVOut), 0))
	assert.Contains(t, buf.String(), "1,geometry,,12,high,Answer 12 questions on geometry")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteGoals(goals, newTestConfig(schema.JSONOut), 0))
	var result []schema.Goal
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, goals, result)

	assert.Error(t, NewOutWriter().WriteGoals(goals, newTestConfig(schema.ParquetOut), 0))
}

func TestWriteRecords(t *testing.T) {
	records := []schema.PerformanceRecord{
		{ID: "r-1", SubjectID: "math", TopicID: "algebra", Timestamp: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), CorrectCount: 8, TotalCount: 10},
		{ID: "r-2", SubjectID: "law", CorrectCount: 1, TotalCount: 4},
	}

	var buf bytes.Buffer
	cfg := newTestConfig(schema.TextOut)
	cfg.Detail = true
	require.NoError(t, NewOutWriterTo(&buf).WriteRecords(records, cfg))
	assert.Contains(t, buf.String(), "2024-03-01")
	assert.Contains(t, buf.String(), "80.0")
	assert.Contains(t, buf.String(), "r-2")
	assert.Contains(t, buf.String(), "Showing 2 records")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteRecords(records, newTestConfig(schema.CSVOut)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "r-1,2024-03-01T09:00:00Z,math,algebra,8,10,80.0", lines[1])
	assert.Equal(t, "r-2,,law,,1,4,25.0", lines[2])

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteRecords(nil, newTestConfig(schema.TextOut)))
	assert.Equal(t, "No records found\n", buf.String())

	pcfg := newTestConfig(schema.ParquetOut)
	pcfg.OutputFile = filepath.Join(t.TempDir(), "records.parquet")
	require.NoError(t, NewOutWriter().WriteRecords(records, pcfg))
	_, err := os.Stat(pcfg.OutputFile)
	assert.NoError(t, err)
}

func TestWriteMastery(t *testing.T) {
	store := schema.MasteryStore{
		"geometry": {MeanEstimate: 0.4, Variance: 0.05, ObservationCount: 1},
		"algebra":  {TopicID: "algebra", MeanEstimate: 0.8125, Variance: 0.0123, ObservationCount: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteMastery(store, newTestConfig(schema.CSVOut)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "algebra,0.8125,0.0123,3", lines[1], "sorted by topic at full precision")
	assert.Equal(t, "geometry,0.4,0.05,1", lines[2], "topic id is filled from the map key")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteMastery(store, newTestConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "81.2")
	assert.Contains(t, buf.String(), "Showing 2 topics")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteMastery(schema.MasteryStore{}, newTestConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "No mastery estimates found")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteMastery(store, newTestConfig(schema.JSONOut)))
	var result []schema.MasteryEstimate
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "algebra", result[0].TopicID)
}

func TestWriteRuns(t *testing.T) {
	runs := []schema.ProjectionRun{
		{RunID: 2, StartedAt: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), TargetScore: 70, Trials: 5000, Seed: 42, Subjects: 3},
		{RunID: 1, StartedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), EndedAt: time.Date(2024, 3, 1, 8, 0, 1, 0, time.UTC), Deadline: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), TargetScore: 75, Trials: 100, Seed: 7, Subjects: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteRuns(runs, newTestConfig(schema.CSVOut)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2,2024-03-02T08:00:00Z,,70.0,,5000,42,3", lines[1])
	assert.Equal(t, "1,2024-03-01T08:00:00Z,2024-03-01T08:00:01Z,75.0,2024-06-01T00:00:00Z,100,7,1", lines[2])

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteRuns(runs, newTestConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "Showing 2 runs")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(&buf).WriteRuns(nil, newTestConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "No projection runs found")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		fixed    int
		expected int
	}{
		{"narrow terminal hits minimum", 60, 45, 12},
		{"wide terminal hits maximum", 300, 45, 48},
		{"in between", 100, 45, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableNameWidth(cfg, tt.fixed))
		})
	}
}
