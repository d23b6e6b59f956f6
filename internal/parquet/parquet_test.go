package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of a Parquet file written by this package.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"records", new(PerformanceRecord), []string{"record_id", "subject_id", "topic_id", "recorded_at", "correct_count", "total_count", "score"}},
		{"mastery", new(MasteryEstimate), []string{"topic_id", "mean_estimate", "variance", "observation_count", "updated_at"}},
		{"runs", new(ProjectionRun), []string{"run_id", "started_at", "ended_at", "target_score", "deadline", "trials", "seed", "subjects"}},
		{"projections", new(Projection), []string{"run_id", "subject_id", "projected_mean", "pooled_std_dev", "probability_percent", "analytic_percent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sch := parquet.SchemaOf(tt.model)
			require.NotNil(t, sch)
			for _, colName := range tt.columns {
				_, ok := sch.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteRecordsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "records.parquet")
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	records := []schema.PerformanceRecord{
		{ID: "r1", SubjectID: "math", TopicID: "algebra", Timestamp: ts, CorrectCount: 8, TotalCount: 10},
		{ID: "r2", SubjectID: "law", CorrectCount: 1, TotalCount: 4},
	}

	require.NoError(t, WriteRecordsParquet(ConvertRecords(records), outputPath))

	rows := readAll[PerformanceRecord](t, outputPath)
	require.Len(t, rows, 2)

	assert.Equal(t, "r1", rows[0].RecordID)
	require.NotNil(t, rows[0].TopicID)
	assert.Equal(t, "algebra", *rows[0].TopicID)
	require.NotNil(t, rows[0].RecordedAt)
	assert.WithinDuration(t, ts, *rows[0].RecordedAt, time.Nanosecond)
	assert.InDelta(t, 80.0, rows[0].Score, 1e-9)

	// Missing topic and undated records become nulls
	assert.Nil(t, rows[1].TopicID)
	assert.Nil(t, rows[1].RecordedAt)
	assert.InDelta(t, 25.0, rows[1].Score, 1e-9)
}

func TestWriteMasteryParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "mastery.parquet")
	store := schema.MasteryStore{
		"torts":   {TopicID: "torts", MeanEstimate: 0.4, Variance: 0.05, ObservationCount: 1},
		"algebra": {TopicID: "algebra", MeanEstimate: 0.9, Variance: 0.01, ObservationCount: 3, UpdatedAt: time.Now()},
	}

	require.NoError(t, WriteMasteryParquet(ConvertMastery(store), outputPath))

	rows := readAll[MasteryEstimate](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "algebra", rows[0].TopicID, "rows are sorted by topic")
	assert.NotNil(t, rows[0].UpdatedAt)
	assert.Equal(t, "torts", rows[1].TopicID)
	assert.Nil(t, rows[1].UpdatedAt)
	assert.InDelta(t, 0.4, rows[1].MeanEstimate, 1e-12)
	assert.Equal(t, int32(1), rows[1].ObservationCount)
}

func TestWriteRunsAndProjectionsParquet(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	runs := []schema.ProjectionRun{
		{RunID: 2, StartedAt: started, EndedAt: started.Add(time.Second), TargetScore: 70, Trials: 5000, Seed: 42, Subjects: 1},
		{RunID: 1, StartedAt: started.Add(-time.Hour), TargetScore: 80, Trials: 100, Seed: 7},
	}
	projections := []schema.ProjectionRecord{{
		RunID: 2,
		ProjectionResult: schema.ProjectionResult{
			SubjectID: "math", Trend: schema.TrendUp, ProjectedMean: 27.0, PooledStdDev: 10.17,
			ProbabilityPercent: 0, AnalyticPercent: 0.0012, Trials: 5000, Seed: 42,
		},
	}}

	runsPath := filepath.Join(dir, "runs.parquet")
	projPath := filepath.Join(dir, "projections.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRuns(runs), runsPath))
	require.NoError(t, WriteProjectionsParquet(ConvertProjections(projections), projPath))

	runRows := readAll[ProjectionRun](t, runsPath)
	require.Len(t, runRows, 2)
	assert.Equal(t, int64(2), runRows[0].RunID)
	assert.NotNil(t, runRows[0].EndedAt)
	assert.Nil(t, runRows[1].EndedAt)
	assert.Nil(t, runRows[1].Deadline)

	projRows := readAll[Projection](t, projPath)
	require.Len(t, projRows, 1)
	assert.Equal(t, "math", projRows[0].SubjectID)
	assert.Equal(t, "up", projRows[0].Trend)
	assert.InDelta(t, 27.0, projRows[0].ProjectedMean, 1e-12)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteRecordsParquet([]PerformanceRecord{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}
