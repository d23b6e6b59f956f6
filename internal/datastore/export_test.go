package datastore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewExportPaths(t *testing.T) {
	paths := NewExportPaths("/tmp/history.parquet")
	assert.Equal(t, "/tmp/history_records.parquet", paths.Records)
	assert.Equal(t, "/tmp/history_mastery.parquet", paths.Mastery)
	assert.Equal(t, "/tmp/history_runs.parquet", paths.Runs)
	assert.Equal(t, "/tmp/history_projections.parquet", paths.Projections)

	assert.Equal(t, "out_records.parquet", NewExportPaths("out").Records)
}

func TestExecuteExport(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.AppendRecords(ctx, []schema.PerformanceRecord{
		{SubjectID: "math", TopicID: "algebra", Timestamp: day0, CorrectCount: 8, TotalCount: 10},
		{SubjectID: "law", CorrectCount: 1, TotalCount: 2},
	}, algo.DefaultMasteryPolicy())
	require.NoError(t, err)
	runID, err := store.BeginRun(ctx, schema.ProjectionRun{StartedAt: day0, TargetScore: 70, Trials: 10, Seed: 1})
	require.NoError(t, err)
	require.NoError(t, store.RecordProjection(ctx, runID, schema.ProjectionResult{SubjectID: "math"}))

	var out bytes.Buffer
	paths, err := ExecuteExport(ctx, NewStoreManager(store), filepath.Join(t.TempDir(), "history.parquet"), &out)
	require.NoError(t, err)

	for _, p := range []string{paths.Records, paths.Mastery, paths.Runs, paths.Projections} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 2 records")
	assert.Contains(t, out.String(), "Exported 1 mastery estimates")
	assert.Contains(t, out.String(), "Exported 1 projection runs")
}

func TestExecuteExport_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing output file", func(t *testing.T) {
		_, err := ExecuteExport(ctx, &MockStoreManager{}, "", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-file")
	})

	t.Run("empty store", func(t *testing.T) {
		_, err := ExecuteExport(ctx, NewStoreManager(newTestStore(t)), filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data")
	})

	t.Run("status failure", func(t *testing.T) {
		records := &MockRecordStore{}
		records.On("GetStatus", mock.Anything).Return(schema.StoreStatus{}, errors.New("boom"))
		mgr := &MockStoreManager{}
		mgr.On("GetRecordStore").Return(records)

		_, err := ExecuteExport(ctx, mgr, "out.parquet", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		mgr.AssertExpectations(t)
		records.AssertExpectations(t)
	})

	t.Run("uninitialized manager", func(t *testing.T) {
		mgr := &MockStoreManager{}
		mgr.On("GetRecordStore").Return(nil)
		_, err := ExecuteExport(ctx, mgr, "out.parquet", &bytes.Buffer{})
		assert.Error(t, err)
	})
}
