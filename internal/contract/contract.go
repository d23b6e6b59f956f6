// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// StoreManager defines the interface for managing the persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() RecordStore
	GetMasteryRepository() MasteryRepository
	GetRunStore() RunStore
}

// RecordStore defines the interface for the append-only performance record log.
type RecordStore interface {
	// AppendRecords inserts records and folds them into the stored mastery estimates
	// inside one transaction. It returns the updated estimates of the touched topics.
	AppendRecords(ctx context.Context, records []schema.PerformanceRecord, policy algo.MasteryPolicy) (schema.MasteryStore, error)

	// ListRecords returns records in timestamp order. An empty subject lists all subjects.
	ListRecords(ctx context.Context, subject string) ([]schema.PerformanceRecord, error)

	// GetStatus returns status information about the store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// MasteryRepository defines the interface for persisted per-topic mastery estimates.
type MasteryRepository interface {
	// LoadMastery returns every stored estimate keyed by topic.
	LoadMastery(ctx context.Context) (schema.MasteryStore, error)

	// SaveMastery replaces the stored estimates of the topics present in store.
	SaveMastery(ctx context.Context, store schema.MasteryStore) error

	// ResetMastery zeroes the estimate of topic, or of every topic when topic is empty.
	ResetMastery(ctx context.Context, topic string) error
}

// RunStore defines the interface for tracking projection runs and their results.
type RunStore interface {
	// BeginRun creates a new projection run and returns its unique ID
	BeginRun(ctx context.Context, run schema.ProjectionRun) (int64, error)

	// RecordProjection stores one subject's projection for a run
	RecordProjection(ctx context.Context, runID int64, result schema.ProjectionResult) error

	// EndRun updates the run with completion data
	EndRun(ctx context.Context, runID int64, endedAt time.Time, subjects int) error

	// ListRuns returns every run, newest first
	ListRuns(ctx context.Context) ([]schema.ProjectionRun, error)

	// ListProjections returns the projections of a run, or of all runs when runID is 0
	ListProjections(ctx context.Context, runID int64) ([]schema.ProjectionRecord, error)
}

// ResultWriter renders command results in the configured output format.
type ResultWriter interface {
	WriteProjections(runID int64, results []schema.ProjectionResult, cfg *Config, duration time.Duration) error
	WriteRecommendation(rec schema.Recommendation, cfg *Config, duration time.Duration) error
	WriteGoals(goals []schema.Goal, cfg *Config, duration time.Duration) error
	WriteRecords(records []schema.PerformanceRecord, cfg *Config) error
	WriteMastery(store schema.MasteryStore, cfg *Config) error
	WriteRuns(runs []schema.ProjectionRun, cfg *Config) error
}
