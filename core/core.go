// Package core has the composition logic for projection, recommendation and goals.
// It reads records and estimates through the storage interfaces, runs the algorithms
// in core/algo and hands the results to a ResultWriter.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error

// errStoreNotInitialized is returned when the storage manager has no stores.
var errStoreNotInitialized = errors.New("store is not initialized")

// ExecuteProject projects every subject (or the --subject one) toward the target
// and prints the results, most at-risk subject first.
// It serves as the main entry point for the 'project' command.
func ExecuteProject(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	start := time.Now()
	results, runID, err := GetProjectionResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return w.WriteProjections(runID, results, cfg, duration)
}

// ExecuteRecommend ranks topics by urgency and prints the top recommendation.
// It serves as the main entry point for the 'recommend' command.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	start := time.Now()
	rec, err := GetRecommendation(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return w.WriteRecommendation(rec, cfg, duration)
}

// ExecuteGoals turns the urgency ranking into study goals.
// It serves as the main entry point for the 'goals' command.
func ExecuteGoals(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	start := time.Now()
	goals, err := GetGoals(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return w.WriteGoals(goals, cfg, duration)
}

// GetProjectionResults loads records, projects each subject and records the run.
// It returns the ranked results and the run id (0 when the run was not recorded).
func GetProjectionResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ProjectionResult, int64, error) {
	records, err := loadRecords(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, noRecordsError(cfg.Subject)
	}

	if !shouldSuppressHeader(ctx) {
		logProjectionHeader(cfg)
	}

	ctx = beginRun(ctx, cfg, mgr)
	results := ProjectRecords(records, cfg.Engine())
	runID, _ := getRunID(ctx)
	recordRun(ctx, mgr, results)

	contract.Logger().Debugw("projection finished", "subjects", len(results), "run_id", runID)
	return algo.RankProjections(results, cfg.ResultLimit), runID, nil
}

// GetRecommendation ranks the stored mastery estimates by urgency.
// An empty store yields a recommendation without a suggestion, not an error.
func GetRecommendation(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.Recommendation, error) {
	records, err := loadRecords(ctx, cfg, mgr)
	if err != nil {
		return schema.Recommendation{}, err
	}
	store, err := loadMastery(ctx, mgr)
	if err != nil {
		return schema.Recommendation{}, err
	}

	rec := RecommendFromRecords(store, records, cfg.Subject, cfg.Engine())
	if cfg.ResultLimit > 0 && len(rec.Ranked) > cfg.ResultLimit {
		rec.Ranked = rec.Ranked[:cfg.ResultLimit]
	}
	contract.Logger().Debugw("recommendation ranked", "topics", len(rec.Ranked), "has_suggestion", rec.HasSuggestion)
	return rec, nil
}

// GetGoals generates study goals from the urgency ranking.
func GetGoals(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.Goal, error) {
	rec, err := GetRecommendation(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return algo.GenerateGoals(rec.Ranked, cfg.ResultLimit), nil
}

// loadRecords lists the records of cfg.Subject, or of every subject.
func loadRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.PerformanceRecord, error) {
	recordStore := mgr.GetRecordStore()
	if recordStore == nil {
		return nil, errStoreNotInitialized
	}
	return recordStore.ListRecords(ctx, cfg.Subject)
}

// loadMastery returns the stored estimates.
func loadMastery(ctx context.Context, mgr contract.StoreManager) (schema.MasteryStore, error) {
	repo := mgr.GetMasteryRepository()
	if repo == nil {
		return nil, errStoreNotInitialized
	}
	return repo.LoadMastery(ctx)
}
