package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// beginRun starts projection run tracking when a run store is configured and returns
// a context carrying the run id. Tracking failures are warnings, never fatal.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) context.Context {
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return ctx
	}

	seed := contract.DefaultSeedBase
	if cfg.SeedSet {
		seed = cfg.Seed
	}
	runID, err := runStore.BeginRun(ctx, schema.ProjectionRun{
		StartedAt:   time.Now(),
		TargetScore: cfg.TargetScore,
		Deadline:    cfg.Deadline,
		Trials:      cfg.TrialCount,
		Seed:        seed,
	})
	if err != nil {
		contract.LogWarn("Projection run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordRun stores every projection against the run in ctx and closes the run.
func recordRun(ctx context.Context, mgr contract.StoreManager, results []schema.ProjectionResult) {
	runID, ok := getRunID(ctx)
	runStore := mgr.GetRunStore()
	if !ok || runStore == nil {
		return
	}

	stored := 0
	for _, r := range results {
		if err := runStore.RecordProjection(ctx, runID, r); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record projection of %s", r.SubjectID), err)
			continue
		}
		stored++
	}
	if err := runStore.EndRun(ctx, runID, time.Now(), stored); err != nil {
		contract.LogWarn("Failed to finalize projection run tracking", err)
	}
}

// logProjectionHeader prints a concise, 2-line header for a projection run to stderr.
func logProjectionHeader(cfg *contract.Config) {
	subject := cfg.Subject
	if subject == "" {
		subject = "all"
	}
	// Line 1: what is projected
	fmt.Fprintf(os.Stderr, "🎯 Subject: %s (Target: %.1f, Trials: %d)\n", subject, cfg.TargetScore, cfg.TrialCount)

	// Line 2: the projection window
	deadline := "none"
	if !cfg.Deadline.IsZero() {
		deadline = cfg.Deadline.Format(contract.DateTimeFormat)
	}
	fmt.Fprintf(os.Stderr, "📅 Range: %s → %s\n", cfg.Now.Format(contract.DateTimeFormat), deadline)
}

// noRecordsError explains how to get started when there is nothing to project.
func noRecordsError(subject string) error {
	if subject != "" {
		return fmt.Errorf("no records found for subject %q", subject)
	}
	return errors.New("no records found: add results with 'coach records add' or 'coach records import'")
}
