package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// BeginRun creates a new projection run and returns its unique ID.
func (s *SQLStore) BeginRun(ctx context.Context, run schema.ProjectionRun) (int64, error) {
	// Skip for NoneBackend
	if s.disabled() {
		return 0, nil
	}

	args := []any{s.timeValue(run.StartedAt), run.TargetScore, s.timeValue(run.Deadline), run.Trials, run.Seed, run.Subjects}

	var runID int64
	var err error
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (started_at, target_score, deadline, trials, seed, subjects)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING run_id`, runsTable)
		err = s.db.QueryRowContext(ctx, query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (started_at, target_score, deadline, trials, seed, subjects)
			VALUES (?, ?, ?, ?, ?, ?)`, runsTable)
		var result sql.Result
		result, err = s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert projection run: %w", err)
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert projection run: %w", err)
	}

	return runID, nil
}

// RecordProjection stores one subject's projection for a run.
func (s *SQLStore) RecordProjection(ctx context.Context, runID int64, r schema.ProjectionResult) error {
	if s.disabled() {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, subject_id, current_mean, current_std_dev, trend, sample_count,
		                horizon_days, effective_days, slope_growth, projected_mean, time_uncertainty,
		                pooled_std_dev, target_score, z_score, probability_percent, analytic_percent, trials, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, projectionsTable))

	_, err := s.db.ExecContext(ctx, query,
		runID, r.SubjectID, r.CurrentMean, r.CurrentStdDev, string(r.Trend), r.SampleCount,
		r.HorizonDays, r.EffectiveDays, r.SlopeGrowth, r.ProjectedMean, r.TimeUncertainty,
		r.PooledStdDev, r.TargetScore, r.ZScore, r.ProbabilityPercent, r.AnalyticPercent, r.Trials, r.Seed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert projection for %s: %w", r.SubjectID, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (s *SQLStore) EndRun(ctx context.Context, runID int64, endedAt time.Time, subjects int) error {
	if s.disabled() {
		return nil
	}

	// First, get the start time to calculate duration
	var startedAt nullTime
	query := s.rebind(fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = ?`, runsTable))
	if err := s.db.QueryRowContext(ctx, query, runID).Scan(&startedAt); err != nil {
		return fmt.Errorf("failed to get started_at for run %d: %w", runID, err)
	}
	durationMs := endedAt.Sub(startedAt.Time).Milliseconds()

	update := s.rebind(fmt.Sprintf(`UPDATE %s SET ended_at = ?, run_duration_ms = ?, subjects = ? WHERE run_id = ?`, runsTable))
	if _, err := s.db.ExecContext(ctx, update, s.timeValue(endedAt), durationMs, subjects, runID); err != nil {
		return fmt.Errorf("failed to update projection run: %w", err)
	}
	return nil
}

// ListRuns returns every run, newest first.
func (s *SQLStore) ListRuns(ctx context.Context) ([]schema.ProjectionRun, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, started_at, ended_at, target_score, deadline, trials, seed, subjects
		FROM %s ORDER BY run_id DESC`, runsTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.ProjectionRun
	for rows.Next() {
		var run schema.ProjectionRun
		var startedAt, endedAt, deadline nullTime
		if err := rows.Scan(&run.RunID, &startedAt, &endedAt, &run.TargetScore, &deadline, &run.Trials, &run.Seed, &run.Subjects); err != nil {
			return nil, fmt.Errorf("failed to scan projection run: %w", err)
		}
		run.StartedAt = startedAt.Time
		run.EndedAt = endedAt.Time
		run.Deadline = deadline.Time
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projection runs: %w", err)
	}
	return runs, nil
}

// ListProjections returns the projections of a run, or of all runs when runID is 0.
func (s *SQLStore) ListProjections(ctx context.Context, runID int64) ([]schema.ProjectionRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, subject_id, current_mean, current_std_dev, trend, sample_count,
		horizon_days, effective_days, slope_growth, projected_mean, time_uncertainty,
		pooled_std_dev, target_score, z_score, probability_percent, analytic_percent, trials, seed
		FROM %s`, projectionsTable)
	var args []any
	if runID > 0 {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY run_id, subject_id"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProjectionRecord
	for rows.Next() {
		var rec schema.ProjectionRecord
		var trend string
		if err := rows.Scan(&rec.RunID, &rec.SubjectID, &rec.CurrentMean, &rec.CurrentStdDev, &trend, &rec.SampleCount,
			&rec.HorizonDays, &rec.EffectiveDays, &rec.SlopeGrowth, &rec.ProjectedMean, &rec.TimeUncertainty,
			&rec.PooledStdDev, &rec.TargetScore, &rec.ZScore, &rec.ProbabilityPercent, &rec.AnalyticPercent,
			&rec.Trials, &rec.Seed); err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		rec.Trend = schema.Trend(trend)
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projections: %w", err)
	}
	return results, nil
}
