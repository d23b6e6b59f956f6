package datastore

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// GetStatus returns status information about the store.
func (s *SQLStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.disabled() {
		return status, nil
	}

	summary := fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT subject_id), MIN(recorded_at), MAX(recorded_at) FROM %s`, recordsTable)
	var oldest, latest nullTime
	if err := s.db.QueryRowContext(ctx, summary).Scan(&status.TotalRecords, &status.TotalSubjects, &oldest, &latest); err != nil {
		return status, fmt.Errorf("failed to summarize records: %w", err)
	}
	status.OldestRecordTime = oldest.Time
	status.LatestRecordTime = latest.Time

	topics := fmt.Sprintf(`SELECT COUNT(DISTINCT topic_id) FROM %s WHERE topic_id <> ''`, recordsTable)
	if err := s.db.QueryRowContext(ctx, topics).Scan(&status.TotalTopics); err != nil {
		return status, fmt.Errorf("failed to count topics: %w", err)
	}

	runs := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, runsTable)
	if err := s.db.QueryRowContext(ctx, runs).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRun := fmt.Sprintf(`SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1`, runsTable)
		var lastRunTime nullTime
		if err := s.db.QueryRowContext(ctx, lastRun).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime.Time
	}

	for _, table := range allTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := s.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// PrintStatus writes store status information.
func PrintStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Records: %d\n", status.TotalRecords)
	_, _ = fmt.Fprintf(w, "Subjects: %d\n", status.TotalSubjects)
	_, _ = fmt.Fprintf(w, "Topics: %d\n", status.TotalTopics)
	if !status.OldestRecordTime.IsZero() {
		_, _ = fmt.Fprintf(w, "Oldest Record: %s\n", status.OldestRecordTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Latest Record: %s\n", status.LatestRecordTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Projection Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
