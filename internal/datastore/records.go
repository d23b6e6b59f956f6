package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/google/uuid"
)

// ErrMissingSubject is returned when a record has no subject.
var ErrMissingSubject = errors.New("record has no subject")

// prepareRecords normalizes counts, trims identifiers and assigns missing IDs.
func prepareRecords(records []schema.PerformanceRecord) ([]schema.PerformanceRecord, error) {
	prepared := make([]schema.PerformanceRecord, 0, len(records))
	for i, r := range records {
		r = r.Normalize()
		r.SubjectID = strings.TrimSpace(r.SubjectID)
		r.TopicID = strings.TrimSpace(r.TopicID)
		if r.SubjectID == "" {
			return nil, fmt.Errorf("record %d: %w", i+1, ErrMissingSubject)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		prepared = append(prepared, r)
	}
	return prepared, nil
}

// AppendRecords inserts records and folds them into the stored mastery estimates
// inside one transaction. It returns the updated estimates of the touched topics.
func (s *SQLStore) AppendRecords(ctx context.Context, records []schema.PerformanceRecord, policy algo.MasteryPolicy) (schema.MasteryStore, error) {
	prepared, err := prepareRecords(records)
	if err != nil {
		return nil, err
	}
	if len(prepared) == 0 {
		return schema.MasteryStore{}, nil
	}

	if s.disabled() {
		return algo.FoldRecords(schema.MasteryStore{}, prepared, policy), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := s.rebind(fmt.Sprintf(`
		INSERT INTO %s (record_id, subject_id, topic_id, recorded_at, correct_count, total_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, recordsTable))
	createdAt := s.timeValue(time.Now())

	touched := make(map[string]struct{})
	for _, r := range prepared {
		if _, err := tx.ExecContext(ctx, insert,
			r.ID, r.SubjectID, r.TopicID, s.timeValue(r.Timestamp), r.CorrectCount, r.TotalCount, createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to insert record %s: %w", r.ID, err)
		}
		if r.TopicID != "" {
			touched[r.TopicID] = struct{}{}
		}
	}

	priors := make(schema.MasteryStore, len(touched))
	for topic := range touched {
		est, found, err := s.loadEstimate(ctx, tx, topic)
		if err != nil {
			return nil, err
		}
		if found {
			priors[topic] = est
		}
	}

	folded := algo.FoldRecords(priors, prepared, policy)
	for _, est := range folded {
		if err := s.upsertEstimate(ctx, tx, est); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit records: %w", err)
	}

	contract.Logger().Debugw("appended records", "records", len(prepared), "topics", len(folded))
	return folded, nil
}

// ListRecords returns records in timestamp order. An empty subject lists all subjects.
func (s *SQLStore) ListRecords(ctx context.Context, subject string) ([]schema.PerformanceRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT record_id, subject_id, topic_id, recorded_at, correct_count, total_count FROM %s`, recordsTable)
	var args []any
	if subject = strings.TrimSpace(subject); subject != "" {
		query += " WHERE subject_id = ?"
		args = append(args, subject)
	}
	query += " ORDER BY created_at, record_id"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.PerformanceRecord
	for rows.Next() {
		var r schema.PerformanceRecord
		var recordedAt nullTime
		if err := rows.Scan(&r.ID, &r.SubjectID, &r.TopicID, &recordedAt, &r.CorrectCount, &r.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Timestamp = recordedAt.Time
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	// NULL ordering differs between backends, so order in Go.
	return schema.SortRecords(records), nil
}

// loadEstimate reads one topic's estimate. found is false when the topic has none.
func (s *SQLStore) loadEstimate(ctx context.Context, q querier, topic string) (schema.MasteryEstimate, bool, error) {
	query := s.rebind(fmt.Sprintf(`
		SELECT topic_id, mean_estimate, variance, observation_count, updated_at FROM %s WHERE topic_id = ?
	`, masteryTable))

	var est schema.MasteryEstimate
	var updatedAt nullTime
	err := q.QueryRowContext(ctx, query, topic).Scan(&est.TopicID, &est.MeanEstimate, &est.Variance, &est.ObservationCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.MasteryEstimate{}, false, nil
	}
	if err != nil {
		return schema.MasteryEstimate{}, false, fmt.Errorf("failed to load mastery for topic %s: %w", topic, err)
	}
	est.UpdatedAt = updatedAt.Time
	return est, true, nil
}
