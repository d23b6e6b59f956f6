package datastore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// ErrUnknownTopic is returned when resetting a topic that has no estimate.
var ErrUnknownTopic = errors.New("unknown topic")

// LoadMastery returns every stored estimate keyed by topic.
func (s *SQLStore) LoadMastery(ctx context.Context) (schema.MasteryStore, error) {
	store := schema.MasteryStore{}
	if s.disabled() {
		return store, nil
	}

	query := fmt.Sprintf(`SELECT topic_id, mean_estimate, variance, observation_count, updated_at FROM %s ORDER BY topic_id`, masteryTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query mastery estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var est schema.MasteryEstimate
		var updatedAt nullTime
		if err := rows.Scan(&est.TopicID, &est.MeanEstimate, &est.Variance, &est.ObservationCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mastery estimate: %w", err)
		}
		est.UpdatedAt = updatedAt.Time
		store[est.TopicID] = est
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mastery estimates: %w", err)
	}
	return store, nil
}

// SaveMastery replaces the stored estimates of the topics present in store.
func (s *SQLStore) SaveMastery(ctx context.Context, store schema.MasteryStore) error {
	if s.disabled() || len(store) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for topic, est := range store {
		if est.TopicID == "" {
			est.TopicID = topic
		}
		if err := s.upsertEstimate(ctx, tx, est); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mastery estimates: %w", err)
	}
	return nil
}

// ResetMastery zeroes the estimate of topic, or of every topic when topic is empty.
func (s *SQLStore) ResetMastery(ctx context.Context, topic string) error {
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET mean_estimate = 0, variance = 0, observation_count = 0, updated_at = NULL`, masteryTable)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset mastery estimates: %w", err)
		}
		return nil
	}

	// MySQL reports zero affected rows for unchanged values, so check existence first.
	if _, found, err := s.loadEstimate(ctx, s.db, topic); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(query+" WHERE topic_id = ?"), topic); err != nil {
		return fmt.Errorf("failed to reset mastery for topic %s: %w", topic, err)
	}
	return nil
}

// upsertEstimate inserts or replaces one estimate.
func (s *SQLStore) upsertEstimate(ctx context.Context, q querier, est schema.MasteryEstimate) error {
	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (topic_id, mean_estimate, variance, observation_count, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE mean_estimate = VALUES(mean_estimate), variance = VALUES(variance),
				observation_count = VALUES(observation_count), updated_at = VALUES(updated_at)
		`, masteryTable)
	default: // SQLite and PostgreSQL
		query = fmt.Sprintf(`
			INSERT INTO %s (topic_id, mean_estimate, variance, observation_count, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (topic_id) DO UPDATE SET mean_estimate = excluded.mean_estimate, variance = excluded.variance,
				observation_count = excluded.observation_count, updated_at = excluded.updated_at
		`, masteryTable)
	}

	_, err := q.ExecContext(ctx, s.rebind(query),
		est.TopicID, est.MeanEstimate, est.Variance, est.ObservationCount, s.timeValue(est.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save mastery for topic %s: %w", est.TopicID, err)
	}
	return nil
}
