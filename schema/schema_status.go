package schema

import "time"

// StoreStatus represents the status of the persistence layer.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRecords     int              `json:"total_records"`
	TotalSubjects    int              `json:"total_subjects"`
	TotalTopics      int              `json:"total_topics"`
	OldestRecordTime time.Time        `json:"oldest_record_time"`
	LatestRecordTime time.Time        `json:"latest_record_time"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
