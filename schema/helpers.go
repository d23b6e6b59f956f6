package schema

import (
	"sort"
	"strings"
)

// SortRecords orders records by timestamp, oldest first. Records without a valid
// timestamp keep their relative order and sort before dated ones.
func SortRecords(records []PerformanceRecord) []PerformanceRecord {
	sorted := make([]PerformanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := sorted[i].HasValidTime(), sorted[j].HasValidTime()
		if vi != vj {
			return !vi
		}
		if !vi {
			return false
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// GroupBySubject splits records into time-ordered histories keyed by subject.
// Subject ids are compared after trimming whitespace; empty subjects are dropped.
func GroupBySubject(records []PerformanceRecord) map[string]SubjectHistory {
	histories := make(map[string]SubjectHistory)
	for _, r := range SortRecords(records) {
		subject := strings.TrimSpace(r.SubjectID)
		if subject == "" {
			continue
		}
		h := histories[subject]
		h.SubjectID = subject
		h.Records = append(h.Records, r)
		histories[subject] = h
	}
	return histories
}

// SubjectIDs returns the keys of a history map in sorted order.
func SubjectIDs(histories map[string]SubjectHistory) []string {
	ids := make([]string, 0, len(histories))
	for id := range histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TopicSubjects maps each topic to the subject of its most recent record.
func TopicSubjects(records []PerformanceRecord) map[string]string {
	out := make(map[string]string)
	for _, r := range SortRecords(records) {
		if r.TopicID == "" {
			continue
		}
		out[r.TopicID] = r.SubjectID
	}
	return out
}

// MasteryTopics returns the topics of a mastery store in sorted order.
func MasteryTopics(store MasteryStore) []string {
	topics := make([]string, 0, len(store))
	for topic := range store {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
