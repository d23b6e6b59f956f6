// Package schema has the models and enums shared by every part of coach.
package schema

import (
	"math"
	"time"
)

// PerformanceRecord is one quiz or exam result. Records are append-only.
type PerformanceRecord struct {
	ID           string    `json:"id"`                 // UUID assigned at ingest when absent
	Timestamp    time.Time `json:"timestamp"`          // Zero when the source date was missing or unparsable
	SubjectID    string    `json:"subject_id"`         // Subject the result belongs to
	TopicID      string    `json:"topic_id,omitempty"` // Optional finer-grained topic
	CorrectCount int       `json:"correct_count"`      // Correct answers, 0 <= CorrectCount <= TotalCount
	TotalCount   int       `json:"total_count"`        // Questions attempted
}

// Normalize coerces out-of-range counts so that 0 <= CorrectCount <= TotalCount.
// It never fails; a negative total becomes 0 and the correct count is clamped into range.
func (r PerformanceRecord) Normalize() PerformanceRecord {
	if r.TotalCount < 0 {
		r.TotalCount = 0
	}
	if r.CorrectCount < 0 {
		r.CorrectCount = 0
	}
	if r.CorrectCount > r.TotalCount {
		r.CorrectCount = r.TotalCount
	}
	return r
}

// Accuracy returns correct/total in [0,1], or 0 when nothing was attempted.
func (r PerformanceRecord) Accuracy() float64 {
	n := r.Normalize()
	if n.TotalCount == 0 {
		return 0
	}
	return float64(n.CorrectCount) / float64(n.TotalCount)
}

// Score returns the result as a percentage in [0,100].
func (r PerformanceRecord) Score() float64 {
	return 100 * r.Accuracy()
}

// HasValidTime reports whether the timestamp can be used for recency and ordering.
func (r PerformanceRecord) HasValidTime() bool {
	return !r.Timestamp.IsZero() && r.Timestamp.Unix() > 0
}

// SubjectHistory is the time-ordered list of records for a single subject.
type SubjectHistory struct {
	SubjectID string
	Records   []PerformanceRecord
}

// Scores returns the percentage score of every record in order.
func (h SubjectHistory) Scores() []float64 {
	scores := make([]float64, 0, len(h.Records))
	for _, r := range h.Records {
		scores = append(scores, r.Score())
	}
	return scores
}

// FirstValidTime returns the earliest usable timestamp in the history.
func (h SubjectHistory) FirstValidTime() (time.Time, bool) {
	var first time.Time
	found := false
	for _, r := range h.Records {
		if !r.HasValidTime() {
			continue
		}
		if !found || r.Timestamp.Before(first) {
			first = r.Timestamp
			found = true
		}
	}
	return first, found
}

// Stats holds the derived aggregates of a SubjectHistory.
// They are recomputed on every read and never stored.
type Stats struct {
	Mean         float64 `json:"mean"`
	SampleStdDev float64 `json:"sample_std_dev"`
	Trend        Trend   `json:"trend"`
	Count        int     `json:"count"`
	Latest       float64 `json:"latest"`
}

// ProjectionResult is the output of projecting one subject toward a target.
type ProjectionResult struct {
	SubjectID          string  `json:"subject_id"`
	CurrentMean        float64 `json:"current_mean"`
	CurrentStdDev      float64 `json:"current_std_dev"`
	Trend              Trend   `json:"trend"`
	SampleCount        int     `json:"sample_count"`
	HorizonDays        float64 `json:"horizon_days"`
	EffectiveDays      float64 `json:"effective_days"`
	SlopeGrowth        float64 `json:"slope_growth"`
	ProjectedMean      float64 `json:"projected_mean"`
	TimeUncertainty    float64 `json:"time_uncertainty"`
	PooledStdDev       float64 `json:"pooled_std_dev"`
	TargetScore        float64 `json:"target_score"`
	ZScore             float64 `json:"z_score"`
	ProbabilityPercent float64 `json:"probability_percent"`
	AnalyticPercent    float64 `json:"analytic_percent"`
	Trials             int     `json:"trials"`
	Seed               int64   `json:"seed"`
}

// ProjectionRun is one persisted execution of the project command.
type ProjectionRun struct {
	RunID       int64     `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at,omitzero"`
	TargetScore float64   `json:"target_score"`
	Deadline    time.Time `json:"deadline,omitzero"`
	Trials      int       `json:"trials"`
	Seed        int64     `json:"seed"`
	Subjects    int       `json:"subjects"`
}

// ProjectionRecord is a ProjectionResult stored against the run that produced it.
type ProjectionRecord struct {
	RunID int64 `json:"run_id"`
	ProjectionResult
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
