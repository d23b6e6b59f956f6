package schema

import (
	"maps"
	"time"
)

// MasteryEstimate is the Bayesian belief about how well one topic is known.
// It is an immutable value; updates return a new estimate.
type MasteryEstimate struct {
	TopicID          string    `json:"topic_id"`
	MeanEstimate     float64   `json:"mean_estimate"`     // Posterior mean in [0,1]
	Variance         float64   `json:"variance"`          // Posterior variance, never negative
	ObservationCount int       `json:"observation_count"` // Number of updates folded in
	UpdatedAt        time.Time `json:"updated_at,omitzero"`
}

// MasteryStore maps topic ids to their current estimate. It is owned by the caller.
type MasteryStore map[string]MasteryEstimate

// Clone returns a shallow copy so that folds never mutate the caller's map.
func (s MasteryStore) Clone() MasteryStore {
	clone := make(MasteryStore, len(s))
	maps.Copy(clone, s)
	return clone
}
