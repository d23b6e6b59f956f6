package algo

import (
	"math"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// Default mastery policy values.
const (
	DefaultPriorVariance = 0.05
	DefaultMinVariance   = 1e-4
)

// MasteryPolicy tunes the Bayesian updater.
type MasteryPolicy struct {
	PriorVariance float64 // Variance assigned after the first observation
	MinVariance   float64 // Variance floor used when an update collapses to zero variance
}

// DefaultMasteryPolicy returns the policy used when nothing is configured.
func DefaultMasteryPolicy() MasteryPolicy {
	return MasteryPolicy{PriorVariance: DefaultPriorVariance, MinVariance: DefaultMinVariance}
}

// UpdateMastery folds one observation of correct out of total answers into prior
// and returns the posterior. It never fails; degenerate inputs collapse onto the
// observation with a floored variance.
func UpdateMastery(prior schema.MasteryEstimate, correct, total int, policy MasteryPolicy) schema.MasteryEstimate {
	obs := schema.PerformanceRecord{CorrectCount: correct, TotalCount: total}.Normalize()
	x := obs.Accuracy()
	obsVar := x * (1 - x) / float64(max(obs.TotalCount, 1))

	post := prior
	post.ObservationCount = max(prior.ObservationCount, 0) + 1

	priorVar := finite(prior.Variance)
	switch {
	case prior.ObservationCount <= 0:
		post.MeanEstimate = x
		post.Variance = math.Max(finite(policy.PriorVariance), 0)
	case obsVar == 0 || priorVar <= 0:
		post.MeanEstimate = x
		post.Variance = math.Max(finite(policy.MinVariance), 0)
	default:
		postVar := 1 / (1/priorVar + 1/obsVar)
		post.MeanEstimate = postVar * (finite(prior.MeanEstimate)/priorVar + x/obsVar)
		post.Variance = postVar
	}

	post.MeanEstimate = clamp01(finite(post.MeanEstimate))
	post.Variance = math.Max(finite(post.Variance), 0)
	return post
}

// ResetMastery returns a zeroed estimate for topic.
func ResetMastery(topic string) schema.MasteryEstimate {
	return schema.MasteryEstimate{TopicID: topic}
}

// FoldRecords applies records to a copy of store in timestamp order and returns it.
// Records without a topic are skipped. The input store is never mutated.
func FoldRecords(store schema.MasteryStore, records []schema.PerformanceRecord, policy MasteryPolicy) schema.MasteryStore {
	out := store.Clone()
	for _, r := range schema.SortRecords(records) {
		if r.TopicID == "" {
			continue
		}
		prior, ok := out[r.TopicID]
		if !ok {
			prior = ResetMastery(r.TopicID)
		}
		post := UpdateMastery(prior, r.CorrectCount, r.TotalCount, policy)
		post.TopicID = r.TopicID
		if r.HasValidTime() && r.Timestamp.After(post.UpdatedAt) {
			post.UpdatedAt = r.Timestamp
		}
		out[r.TopicID] = post
	}
	return out
}

// LastActivity returns the latest valid timestamp per topic.
// Topics whose records all lack a valid timestamp are absent from the result.
func LastActivity(records []schema.PerformanceRecord) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, r := range records {
		if r.TopicID == "" || !r.HasValidTime() {
			continue
		}
		if r.Timestamp.After(out[r.TopicID]) {
			out[r.TopicID] = r.Timestamp
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
