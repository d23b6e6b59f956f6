package core

import (
	"math"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// SubjectSeed returns the explicit seed when one is configured. Otherwise it is
// DefaultSeedBase plus the whole days elapsed from the subject's first dated record
// to the reference time, so reruns on the same day repeat exactly.
func SubjectSeed(history schema.SubjectHistory, eng contract.EngineConfig) int64 {
	if eng.SeedSet {
		return eng.Seed
	}
	first, ok := history.FirstValidTime()
	if !ok {
		return contract.DefaultSeedBase
	}
	return contract.DefaultSeedBase + int64(math.Floor(algo.DaysBetween(first, eng.Now)))
}

// HorizonDays returns the fractional days from the reference time to the deadline,
// or 0 when there is no deadline or it has passed.
func HorizonDays(eng contract.EngineConfig) float64 {
	return algo.DaysBetween(eng.Now, eng.Deadline)
}

// ProjectSubject summarizes one history, projects it to the deadline and estimates
// the probability of reaching the target. Each call owns a fresh random source.
func ProjectSubject(history schema.SubjectHistory, eng contract.EngineConfig) schema.ProjectionResult {
	stats := algo.Summarize(history)
	horizon := HorizonDays(eng)
	proj := algo.Project(stats.Mean, stats.SampleStdDev, horizon)

	seed := SubjectSeed(history, eng)
	sim := algo.Simulate(proj.ProjectedMean, proj.PooledStdDev, eng.TargetScore, eng.TrialCount, algo.NewSource(seed))

	return schema.ProjectionResult{
		SubjectID:          history.SubjectID,
		CurrentMean:        stats.Mean,
		CurrentStdDev:      stats.SampleStdDev,
		Trend:              stats.Trend,
		SampleCount:        stats.Count,
		HorizonDays:        horizon,
		EffectiveDays:      proj.EffectiveDays,
		SlopeGrowth:        proj.SlopeGrowth,
		ProjectedMean:      proj.ProjectedMean,
		TimeUncertainty:    proj.TimeUncertainty,
		PooledStdDev:       proj.PooledStdDev,
		TargetScore:        eng.TargetScore,
		ZScore:             sim.ZScore,
		ProbabilityPercent: sim.ProbabilityPercent,
		AnalyticPercent:    sim.AnalyticPercent,
		Trials:             sim.Trials,
		Seed:               seed,
	}
}

// ProjectRecords groups records by subject and projects every subject in id order.
func ProjectRecords(records []schema.PerformanceRecord, eng contract.EngineConfig) []schema.ProjectionResult {
	histories := schema.GroupBySubject(records)
	results := make([]schema.ProjectionResult, 0, len(histories))
	for _, subject := range schema.SubjectIDs(histories) {
		results = append(results, ProjectSubject(histories[subject], eng))
	}
	return results
}

// RecommendFromRecords ranks the topics of store against the activity in records.
// When subject is set, only topics whose latest record belongs to it are ranked.
// Scores carry the subject of their topic.
func RecommendFromRecords(store schema.MasteryStore, records []schema.PerformanceRecord, subject string, eng contract.EngineConfig) schema.Recommendation {
	topicSubjects := schema.TopicSubjects(records)
	if subject != "" {
		filtered := make(schema.MasteryStore, len(store))
		for topic, est := range store {
			if topicSubjects[topic] == subject {
				filtered[topic] = est
			}
		}
		store = filtered
	}

	rec := algo.Recommend(store, algo.LastActivity(records), eng.Now, eng.Deadline, eng.Urgency)
	for i := range rec.Ranked {
		rec.Ranked[i].SubjectID = topicSubjects[rec.Ranked[i].TopicID]
	}
	if rec.Top != nil {
		rec.Top.SubjectID = topicSubjects[rec.Top.TopicID]
	}
	return rec
}
