package algo

import (
	"fmt"
	"math"
	"sort"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// Goal sizing bounds.
const (
	MinGoalQuestions = 5
	MaxGoalQuestions = 40
)

// RankTopics sorts urgency scores by composite score in descending order
// and returns the top 'limit' scores. Ties go to the lower mastery estimate,
// then to the topic id. A non-positive limit returns every score.
func RankTopics(scores []schema.UrgencyScore, limit int) []schema.UrgencyScore {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].CompositeScore != scores[j].CompositeScore {
			return scores[i].CompositeScore > scores[j].CompositeScore
		}
		if scores[i].MeanEstimate != scores[j].MeanEstimate {
			return scores[i].MeanEstimate < scores[j].MeanEstimate
		}
		return scores[i].TopicID < scores[j].TopicID
	})
	if limit > 0 && len(scores) > limit {
		return scores[:limit]
	}
	return scores
}

// RankProjections sorts projections by success probability in ascending order so
// the subjects at greatest risk come first, and returns the top 'limit'.
func RankProjections(results []schema.ProjectionResult, limit int) []schema.ProjectionResult {
	sort.Slice(results, func(i, j int) bool {
		if results[i].ProbabilityPercent != results[j].ProbabilityPercent {
			return results[i].ProbabilityPercent < results[j].ProbabilityPercent
		}
		return results[i].SubjectID < results[j].SubjectID
	})
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// GenerateGoals turns the first 'limit' ranked urgency scores into study goals.
func GenerateGoals(ranked []schema.UrgencyScore, limit int) []schema.Goal {
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	goals := make([]schema.Goal, 0, len(ranked))
	for i, s := range ranked {
		questions := GoalQuestions(s.Deficiency, s.CrunchMultiplier)
		goals = append(goals, schema.Goal{
			Rank:      i + 1,
			TopicID:   s.TopicID,
			SubjectID: s.SubjectID,
			Questions: questions,
			Priority:  goalPriority(s.CompositeScore),
			Text:      fmt.Sprintf("Answer %d questions on %s", questions, s.TopicID),
		})
	}
	return goals
}

// GoalQuestions returns ceil(10 * deficiency * crunch) bounded to [5, 40].
func GoalQuestions(deficiency, crunch float64) int {
	n := int(math.Ceil(10 * finite(deficiency) * finite(crunch)))
	return max(MinGoalQuestions, min(MaxGoalQuestions, n))
}

func goalPriority(composite float64) schema.Priority {
	switch {
	case composite >= 1.0:
		return schema.PriorityHigh
	case composite >= 0.5:
		return schema.PriorityMedium
	default:
		return schema.PriorityLow
	}
}
