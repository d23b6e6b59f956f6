package algo

import (
	"fmt"
	"math"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// Default urgency policy values.
const (
	DefaultCrunchWindowDays = 30.0
	DefaultRecencyScaleDays = 7.0
)

// UrgencyPolicy tunes the urgency scorer.
type UrgencyPolicy struct {
	CrunchWindowDays float64 // Days before a deadline over which the crunch multiplier ramps from 1 to 2
	RecencyScaleDays float64 // Days of inactivity that add ln(2) to the recency weight
}

// DefaultUrgencyPolicy returns the policy used when nothing is configured.
func DefaultUrgencyPolicy() UrgencyPolicy {
	return UrgencyPolicy{CrunchWindowDays: DefaultCrunchWindowDays, RecencyScaleDays: DefaultRecencyScaleDays}
}

// RecencyWeight returns 1 + ln(1 + days/scale). Negative days count as 0.
func RecencyWeight(daysSinceLast float64, policy UrgencyPolicy) float64 {
	scale := policy.RecencyScaleDays
	if scale <= 0 {
		scale = DefaultRecencyScaleDays
	}
	return 1 + math.Log1p(math.Max(finite(daysSinceLast), 0)/scale)
}

// CrunchMultiplier returns 1 when there is no deadline, otherwise a value rising
// linearly from 1 at the start of the window to 2 on or after the deadline.
func CrunchMultiplier(now, deadline time.Time, policy UrgencyPolicy) float64 {
	if deadline.IsZero() {
		return 1
	}
	window := policy.CrunchWindowDays
	if window <= 0 {
		window = DefaultCrunchWindowDays
	}
	daysLeft := deadline.Sub(now).Hours() / 24
	daysLeft = math.Max(0, math.Min(window, daysLeft))
	return 1 + (window-daysLeft)/window
}

// ScoreUrgency computes the urgency of one topic. lastActivity is the latest valid
// timestamp of the topic; a zero value gives the neutral recency weight 1.
func ScoreUrgency(est schema.MasteryEstimate, lastActivity, now, deadline time.Time, policy UrgencyPolicy) schema.UrgencyScore {
	mean := clamp01(finite(est.MeanEstimate))
	score := schema.UrgencyScore{
		TopicID:          est.TopicID,
		MeanEstimate:     mean,
		Deficiency:       1 - mean,
		RecencyWeight:    1,
		CrunchMultiplier: CrunchMultiplier(now, deadline, policy),
	}
	if !lastActivity.IsZero() && lastActivity.Unix() > 0 {
		score.HasActivity = true
		score.DaysSinceLast = DaysBetween(lastActivity, now)
		score.RecencyWeight = RecencyWeight(score.DaysSinceLast, policy)
	}
	score.CompositeScore = score.Deficiency * score.RecencyWeight * score.CrunchMultiplier
	score.RecommendationText = recommendationText(score)
	return score
}

// ScoreTopics scores every topic in store against the activity map.
func ScoreTopics(store schema.MasteryStore, activity map[string]time.Time, now, deadline time.Time, policy UrgencyPolicy) []schema.UrgencyScore {
	scores := make([]schema.UrgencyScore, 0, len(store))
	for topic, est := range store {
		if est.TopicID == "" {
			est.TopicID = topic
		}
		scores = append(scores, ScoreUrgency(est, activity[topic], now, deadline, policy))
	}
	return scores
}

// Recommend ranks topics and selects the most urgent one. An empty store yields
// a recommendation without a suggestion, never an error.
func Recommend(store schema.MasteryStore, activity map[string]time.Time, now, deadline time.Time, policy UrgencyPolicy) schema.Recommendation {
	ranked := RankTopics(ScoreTopics(store, activity, now, deadline, policy), 0)
	if len(ranked) == 0 {
		return schema.Recommendation{
			HasSuggestion: false,
			Ranked:        []schema.UrgencyScore{},
			Text:          "no suggestion: record some results to get a recommendation",
		}
	}
	top := ranked[0]
	return schema.Recommendation{
		HasSuggestion: true,
		Top:           &top,
		Ranked:        ranked,
		Text:          top.RecommendationText,
	}
}

func recommendationText(s schema.UrgencyScore) string {
	pct := math.Round(s.MeanEstimate * 100)
	switch {
	case !s.HasActivity:
		return fmt.Sprintf("Study %s next: estimated mastery %.0f%%", s.TopicID, pct)
	case s.DaysSinceLast >= 1:
		return fmt.Sprintf("Study %s next: estimated mastery %.0f%%, last practiced %.0f days ago", s.TopicID, pct, math.Floor(s.DaysSinceLast))
	default:
		return fmt.Sprintf("Study %s next: estimated mastery %.0f%%, practiced today", s.TopicID, pct)
	}
}
