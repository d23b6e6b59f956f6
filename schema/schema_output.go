package schema

// EnrichedProjection adds presentation data to a ProjectionResult.
type EnrichedProjection struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ProjectionResult
}

// EnrichedUrgency adds presentation data to an UrgencyScore.
type EnrichedUrgency struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	UrgencyScore
}

// GetProbabilityLabel returns a plain text label for a success probability in percent.
func GetProbabilityLabel(percent float64) string {
	switch {
	case percent >= 80:
		return "Likely"
	case percent >= 50:
		return "Possible"
	case percent >= 20:
		return "Unlikely"
	default:
		return "Remote"
	}
}

// GetUrgencyLabel returns a plain text label for a composite urgency score.
// Composite scores range from 0 up to roughly 2 * (1 + ln(1 + days/7)).
func GetUrgencyLabel(composite float64) string {
	switch {
	case composite >= 1.5:
		return "Critical"
	case composite >= 1.0:
		return "High"
	case composite >= 0.5:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichProjections adds rank and label to a list of projection results.
func EnrichProjections(results []ProjectionResult) []EnrichedProjection {
	output := make([]EnrichedProjection, len(results))
	for i, r := range results {
		output[i] = EnrichedProjection{
			Rank:             i + 1,
			Label:            GetProbabilityLabel(r.ProbabilityPercent),
			ProjectionResult: r,
		}
	}
	return output
}

// EnrichUrgency adds rank and label to a list of urgency scores.
func EnrichUrgency(scores []UrgencyScore) []EnrichedUrgency {
	output := make([]EnrichedUrgency, len(scores))
	for i, s := range scores {
		output[i] = EnrichedUrgency{
			Rank:         i + 1,
			Label:        GetUrgencyLabel(s.CompositeScore),
			UrgencyScore: s,
		}
	}
	return output
}
