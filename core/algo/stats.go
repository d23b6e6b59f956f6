package algo

import (
	"math"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// finite coerces NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Mean returns the arithmetic mean of scores, or 0 for an empty slice.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += finite(s)
	}
	return sum / float64(len(scores))
}

// SampleStdDev returns the Bessel-corrected standard deviation of scores.
// It returns 0 when fewer than two values are given.
func SampleStdDev(scores []float64) float64 {
	n := len(scores)
	if n < 2 {
		return 0
	}
	if allEqual(scores) {
		return 0
	}
	mean := Mean(scores)
	sumSq := 0.0
	for _, s := range scores {
		d := finite(s) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func allEqual(scores []float64) bool {
	first := finite(scores[0])
	for _, s := range scores[1:] {
		if finite(s) != first {
			return false
		}
	}
	return true
}

// ClassifyTrend compares the last two scores. Ties and short histories are stable.
func ClassifyTrend(scores []float64) schema.Trend {
	n := len(scores)
	if n < 2 {
		return schema.TrendStable
	}
	last, prev := finite(scores[n-1]), finite(scores[n-2])
	switch {
	case last > prev:
		return schema.TrendUp
	case last < prev:
		return schema.TrendDown
	default:
		return schema.TrendStable
	}
}

// Summarize computes the derived Stats of a history. Nothing is cached.
func Summarize(history schema.SubjectHistory) schema.Stats {
	scores := history.Scores()
	stats := schema.Stats{
		Mean:         Mean(scores),
		SampleStdDev: SampleStdDev(scores),
		Trend:        ClassifyTrend(scores),
		Count:        len(scores),
	}
	if len(scores) > 0 {
		stats.Latest = finite(scores[len(scores)-1])
	}
	return stats
}
