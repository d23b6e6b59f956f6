package algo

import "math"

// DefaultTrials is the number of Monte Carlo trials when none is configured.
const DefaultTrials = 5000

// Simulation holds the outcome of a Monte Carlo run.
type Simulation struct {
	Trials             int
	Successes          int
	ProbabilityPercent float64 // Empirical success rate at full precision
	ZScore             float64
	AnalyticPercent    float64 // 100 * (1 - Phi(z)), reported next to the empirical value
}

// Simulate estimates the probability that a score drawn from N(projectedMean, pooledStdDev)
// and clamped to [0,100] reaches targetScore. Trials below 1 are raised to 1.
func Simulate(projectedMean, pooledStdDev, targetScore float64, trials int, src *Source) Simulation {
	if trials < 1 {
		trials = 1
	}
	projectedMean = finite(projectedMean)
	pooledStdDev = math.Abs(finite(pooledStdDev))
	targetScore = finite(targetScore)

	successes := 0
	for range trials {
		value := projectedMean + pooledStdDev*Normal(src)
		value = math.Max(MinScore, math.Min(MaxScore, value))
		if value >= targetScore {
			successes++
		}
	}

	z := ZScore(projectedMean, pooledStdDev, targetScore)
	return Simulation{
		Trials:             trials,
		Successes:          successes,
		ProbabilityPercent: 100 * float64(successes) / float64(trials),
		ZScore:             z,
		AnalyticPercent:    AnalyticProbability(projectedMean, pooledStdDev, targetScore),
	}
}

// ZScore returns (target - mean) / stdDev, or 0 when stdDev is 0.
func ZScore(mean, stdDev, target float64) float64 {
	if stdDev <= 0 {
		return 0
	}
	return (target - mean) / stdDev
}

// AnalyticProbability returns the normal tail 100 * P(X >= target) for X ~ N(mean, stdDev).
// With no spread the outcome is certain: 100 when mean reaches target, otherwise 0.
func AnalyticProbability(mean, stdDev, target float64) float64 {
	if stdDev <= 0 {
		if mean >= target {
			return 100
		}
		return 0
	}
	z := (target - mean) / stdDev
	return 100 * 0.5 * math.Erfc(z/math.Sqrt2)
}
