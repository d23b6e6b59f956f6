package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulateScenarioNoHorizon(t *testing.T) {
	p := Project(6.2, 9.0, 0)
	sim := Simulate(p.ProjectedMean, p.PooledStdDev, 70, DefaultTrials, NewSource(20240101))

	assert.InDelta(t, 7.089, sim.ZScore, 1e-3)
	assert.InDelta(t, 0.0, sim.ProbabilityPercent, 0.1)
	assert.Less(t, sim.AnalyticPercent, 1e-9)
	assert.Equal(t, DefaultTrials, sim.Trials)
}

func TestSimulateScenarioNinetyDays(t *testing.T) {
	p := Project(6.2, 9.0, 90)
	sim := Simulate(p.ProjectedMean, p.PooledStdDev, 70, DefaultTrials, NewSource(20240101))

	assert.InDelta(t, 4.227, sim.ZScore, 1e-3)
	assert.InDelta(t, 0.0, sim.ProbabilityPercent, 0.1)
}

func TestSimulateDeterministic(t *testing.T) {
	a := Simulate(62, 11, 70, 2000, NewSource(7))
	b := Simulate(62, 11, 70, 2000, NewSource(7))
	assert.Equal(t, a, b)
}

func TestSimulateConvergesToAnalytic(t *testing.T) {
	sim := Simulate(60, 10, 70, 100000, NewSource(7))

	assert.InDelta(t, 15.8655, sim.AnalyticPercent, 1e-3)
	assert.InDelta(t, sim.AnalyticPercent, sim.ProbabilityPercent, 1.0)
}

func TestSimulateTrialFloor(t *testing.T) {
	sim := Simulate(80, 0, 70, 0, NewSource(1))

	assert.Equal(t, 1, sim.Trials)
	assert.Equal(t, 100.0, sim.ProbabilityPercent)
	assert.Equal(t, 0.0, sim.ZScore)
	assert.Equal(t, 100.0, sim.AnalyticPercent)
}

func TestSimulateClampsSamples(t *testing.T) {
	// Every sample above 100 is clamped, so a target of exactly 100 is always met.
	sim := Simulate(1000, 1, 100, 500, NewSource(3))
	assert.Equal(t, 100.0, sim.ProbabilityPercent)

	// Every sample below 0 is clamped to 0, which meets a target of 0.
	sim = Simulate(-1000, 1, 0, 500, NewSource(3))
	assert.Equal(t, 100.0, sim.ProbabilityPercent)
}

func TestZScoreAndAnalytic(t *testing.T) {
	assert.Equal(t, 0.0, ZScore(50, 0, 70))
	assert.InDelta(t, 2.0, ZScore(50, 10, 70), 1e-12)
	assert.InDelta(t, 50.0, AnalyticProbability(70, 10, 70), 1e-9)
	assert.Equal(t, 0.0, AnalyticProbability(60, 0, 70))
	assert.InDelta(t, 100*(1-0.8413447460685429), AnalyticProbability(60, 10, 70), 1e-9)
}

func FuzzSimulate(f *testing.F) {
	f.Add(27.0, 10.17, 70.0, 50, int64(1))
	f.Add(0.0, 0.0, 0.0, 1, int64(-5))
	f.Add(math.NaN(), math.Inf(1), 50.0, 10, int64(0))

	f.Fuzz(func(t *testing.T, mean, sd, target float64, trials int, seed int64) {
		trials = trials % 200
		sim := Simulate(mean, sd, target, trials, NewSource(seed))
		if sim.ProbabilityPercent < 0 || sim.ProbabilityPercent > 100 {
			t.Fatalf("probability out of range: %v", sim.ProbabilityPercent)
		}
		if sim.Trials < 1 {
			t.Fatalf("trial floor violated: %d", sim.Trials)
		}
	})
}

func BenchmarkSimulate(b *testing.B) {
	for b.Loop() {
		_ = Simulate(27, 10.17, 70, DefaultTrials, NewSource(20240101))
	}
}
