package algo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectZeroHorizon(t *testing.T) {
	p := Project(6.2, 9.0, 0)

	assert.Equal(t, 0.0, p.EffectiveDays)
	assert.Equal(t, 0.0, p.SlopeGrowth)
	assert.Equal(t, 0.0, p.TimeUncertainty)
	assert.InDelta(t, 6.2, p.ProjectedMean, 1e-12)
	assert.InDelta(t, 9.0, p.PooledStdDev, 1e-12)
}

func TestProjectNinetyDays(t *testing.T) {
	p := Project(6.2, 9.0, 90)

	assert.InDelta(t, 30*math.Log(4), p.EffectiveDays, 1e-9)
	assert.InDelta(t, 41.589, p.EffectiveDays, 1e-3)
	assert.InDelta(t, 20.794, p.SlopeGrowth, 1e-3)
	assert.InDelta(t, 26.994, p.ProjectedMean, 1e-3)
	assert.InDelta(t, 4.743, p.TimeUncertainty, 1e-3)
	assert.InDelta(t, math.Sqrt(81+22.5), p.PooledStdDev, 1e-9)
}

func TestProjectCapsAtMaxScore(t *testing.T) {
	p := Project(95, 2, 365)
	assert.Equal(t, MaxScore, p.ProjectedMean)
}

func TestProjectNegativeHorizon(t *testing.T) {
	p := Project(50, 5, -10)
	assert.Equal(t, 0.0, p.EffectiveDays)
	assert.InDelta(t, 50.0, p.ProjectedMean, 1e-12)
}

func TestProjectMonotonicInHorizon(t *testing.T) {
	prev := Project(40, 10, 0).ProjectedMean
	for h := 1.0; h <= 2000; h += 7 {
		cur := Project(40, 10, h).ProjectedMean
		assert.GreaterOrEqual(t, cur, prev, "horizon %v", h)
		assert.LessOrEqual(t, cur, MaxScore)
		prev = cur
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 10.0, DaysBetween(start, start.AddDate(0, 0, 10)), 1e-9)
	assert.InDelta(t, 0.5, DaysBetween(start, start.Add(12*time.Hour)), 1e-9)
	assert.Equal(t, 0.0, DaysBetween(start, start.AddDate(0, 0, -1)))
	assert.Equal(t, 0.0, DaysBetween(time.Time{}, start))
	assert.Equal(t, 0.0, DaysBetween(start, time.Time{}))
}

func FuzzProject(f *testing.F) {
	f.Add(6.2, 9.0, 0.0)
	f.Add(6.2, 9.0, 90.0)
	f.Add(100.0, 0.0, 1e6)
	f.Add(-3.0, -1.0, math.Inf(1))

	f.Fuzz(func(t *testing.T, mean, sd, horizon float64) {
		p := Project(mean, sd, horizon)
		if p.ProjectedMean > MaxScore {
			t.Fatalf("projected mean %v above cap", p.ProjectedMean)
		}
		if p.EffectiveDays < 0 || p.TimeUncertainty < 0 {
			t.Fatalf("negative horizon terms: %+v", p)
		}
		if !math.IsInf(p.PooledStdDev, 0) && (math.IsNaN(p.PooledStdDev) || p.PooledStdDev < 0) {
			t.Fatalf("invalid pooled std dev %v", p.PooledStdDev)
		}
	})
}
