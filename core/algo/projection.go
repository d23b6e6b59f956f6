package algo

import (
	"math"
	"time"
)

// Fixed constants of the projection model.
const (
	DampingBaseDays  = 30.0 // Log damping base: growth flattens on this time scale
	GrowthPerDay     = 0.5  // Points gained per effective day
	TimeSpreadFactor = 0.5  // Spread added per sqrt(day) of horizon
	MaxScore         = 100.0
	MinScore         = 0.0
)

// Projection is the deterministic part of a forecast for one subject.
type Projection struct {
	EffectiveDays   float64
	SlopeGrowth     float64
	ProjectedMean   float64
	TimeUncertainty float64
	PooledStdDev    float64
}

// Project applies log-damped growth to currentMean over horizonDays and pools the
// observed spread with the time uncertainty. A non-positive horizon projects no change.
func Project(currentMean, currentStdDev, horizonDays float64) Projection {
	currentMean = finite(currentMean)
	currentStdDev = math.Abs(finite(currentStdDev))
	horizonDays = finite(horizonDays)

	var p Projection
	if horizonDays > 0 {
		p.EffectiveDays = DampingBaseDays * math.Log(1+horizonDays/DampingBaseDays)
		p.TimeUncertainty = math.Sqrt(horizonDays) * TimeSpreadFactor
	}
	p.SlopeGrowth = GrowthPerDay * p.EffectiveDays
	p.ProjectedMean = math.Min(MaxScore, currentMean+p.SlopeGrowth)
	p.PooledStdDev = math.Sqrt(currentStdDev*currentStdDev + p.TimeUncertainty*p.TimeUncertainty)
	return p
}

// DaysBetween returns the fractional number of days from start to end.
// It returns 0 when either time is zero or end is not after start.
func DaysBetween(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours() / 24
}
