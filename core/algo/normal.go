package algo

import "math"

// Normal draws one standard-normal sample from src using the Box-Muller transform.
// The first uniform draw is repeated while it is exactly 0 so ln(0) is never taken.
func Normal(src *Source) float64 {
	u1 := src.Float64()
	for u1 == 0 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
