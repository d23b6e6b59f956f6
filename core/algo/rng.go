package algo

// Source is a seeded Mulberry32 generator. The same seed always yields the same
// sequence. A Source is not safe for concurrent use; create one per simulation run.
type Source struct {
	state uint32
}

// NewSource returns a Source seeded with the low 32 bits of seed.
// Zero and negative seeds are valid.
func NewSource(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

// Float64 returns the next uniform draw in [0,1).
func (s *Source) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}
