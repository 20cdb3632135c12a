package metrics

import "breathe/internal/sim"

// Stillness is the mean peak particle speed over crystallized frames. Lower
// is better: a well-tuned hold should visibly quiet the swarm.
type Stillness struct {
	name      string
	threshold float64
	sum       float64
	samples   int
}

// NewStillness observes frames whose crystallization exceeds threshold.
func NewStillness(threshold float64) *Stillness {
	return &Stillness{
		name:      "stillness",
		threshold: threshold,
	}
}

func (s *Stillness) Name() string {
	return s.name
}

func (s *Stillness) Observe(f sim.Frame) {
	if f.Crystallization < s.threshold {
		return
	}
	s.sum += f.MaxSpeed
	s.samples++
}

func (s *Stillness) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Stillness) Reset() {
	s.sum = 0
	s.samples = 0
}
