package metrics

import (
	"math"

	"breathe/internal/sim"
)

// Stability scores how well the swarm stays bounded: the fraction of frames
// whose mean radius and peak speed stay under the thresholds.
type Stability struct {
	name       string
	maxRadius  float64
	maxSpeed   float64
	violations int
	samples    int
}

func NewStability(maxRadius, maxSpeed float64) *Stability {
	return &Stability{
		name:      "stability",
		maxRadius: maxRadius,
		maxSpeed:  maxSpeed,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if f.MeanRadius > s.maxRadius || f.MaxSpeed > s.maxSpeed ||
		math.IsNaN(f.MeanRadius) || math.IsNaN(f.MaxSpeed) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
