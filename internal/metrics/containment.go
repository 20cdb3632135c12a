package metrics

import "breathe/internal/sim"

// Containment measures how well the repulsion shell keeps particles out of
// the sphere volume: the fraction of frames whose innermost particle stays
// outside the scaled shell.
type Containment struct {
	name       string
	offset     float64
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(offset, tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		offset:    offset,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	shell := f.SphereScale + c.offset
	if f.MinRadius < shell*(1-c.tolerance) {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
