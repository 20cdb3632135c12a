package damp

import "breathe/internal/breath"

// Smoothed carries the damped breath values consumed by physics and
// rendering, alongside the raw state of the same frame (the force model
// blends stiffness and drag by the undamped phase level).
type Smoothed struct {
	Phase       float64
	OrbitRadius float64
	SphereScale float64
	Crystal     float64
	Raw         breath.State
}

// Smoother owns the four damped breath quantities. It is created once per
// swarm and stepped exactly once per frame.
type Smoother struct {
	phase   Value
	radius  Value
	scale   Value
	crystal Value
	speeds  Speeds
	raw     breath.State
}

func NewSmoother(speeds Speeds, initial breath.State) *Smoother {
	return &Smoother{
		phase:   Value{Current: initial.EasedProgress},
		radius:  Value{Current: initial.TargetOrbitRadius},
		scale:   Value{Current: initial.TargetSphereScale},
		crystal: Value{Current: initial.Crystallization},
		speeds:  speeds,
		raw:     initial,
	}
}

// Update recomputes the damped values from this frame's raw breath state.
func (s *Smoother) Update(raw breath.State, dt float64) Smoothed {
	s.raw = raw
	return Smoothed{
		Phase:       s.phase.Step(raw.EasedProgress, s.speeds.Phase, dt),
		OrbitRadius: s.radius.Step(raw.TargetOrbitRadius, s.speeds.Radius, dt),
		SphereScale: s.scale.Step(raw.TargetSphereScale, s.speeds.Scale, dt),
		Crystal:     s.crystal.Step(raw.Crystallization, s.speeds.Crystal, dt),
		Raw:         raw,
	}
}

// Peek returns the current damped values without advancing them.
func (s *Smoother) Peek() Smoothed {
	return Smoothed{
		Phase:       s.phase.Current,
		OrbitRadius: s.radius.Current,
		SphereScale: s.scale.Current,
		Crystal:     s.crystal.Current,
		Raw:         s.raw,
	}
}
