// Package damp implements critically-damped smoothing of scalar targets.
// The closed-form spring solution makes each step exact for a constant
// target, so trajectories are identical at any frame rate.
package damp

import "math"

// Value is one smoothed quantity. Velocity persists across frames; it is
// never reset after creation.
type Value struct {
	Current  float64
	Velocity float64
}

// Step advances the value toward target over dt seconds. speed is the spring
// frequency: convergence time is proportional to 1/speed. With zero initial
// velocity the approach is monotonic, and as dt grows the value degrades
// gracefully to the target itself.
func (v *Value) Step(target, speed, dt float64) float64 {
	if dt <= 0 || speed <= 0 {
		return v.Current
	}
	x := v.Current - target
	decay := math.Exp(-speed * dt)
	b := v.Velocity + speed*x
	v.Current = target + (x+b*dt)*decay
	v.Velocity = (v.Velocity - speed*b*dt) * decay
	return v.Current
}

// Snap moves directly to the target and kills velocity.
func (v *Value) Snap(target float64) {
	v.Current = target
	v.Velocity = 0
}

// Speeds are the per-quantity spring frequencies of the breath smoother.
// They are deliberately independent: smoothing the phase level harder than
// the orbit radius (or vice versa) changes how visible the breathing is, and
// an overly aggressive setting flattens the motion entirely.
type Speeds struct {
	Phase   float64 `yaml:"phase"`
	Radius  float64 `yaml:"radius"`
	Scale   float64 `yaml:"scale"`
	Crystal float64 `yaml:"crystal"`
	Color   float64 `yaml:"color"`
}

func DefaultSpeeds() Speeds {
	return Speeds{
		Phase:   2.2,
		Radius:  3.0,
		Scale:   2.6,
		Crystal: 1.8,
		Color:   4.0,
	}
}
