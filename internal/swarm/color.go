package swarm

import "math"

// colorEps is the convergence threshold below which a particle's color is
// snapped to its target and skipped on later frames.
const colorEps = 1e-4

// StepColors damps every particle's displayed color toward its target with
// a single shared speed. Most particles are converged most frames, so the
// pass early-exits before doing any spring math for them.
func (e *Engine) StepColors(speed, dt float64) {
	if dt <= 0 || speed <= 0 {
		return
	}
	decay := math.Exp(-speed * dt)
	e.arena.Each(func(_ Handle, pt *Particle) {
		if converged(pt) {
			return
		}
		pt.Color.R, pt.colorVel.R = channelStep(pt.Color.R, pt.colorVel.R, pt.TargetColor.R, speed, dt, decay)
		pt.Color.G, pt.colorVel.G = channelStep(pt.Color.G, pt.colorVel.G, pt.TargetColor.G, speed, dt, decay)
		pt.Color.B, pt.colorVel.B = channelStep(pt.Color.B, pt.colorVel.B, pt.TargetColor.B, speed, dt, decay)
	})
}

func converged(pt *Particle) bool {
	if math.Abs(pt.Color.R-pt.TargetColor.R) > colorEps ||
		math.Abs(pt.Color.G-pt.TargetColor.G) > colorEps ||
		math.Abs(pt.Color.B-pt.TargetColor.B) > colorEps {
		return false
	}
	if math.Abs(pt.colorVel.R) > colorEps ||
		math.Abs(pt.colorVel.G) > colorEps ||
		math.Abs(pt.colorVel.B) > colorEps {
		return false
	}
	pt.Color = pt.TargetColor
	pt.colorVel = RGB{}
	return true
}

// channelStep is the same critically-damped closed form used by the breath
// smoother, inlined per channel.
func channelStep(current, vel, target, speed, dt, decay float64) (float64, float64) {
	x := current - target
	b := vel + speed*x
	return target + (x+b*dt)*decay, (vel - speed*b*dt) * decay
}
