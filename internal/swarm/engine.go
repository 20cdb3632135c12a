package swarm

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"breathe/internal/damp"
)

// Engine runs the per-frame force and integration pass over the swarm. It
// is strictly single-threaded: all writes to particle state happen inside
// Step and StepColors on the caller's frame loop.
type Engine struct {
	params Params
	noise  *perlin.Perlin
	arena  *Arena
}

// NewEngine spawns the full swarm in one batch. Count is fixed for the
// engine's lifetime; rest positions are spread over the unit sphere with a
// Fibonacci lattice and each particle gets a deterministic noise seed from
// the run's RNG seed.
func NewEngine(params Params, startRadius float64, seed int64) *Engine {
	rng := rand.New(rand.NewSource(seed))
	arena := NewArena(params.Count)

	golden := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < params.Count; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(params.Count)
		r := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		rest := Vec3{r * math.Cos(theta), y, r * math.Sin(theta)}

		arena.Spawn(Particle{
			Position:     rest.Scale(startRadius),
			Mass:         params.Mass * (0.9 + 0.2*rng.Float64()),
			RestPosition: rest,
			Seed:         rng.Float64() * 1000,
			Kind:         KindFiller,
		})
	}

	return &Engine{
		params: params,
		noise:  perlin.NewPerlin(2, 2, 3, seed),
		arena:  arena,
	}
}

func (e *Engine) Arena() *Arena { return e.arena }

func (e *Engine) Params() Params { return e.params }

// Step accumulates all forces for each live particle and advances it with
// one semi-implicit Euler step. A particle with an unusable mass or a
// non-finite position is skipped for this frame only; entities can be
// destroyed by the host between frames and must never break the pass.
func (e *Engine) Step(sm damp.Smoothed, t, dt float64) {
	if dt <= 0 {
		return
	}
	p := e.params
	level := sm.Raw.RawProgress

	stiffness := lerp(p.StiffnessExhale, p.StiffnessInhale, level)
	if p.CrystalStiffness != 0 {
		stiffness *= 1 + p.CrystalStiffness*sm.Crystal
	}
	drag := lerp(p.DragExhale, p.DragInhale, level)
	dragStep := math.Pow(drag, dt*60)
	wind := p.Wind * (1 - sm.Crystal)
	jitter := p.Jitter * sm.Crystal
	shell := sm.SphereScale + p.RepulsionOffset
	shellSq := shell * shell
	wt := t * p.WindTime

	e.arena.Each(func(_ Handle, pt *Particle) {
		if pt.Mass <= 0 || !pt.Position.IsFinite() {
			return
		}

		// Orbit spring toward the particle's slot at the current radius.
		target := pt.RestPosition.Scale(sm.OrbitRadius)
		force := target.Sub(pt.Position).Scale(stiffness)

		// Ambient turbulence, suppressed as stillness crystallizes.
		if wind != 0 {
			f := p.WindFreq
			force.X += wind * e.noise.Noise3D(pt.Position.X*f, pt.Position.Y*f, wt+pt.Seed)
			force.Y += wind * e.noise.Noise3D(pt.Position.Y*f+31.4, pt.Position.Z*f, wt+pt.Seed)
			force.Z += wind * e.noise.Noise3D(pt.Position.Z*f+67.3, pt.Position.X*f, wt+pt.Seed)
		}

		// Vibrating stillness: high-frequency jitter replaces the wind
		// during holds.
		if jitter != 0 {
			ph := t*p.JitterFreq + pt.Seed
			force.X += jitter * math.Sin(ph*1.00)
			force.Y += jitter * math.Sin(ph*1.31+1.7)
			force.Z += jitter * math.Sin(ph*0.77+4.1)
		}

		// Keep particles out of the sphere's visual volume. Squared-distance
		// test first; the sqrt only runs for particles inside the shell.
		distSq := pt.Position.LengthSq()
		if distSq < shellSq && distSq > 0 {
			dist := math.Sqrt(distSq)
			depth := 1 - dist/shell
			mag := p.RepulsionStrength * math.Pow(depth, p.RepulsionPower)
			force = force.Add(pt.Position.Scale(mag / dist))
		}

		// Lift grows with the inhale.
		force.Y += p.Buoyancy * level

		pt.Acceleration = force.Scale(1 / pt.Mass)
		pt.Velocity = pt.Velocity.Add(pt.Acceleration.Scale(dt)).Scale(dragStep)
		pt.Position = pt.Position.Add(pt.Velocity.Scale(dt))
	})
}

// SetPresence reassigns owner kinds and target colors to match a new
// connected-user count. Particles keep their kinematic state; only the
// classification and color targets move.
func (e *Engine) SetPresence(users int, palette []RGB, filler RGB) {
	i := 0
	e.arena.Each(func(_ Handle, pt *Particle) {
		if i < users && len(palette) > 0 {
			pt.Kind = KindUser
			pt.TargetColor = palette[i%len(palette)]
		} else {
			pt.Kind = KindFiller
			pt.TargetColor = filler
		}
		i++
	})
}

// Stats summarizes the swarm for frame capture and metrics.
type Stats struct {
	MeanRadius float64
	MinRadius  float64
	MaxSpeed   float64
	Users      int
	Live       int
}

func (e *Engine) Stats() Stats {
	st := Stats{MinRadius: math.Inf(1)}
	sum := 0.0
	e.arena.Each(func(_ Handle, pt *Particle) {
		r := pt.Position.Length()
		sum += r
		if r < st.MinRadius {
			st.MinRadius = r
		}
		if s := pt.Velocity.Length(); s > st.MaxSpeed {
			st.MaxSpeed = s
		}
		if pt.Kind == KindUser {
			st.Users++
		}
		st.Live++
	})
	if st.Live > 0 {
		st.MeanRadius = sum / float64(st.Live)
	} else {
		st.MinRadius = 0
	}
	return st
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
