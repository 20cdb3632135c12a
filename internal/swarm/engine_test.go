package swarm

import (
	"math"
	"testing"

	"breathe/internal/breath"
	"breathe/internal/damp"
)

// quiet returns params with every force switched off except what the test
// enables explicitly.
func quiet(count int) Params {
	return Params{
		Count:      count,
		Mass:       1,
		DragInhale: 0.92,
		DragExhale: 0.92,
	}
}

func smoothed(radius, scale, crystal, level float64) damp.Smoothed {
	return damp.Smoothed{
		OrbitRadius: radius,
		SphereScale: scale,
		Crystal:     crystal,
		Raw:         breath.State{RawProgress: level},
	}
}

func TestSpawnDeterministic(t *testing.T) {
	a := NewEngine(quiet(32), 2.5, 7)
	b := NewEngine(quiet(32), 2.5, 7)

	var pa, pb []Particle
	a.Arena().Each(func(_ Handle, p *Particle) { pa = append(pa, *p) })
	b.Arena().Each(func(_ Handle, p *Particle) { pb = append(pb, *p) })

	if len(pa) != 32 || len(pb) != 32 {
		t.Fatalf("expected 32 particles, got %d and %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d diverged between same-seed engines", i)
		}
	}
}

func TestRestPositionsOnUnitSphere(t *testing.T) {
	e := NewEngine(quiet(64), 2.5, 1)
	e.Arena().Each(func(_ Handle, p *Particle) {
		if math.Abs(p.RestPosition.Length()-1) > 1e-9 {
			t.Errorf("rest position off unit sphere: %f", p.RestPosition.Length())
		}
		if p.Position.Length() == 0 {
			t.Error("spawn position at origin")
		}
	})
}

func TestOrbitSpringConverges(t *testing.T) {
	p := quiet(16)
	p.StiffnessInhale = 3
	p.StiffnessExhale = 3
	e := NewEngine(p, 3.2, 3)

	sm := smoothed(2.0, 0, 0, 0.5)
	for i := 0; i < 60*20; i++ {
		e.Step(sm, float64(i)/60, 1.0/60)
	}

	e.Arena().Each(func(_ Handle, pt *Particle) {
		if math.Abs(pt.Position.Length()-2.0) > 0.05 {
			t.Errorf("particle did not settle on orbit: radius %f", pt.Position.Length())
		}
	})
}

func TestRepulsionContainment(t *testing.T) {
	p := quiet(48)
	p.StiffnessInhale = 1
	p.StiffnessExhale = 1
	p.RepulsionOffset = 0.15
	p.RepulsionStrength = 6
	p.RepulsionPower = 2.2

	// Spawn at the shell boundary and let the spring pull outward too.
	e := NewEngine(p, 0.5, 11)
	sm := smoothed(2.0, 1.0, 0, 0)
	shell := 1.0 + p.RepulsionOffset

	for i := 0; i < 600; i++ {
		e.Step(sm, float64(i)/60, 1.0/60)
	}

	e.Arena().Each(func(_ Handle, pt *Particle) {
		if r := pt.Position.Length(); r < shell*0.9 {
			t.Errorf("particle inside repulsion shell: %f < %f", r, shell*0.9)
		}
	})
}

func TestZeroDistanceSkipsRepulsion(t *testing.T) {
	p := quiet(1)
	p.RepulsionStrength = 10
	p.StiffnessInhale = 2
	p.StiffnessExhale = 2
	e := NewEngine(p, 2, 5)

	e.Arena().Each(func(_ Handle, pt *Particle) { pt.Position = Vec3{} })
	e.Step(smoothed(2, 1, 0, 0.5), 0, 1.0/60)

	e.Arena().Each(func(_ Handle, pt *Particle) {
		if !pt.Position.IsFinite() || !pt.Velocity.IsFinite() {
			t.Errorf("zero-distance particle went non-finite: %+v", pt)
		}
	})
}

func TestUnusableMassSkippedForFrame(t *testing.T) {
	p := quiet(2)
	p.StiffnessInhale = 5
	p.StiffnessExhale = 5
	e := NewEngine(p, 3, 9)

	var frozen Handle
	first := true
	e.Arena().Each(func(h Handle, pt *Particle) {
		if first {
			pt.Mass = 0
			frozen = h
			first = false
		}
	})

	before, _ := e.Arena().Get(frozen)
	pos := before.Position
	e.Step(smoothed(1.5, 0, 0, 1), 0, 1.0/60)

	after, ok := e.Arena().Get(frozen)
	if !ok {
		t.Fatal("particle vanished")
	}
	if after.Position != pos {
		t.Error("zero-mass particle was integrated")
	}
}

func TestCrystallizationSilencesWind(t *testing.T) {
	p := quiet(8)
	p.Wind = 1.5
	p.WindFreq = 0.4
	p.WindTime = 0.3
	e := NewEngine(p, 2, 13)

	// Fully crystallized, no jitter configured: no force should act at all.
	e.Step(smoothed(0, 0, 1, 0), 1.0, 1.0/60)

	e.Arena().Each(func(_ Handle, pt *Particle) {
		if pt.Velocity.Length() != 0 {
			t.Errorf("wind leaked through full crystallization: %f", pt.Velocity.Length())
		}
	})
}

func TestJitterOnlyDuringHolds(t *testing.T) {
	p := quiet(8)
	p.Jitter = 1.0
	p.JitterFreq = 18
	e := NewEngine(p, 2, 13)

	e.Step(smoothed(0, 0, 0, 0), 1.0, 1.0/60)
	e.Arena().Each(func(_ Handle, pt *Particle) {
		if pt.Velocity.Length() != 0 {
			t.Errorf("jitter active outside holds: %f", pt.Velocity.Length())
		}
	})

	e.Step(smoothed(0, 0, 0.8, 0), 1.0, 1.0/60)
	moved := 0
	e.Arena().Each(func(_ Handle, pt *Particle) {
		if pt.Velocity.Length() > 0 {
			moved++
		}
	})
	if moved == 0 {
		t.Error("jitter inactive during hold")
	}
}

func TestDragNormalizationFrameRateIndependent(t *testing.T) {
	p := quiet(1)
	coarse := NewEngine(p, 2, 21)
	fine := NewEngine(p, 2, 21)

	kick := Vec3{1, -2, 0.5}
	coarse.Arena().Each(func(_ Handle, pt *Particle) { pt.Velocity = kick })
	fine.Arena().Each(func(_ Handle, pt *Particle) { pt.Velocity = kick })

	sm := smoothed(0, 0, 0, 0)
	for i := 0; i < 30; i++ {
		coarse.Step(sm, float64(i)/30, 1.0/30)
	}
	for i := 0; i < 60; i++ {
		fine.Step(sm, float64(i)/60, 1.0/60)
	}

	var vc, vf float64
	coarse.Arena().Each(func(_ Handle, pt *Particle) { vc = pt.Velocity.Length() })
	fine.Arena().Each(func(_ Handle, pt *Particle) { vf = pt.Velocity.Length() })

	if math.Abs(vc-vf) > 1e-9 {
		t.Errorf("drag decay depends on frame rate: %f vs %f", vc, vf)
	}
}

func TestLongRunStaysFinite(t *testing.T) {
	params := DefaultParams()
	params.Count = 64
	e := NewEngine(params, 3.0, 42)

	curve := breath.NewPhaseCurve(breath.DefaultParams())
	s := damp.NewSmoother(damp.DefaultSpeeds(), curve.At(0))

	dt := 1.0 / 60
	for i := 0; i < 5000; i++ {
		tm := float64(i) * dt
		sm := s.Update(curve.At(tm), dt)
		e.Step(sm, tm, dt)
	}

	e.Arena().Each(func(_ Handle, pt *Particle) {
		if !pt.Position.IsFinite() || !pt.Velocity.IsFinite() {
			t.Fatalf("non-finite state after long run: %+v", pt)
		}
		if pt.Position.Length() > 100 {
			t.Fatalf("particle escaped: radius %f", pt.Position.Length())
		}
	})
}

func TestSetPresencePreservesKinematics(t *testing.T) {
	e := NewEngine(quiet(6), 2, 17)
	palette := []RGB{{1, 0, 0}, {0, 1, 0}}

	var positions []Vec3
	e.Arena().Each(func(_ Handle, pt *Particle) { positions = append(positions, pt.Position) })

	e.SetPresence(2, palette, RGB{0.2, 0.2, 0.2})

	st := e.Stats()
	if st.Users != 2 {
		t.Errorf("expected 2 user particles, got %d", st.Users)
	}

	i := 0
	e.Arena().Each(func(_ Handle, pt *Particle) {
		if pt.Position != positions[i] {
			t.Errorf("particle %d moved during presence change", i)
		}
		i++
	})

	// Shrinking presence reclassifies without touching particle count.
	e.SetPresence(0, palette, RGB{0.2, 0.2, 0.2})
	st = e.Stats()
	if st.Users != 0 || st.Live != 6 {
		t.Errorf("presence shrink broke swarm: %+v", st)
	}
}

func TestStatsEmptyArena(t *testing.T) {
	e := NewEngine(quiet(2), 2, 1)
	var handles []Handle
	e.Arena().Each(func(h Handle, _ *Particle) { handles = append(handles, h) })
	for _, h := range handles {
		e.Arena().Destroy(h)
	}

	st := e.Stats()
	if st.Live != 0 || st.MinRadius != 0 || st.MeanRadius != 0 {
		t.Errorf("empty stats wrong: %+v", st)
	}
}
