package swarm

import "testing"

func TestArenaSpawnGet(t *testing.T) {
	a := NewArena(4)
	h := a.Spawn(Particle{Seed: 42})

	p, ok := a.Get(h)
	if !ok {
		t.Fatal("expected live particle")
	}
	if p.Seed != 42 {
		t.Errorf("expected seed 42, got %f", p.Seed)
	}
	if a.Len() != 1 {
		t.Errorf("expected len 1, got %d", a.Len())
	}
}

func TestArenaDestroyMarksFree(t *testing.T) {
	a := NewArena(4)
	h := a.Spawn(Particle{})

	if !a.Destroy(h) {
		t.Fatal("destroy failed")
	}
	if a.Len() != 0 {
		t.Errorf("expected len 0, got %d", a.Len())
	}
	if _, ok := a.Get(h); ok {
		t.Error("stale handle resolved after destroy")
	}
	if a.Destroy(h) {
		t.Error("double destroy succeeded")
	}
}

func TestArenaSlotReuseBumpsGeneration(t *testing.T) {
	a := NewArena(4)
	old := a.Spawn(Particle{Seed: 1})
	a.Destroy(old)

	fresh := a.Spawn(Particle{Seed: 2})
	if _, ok := a.Get(old); ok {
		t.Error("stale handle resolved against reused slot")
	}
	p, ok := a.Get(fresh)
	if !ok || p.Seed != 2 {
		t.Errorf("fresh handle broken: ok=%v", ok)
	}
}

func TestArenaEachSkipsDead(t *testing.T) {
	a := NewArena(4)
	a.Spawn(Particle{Seed: 1})
	dead := a.Spawn(Particle{Seed: 2})
	a.Spawn(Particle{Seed: 3})
	a.Destroy(dead)

	seen := map[float64]bool{}
	a.Each(func(_ Handle, p *Particle) { seen[p.Seed] = true })

	if len(seen) != 2 || seen[2] {
		t.Errorf("unexpected visit set: %v", seen)
	}
}

func TestArenaGetOutOfRange(t *testing.T) {
	a := NewArena(1)
	if _, ok := a.Get(Handle{index: 5}); ok {
		t.Error("out-of-range handle resolved")
	}
	if _, ok := a.Get(Handle{index: -1}); ok {
		t.Error("negative handle resolved")
	}
}
