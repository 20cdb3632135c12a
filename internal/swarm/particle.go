package swarm

// OwnerKind classifies a particle as representing a connected user or as
// ambient filler. It only affects downstream visuals and target color;
// presence changes reassign the kind in place, never the particle.
type OwnerKind int

const (
	KindFiller OwnerKind = iota
	KindUser
)

func (k OwnerKind) String() string {
	if k == KindUser {
		return "user"
	}
	return "filler"
}

// RGB is a linear color triple in [0,1].
type RGB struct {
	R, G, B float64
}

// DefaultPalette assigns distinct hues to connected users; fillers share a
// muted neutral.
var DefaultPalette = []RGB{
	{R: 0.95, G: 0.45, B: 0.30},
	{R: 0.35, G: 0.75, B: 0.95},
	{R: 0.55, G: 0.90, B: 0.50},
	{R: 0.90, G: 0.80, B: 0.35},
	{R: 0.80, G: 0.50, B: 0.95},
	{R: 0.40, G: 0.90, B: 0.80},
}

var FillerColor = RGB{R: 0.55, G: 0.58, B: 0.65}

// Particle is one rigid point mass of the swarm. RestPosition and Seed are
// fixed at spawn; everything else mutates once per frame inside the engine.
type Particle struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Mass         float64

	// RestPosition is the unit direction of this particle's angular slot on
	// the breathing sphere.
	RestPosition Vec3
	// Seed offsets this particle's noise and jitter phase deterministically.
	Seed float64

	Color       RGB
	TargetColor RGB
	colorVel    RGB

	Kind OwnerKind
}

// Handle addresses a particle slot. The generation count detects stale
// handles after a slot has been freed and reused.
type Handle struct {
	index int
	gen   uint32
}

type slot struct {
	gen   uint32
	alive bool
	p     Particle
}

// Arena stores particles in stable slots. Destruction marks a slot free
// rather than moving survivors, so handles held elsewhere stay valid and
// the per-frame iteration simply skips dead slots.
type Arena struct {
	slots []slot
	free  []int
	live  int
}

func NewArena(capacity int) *Arena {
	return &Arena{slots: make([]slot, 0, capacity)}
}

func (a *Arena) Spawn(p Particle) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.alive = true
		s.p = p
		a.live++
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{alive: true, p: p})
	a.live++
	return Handle{index: len(a.slots) - 1}
}

func (a *Arena) Destroy(h Handle) bool {
	if h.index < 0 || h.index >= len(a.slots) {
		return false
	}
	s := &a.slots[h.index]
	if !s.alive || s.gen != h.gen {
		return false
	}
	s.alive = false
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Get returns the particle for a handle, or false if the slot has been
// freed or reused since the handle was taken.
func (a *Arena) Get(h Handle) (*Particle, bool) {
	if h.index < 0 || h.index >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.alive || s.gen != h.gen {
		return nil, false
	}
	return &s.p, true
}

func (a *Arena) Len() int { return a.live }

// Each visits live slots only.
func (a *Arena) Each(fn func(Handle, *Particle)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.alive {
			continue
		}
		fn(Handle{index: i, gen: s.gen}, &s.p)
	}
}
