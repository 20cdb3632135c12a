package breath

import (
	"fmt"
	"math"
)

// Phase identifies one segment of the breath cycle.
type Phase int

const (
	Inhale Phase = iota
	HoldIn
	Exhale
	HoldOut
	numPhases
)

func (p Phase) String() string {
	switch p {
	case Inhale:
		return "inhale"
	case HoldIn:
		return "hold-in"
	case Exhale:
		return "exhale"
	case HoldOut:
		return "hold-out"
	}
	return "unknown"
}

// ParsePhase inverts String.
func ParsePhase(name string) (Phase, error) {
	for p := Inhale; p < numPhases; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return Inhale, fmt.Errorf("breath: unknown phase: %q", name)
}

// State is the full breath output for one instant. It is recomputed every
// frame from elapsed time alone and never stored between frames.
type State struct {
	Phase             Phase
	RawProgress       float64
	EasedProgress     float64
	Crystallization   float64
	TargetOrbitRadius float64
	TargetSphereScale float64
}

// Params are the shape constants of a breath cycle. Durations follow the
// phase order Inhale, HoldIn, Exhale, HoldOut; a zero duration removes that
// phase from the cycle.
type Params struct {
	Durations [4]float64
	MinRadius float64
	MaxRadius float64
	MinScale  float64
	MaxScale  float64
	// CrystalBounds holds the start/end crystallization level per phase.
	// Only the hold phases have non-zero bounds.
	CrystalBounds [4][2]float64
	// Delta controls pause sharpness of the rounded-wave curve. Smaller
	// values flatten the ends of inhale/exhale into longer apparent pauses.
	Delta float64
}

func DefaultParams() Params {
	return Params{
		Durations:     [4]float64{4, 7, 8, 0},
		MinRadius:     2.0,
		MaxRadius:     3.2,
		MinScale:      0.8,
		MaxScale:      1.35,
		CrystalBounds: [4][2]float64{HoldIn: {0, 1}, HoldOut: {0, 0.7}},
		Delta:         0.3,
	}
}

func (p Params) TotalCycle() float64 {
	total := 0.0
	for _, d := range p.Durations {
		total += d
	}
	return total
}

func (p Params) Validate() error {
	for i, d := range p.Durations {
		if d < 0 {
			return fmt.Errorf("breath: negative duration for %s: %f", Phase(i), d)
		}
	}
	if p.TotalCycle() <= 0 {
		return fmt.Errorf("breath: cycle has zero total duration")
	}
	if p.MaxRadius <= p.MinRadius {
		return fmt.Errorf("breath: max radius %f must exceed min radius %f", p.MaxRadius, p.MinRadius)
	}
	if p.MaxScale <= p.MinScale {
		return fmt.Errorf("breath: max scale %f must exceed min scale %f", p.MaxScale, p.MinScale)
	}
	if p.Delta <= 0 {
		return fmt.Errorf("breath: wave delta must be positive, got %f", p.Delta)
	}
	return nil
}

// Curve maps elapsed wall-clock seconds to a breath State. Implementations
// must be pure: two calls with the same input return bit-identical output,
// which is the sole mechanism synchronizing independent clients.
type Curve interface {
	At(elapsed float64) State
	Params() Params
}

// Kind selects a curve family.
type Kind string

const (
	KindPhases Kind = "phases"
	KindWave   Kind = "wave"
)

var curves = map[Kind]func(Params) Curve{
	KindPhases: func(p Params) Curve { return NewPhaseCurve(p) },
	KindWave:   func(p Params) Curve { return NewWaveCurve(p) },
}

func New(kind Kind, p Params) (Curve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	fn, ok := curves[kind]
	if !ok {
		return nil, fmt.Errorf("breath: unknown curve kind: %s", kind)
	}
	return fn(p), nil
}

func Kinds() []Kind {
	return []Kind{KindPhases, KindWave}
}

// locate finds the phase containing cycleTime and the time already spent in
// it. Zero-duration phases are skipped so they are never reported.
func (p Params) locate(elapsed float64) (Phase, float64, float64) {
	total := p.TotalCycle()
	cycleTime := math.Mod(elapsed, total)
	if cycleTime < 0 {
		cycleTime += total
	}
	offset := 0.0
	for i, d := range p.Durations {
		if d <= 0 {
			continue
		}
		if cycleTime < offset+d {
			return Phase(i), cycleTime - offset, d
		}
		offset += d
	}
	// Floating accumulation can leave cycleTime a hair past the last phase.
	for i := int(numPhases) - 1; i >= 0; i-- {
		if p.Durations[i] > 0 {
			return Phase(i), p.Durations[i], p.Durations[i]
		}
	}
	return Inhale, 0, 1
}

// rawLevel is the directional linear progress: 0→1 during inhale, clamped 1
// during hold-in, 1→0 during exhale, clamped 0 during hold-out.
func rawLevel(phase Phase, intra, dur float64) float64 {
	u := clamp01(intra / dur)
	switch phase {
	case Inhale:
		return u
	case HoldIn:
		return 1
	case Exhale:
		return 1 - u
	default:
		return 0
	}
}

// crystallization rises between the phase's bounds during holds and is zero
// everywhere else.
func (p Params) crystallization(phase Phase, intra, dur float64) float64 {
	if phase != HoldIn && phase != HoldOut {
		return 0
	}
	b := p.CrystalBounds[phase]
	return b[0] + (b[1]-b[0])*easeInOutCubic(clamp01(intra/dur))
}

// state assembles a State from the eased level. Orbit radius and sphere
// scale are inverse affine images of the level: the orbit tightens as the
// sphere swells.
func (p Params) state(phase Phase, intra, dur, eased float64) State {
	return State{
		Phase:             phase,
		RawProgress:       rawLevel(phase, intra, dur),
		EasedProgress:     eased,
		Crystallization:   p.crystallization(phase, intra, dur),
		TargetOrbitRadius: p.MaxRadius - (p.MaxRadius-p.MinRadius)*eased,
		TargetSphereScale: p.MinScale + (p.MaxScale-p.MinScale)*eased,
	}
}
