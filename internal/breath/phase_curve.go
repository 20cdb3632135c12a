package breath

// PhaseCurve is the reference curve: a walk over the fixed phase-duration
// table with cubic easing inside inhale and exhale. Hold phases pin the
// eased level to the raw clamp so boundaries stay continuous.
type PhaseCurve struct {
	params Params
}

func NewPhaseCurve(p Params) *PhaseCurve {
	return &PhaseCurve{params: p}
}

func (c *PhaseCurve) Params() Params { return c.params }

func (c *PhaseCurve) At(elapsed float64) State {
	phase, intra, dur := c.params.locate(elapsed)
	raw := rawLevel(phase, intra, dur)
	eased := raw
	if phase == Inhale || phase == Exhale {
		eased = easeInOutCubic(raw)
	}
	return c.params.state(phase, intra, dur, eased)
}
