package breath

// WaveCurve is the alternate continuous approximation: phase timing comes
// from the same duration walk as PhaseCurve (so phase ids, raw progress and
// crystallization are identical), but the eased level follows an arctangent
// waveform whose pause sharpness is set by Params.Delta. Downstream
// consumers cannot tell the families apart: ranges and monotonicity match.
type WaveCurve struct {
	params Params
}

func NewWaveCurve(p Params) *WaveCurve {
	return &WaveCurve{params: p}
}

func (c *WaveCurve) Params() Params { return c.params }

func (c *WaveCurve) At(elapsed float64) State {
	phase, intra, dur := c.params.locate(elapsed)
	raw := rawLevel(phase, intra, dur)
	eased := raw
	if phase == Inhale || phase == Exhale {
		eased = waveEase(raw, c.params.Delta)
	}
	return c.params.state(phase, intra, dur, eased)
}
