// Package clock resolves the single time input of the breath curve. In
// production the wall clock is used directly, which is what keeps every
// client synchronized without any network coordination. For authoring and
// inspection a layered set of overrides can substitute the time value; the
// layer never touches anything but that one scalar.
package clock

import (
	"time"

	"breathe/internal/breath"
)

// PhasePoint addresses an instant inside the cycle by phase and progress.
type PhasePoint struct {
	Phase    breath.Phase
	Progress float64
}

// Clock produces the elapsed-seconds value for each frame. Override
// precedence, highest first: manual phase point, one-shot jump, paused local
// clock, scaled local clock, wall clock. Only one layer is ever in effect.
type Clock struct {
	params breath.Params

	manual    *PhasePoint
	jump      *PhasePoint
	paused    bool
	timeScale float64

	local    float64
	useLocal bool

	now func() time.Time
}

func New(params breath.Params) *Clock {
	return &Clock{
		params:    params,
		timeScale: 1,
		now:       time.Now,
	}
}

// Elapsed resolves the time value for this frame. delta is the real frame
// time and only matters for the scaled-clock layer.
func (c *Clock) Elapsed(delta float64) float64 {
	if c.manual != nil {
		return c.equivalentElapsed(*c.manual)
	}
	if c.jump != nil {
		c.local = c.equivalentElapsed(*c.jump)
		c.useLocal = true
		c.jump = nil
		return c.local
	}
	if c.paused && c.useLocal {
		return c.local
	}
	if c.useLocal {
		c.local += delta * c.timeScale
		return c.local
	}
	return c.wall()
}

// SetManual pins the curve to a fixed phase point until cleared.
func (c *Clock) SetManual(p PhasePoint) { c.manual = &p }

func (c *Clock) ClearManual() { c.manual = nil }

// JumpTo requests a one-shot jump. The next Elapsed call seeds the local
// clock at the equivalent time so later frames continue smoothly from there.
func (c *Clock) JumpTo(p PhasePoint) { c.jump = &p }

// Pause freezes the local clock, capturing the current wall time first if no
// local clock was running yet.
func (c *Clock) Pause() {
	if !c.useLocal {
		c.local = c.wall()
		c.useLocal = true
	}
	c.paused = true
}

func (c *Clock) Resume() { c.paused = false }

func (c *Clock) Paused() bool { return c.paused }

// SetTimeScale switches to a scaled local clock. Scale 1 on a fresh clock
// keeps the production wall-clock path.
func (c *Clock) SetTimeScale(scale float64) {
	if scale == 1 && !c.useLocal {
		return
	}
	if !c.useLocal {
		c.local = c.wall()
		c.useLocal = true
	}
	c.timeScale = scale
}

func (c *Clock) TimeScale() float64 { return c.timeScale }

// Reset drops every override and returns to the wall clock.
func (c *Clock) Reset() {
	c.manual = nil
	c.jump = nil
	c.paused = false
	c.timeScale = 1
	c.local = 0
	c.useLocal = false
}

// Live reports whether the production wall-clock path is active.
func (c *Clock) Live() bool {
	return c.manual == nil && c.jump == nil && !c.useLocal
}

func (c *Clock) wall() float64 {
	return float64(c.now().UnixMilli()) / 1000
}

// equivalentElapsed maps a phase point to the matching cycle time.
func (c *Clock) equivalentElapsed(p PhasePoint) float64 {
	offset := 0.0
	for i := 0; i < int(p.Phase) && i < len(c.params.Durations); i++ {
		offset += c.params.Durations[i]
	}
	dur := 0.0
	if int(p.Phase) < len(c.params.Durations) {
		dur = c.params.Durations[p.Phase]
	}
	prog := p.Progress
	if prog < 0 {
		prog = 0
	}
	if prog > 1 {
		prog = 1
	}
	return offset + prog*dur
}
