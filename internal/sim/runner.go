package sim

import (
	"context"

	"breathe/internal/breath"
	"breathe/internal/config"
	"breathe/internal/damp"
	"breathe/internal/swarm"
)

// Runner executes a full offline session: breath curve, damping stage and
// particle engine stepped together on a fixed timestep.
type Runner struct {
	cfg       *config.Config
	curve     breath.Curve
	metrics   []Metric
	observers []Observer
}

func NewRunner(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := cfg.Curve()
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, curve: curve}, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps the session to completion or context cancellation. A frame that
// goes non-finite stops the run and is recorded as a SimError; the partial
// result is still returned.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.cfg
	dt := cfg.Dt
	steps := int(cfg.Duration / dt)

	initial := r.curve.At(0)
	smoother := damp.NewSmoother(cfg.Damping, initial)
	engine := swarm.NewEngine(cfg.Swarm, initial.TargetOrbitRadius, cfg.Seed)
	engine.SetPresence(cfg.Users, swarm.DefaultPalette, swarm.FillerColor)

	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * dt
		raw := r.curve.At(t)
		sm := smoother.Update(raw, dt)
		engine.Step(sm, t, dt)
		engine.StepColors(cfg.Damping.Color, dt)

		frame := capture(t, raw, sm, engine.Stats())
		if !frame.IsValid() {
			result.Errors = append(result.Errors, SimError{
				Time: t, Step: i, Message: "non-finite frame",
			})
			break
		}

		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(frame)
		}

		result.Frames = append(result.Frames, frame)
		result.StepsTaken++
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func capture(t float64, raw breath.State, sm damp.Smoothed, st swarm.Stats) Frame {
	return Frame{
		Time:            t,
		Phase:           raw.Phase,
		RawProgress:     raw.RawProgress,
		EasedProgress:   raw.EasedProgress,
		Crystallization: sm.Crystal,
		OrbitRadius:     sm.OrbitRadius,
		SphereScale:     sm.SphereScale,
		MeanRadius:      st.MeanRadius,
		MinRadius:       st.MinRadius,
		MaxSpeed:        st.MaxSpeed,
		Users:           st.Users,
		Live:            st.Live,
	}
}
