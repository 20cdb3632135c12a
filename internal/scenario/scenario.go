package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"breathe/internal/breath"
	"breathe/internal/clock"
	"breathe/internal/config"
	"breathe/internal/damp"
	"breathe/internal/sim"
	"breathe/internal/swarm"
)

// Scenario is a scripted sequence of clock overrides, used to inspect how
// the damping stage and swarm react to jumps, pauses and slow motion.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Steps       []Step  `yaml:"steps"`
	Dt          float64 `yaml:"dt"`
}

// Step applies one clock action and then lets the pipeline run for Wait
// simulated seconds of frames.
type Step struct {
	Action   string  `yaml:"action"`
	Phase    string  `yaml:"phase"`
	Progress float64 `yaml:"progress"`
	Value    float64 `yaml:"value"`
	Wait     float64 `yaml:"wait"`
}

const (
	ActionJump   = "jump"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionScale  = "scale"
	ActionManual = "manual"
	ActionClear  = "clear"
	ActionWait   = "wait"
)

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		switch step.Action {
		case ActionJump, ActionManual:
			if _, err := breath.ParsePhase(step.Phase); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		case ActionScale:
			if step.Value <= 0 {
				return fmt.Errorf("step %d: scale must be positive, got %f", i+1, step.Value)
			}
		case ActionPause, ActionResume, ActionClear, ActionWait:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
		if step.Wait < 0 {
			return fmt.Errorf("step %d: negative wait", i+1)
		}
	}
	return nil
}

// Run executes the scenario against a full pipeline on a fixed timestep.
// The clock starts with a jump to the beginning of the cycle so the whole
// run uses the local clock and stays deterministic.
func (s *Scenario) Run(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := cfg.Curve()
	if err != nil {
		return nil, err
	}

	dt := s.Dt
	if dt <= 0 {
		dt = cfg.Dt
	}

	clk := clock.New(cfg.BreathParams())
	clk.JumpTo(clock.PhasePoint{Phase: breath.Inhale, Progress: 0})

	initial := curve.At(0)
	smoother := damp.NewSmoother(cfg.Damping, initial)
	engine := swarm.NewEngine(cfg.Swarm, initial.TargetOrbitRadius, cfg.Seed)

	result := &sim.Result{Metrics: make(map[string]float64)}
	step := 0

	advance := func(seconds float64) error {
		frames := int(seconds / dt)
		for i := 0; i < frames; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			elapsed := clk.Elapsed(dt)
			raw := curve.At(elapsed)
			sm := smoother.Update(raw, dt)
			engine.Step(sm, elapsed, dt)

			frame := sim.Frame{
				Time:            float64(step) * dt,
				Phase:           raw.Phase,
				RawProgress:     raw.RawProgress,
				EasedProgress:   raw.EasedProgress,
				Crystallization: sm.Crystal,
				OrbitRadius:     sm.OrbitRadius,
				SphereScale:     sm.SphereScale,
			}
			st := engine.Stats()
			frame.MeanRadius = st.MeanRadius
			frame.MinRadius = st.MinRadius
			frame.MaxSpeed = st.MaxSpeed
			frame.Live = st.Live

			result.Frames = append(result.Frames, frame)
			result.StepsTaken++
			step++
		}
		return nil
	}

	for _, st := range s.Steps {
		switch st.Action {
		case ActionJump:
			phase, _ := breath.ParsePhase(st.Phase)
			clk.JumpTo(clock.PhasePoint{Phase: phase, Progress: st.Progress})
		case ActionManual:
			phase, _ := breath.ParsePhase(st.Phase)
			clk.SetManual(clock.PhasePoint{Phase: phase, Progress: st.Progress})
		case ActionClear:
			clk.ClearManual()
		case ActionPause:
			clk.Pause()
		case ActionResume:
			clk.Resume()
		case ActionScale:
			clk.SetTimeScale(st.Value)
		}
		if err := advance(st.Wait); err != nil {
			return result, err
		}
	}
	return result, nil
}
