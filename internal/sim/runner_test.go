package sim

import (
	"context"
	"testing"

	"breathe/internal/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Swarm.Count = 24
	cfg.Duration = 2.0
	cfg.Seed = 7
	return cfg
}

type countingMetric struct {
	n int
}

func (m *countingMetric) Name() string { return "frames" }

func (m *countingMetric) Observe(_ Frame) { m.n++ }

func (m *countingMetric) Value() float64 { return float64(m.n) }

func (m *countingMetric) Reset() { m.n = 0 }

type frameCollector struct {
	frames []Frame
}

func (c *frameCollector) OnFrame(f Frame) { c.frames = append(c.frames, f) }

func TestRunnerProducesFrames(t *testing.T) {
	cfg := testConfig()
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := int(cfg.Duration / cfg.Dt)
	if result.StepsTaken != want {
		t.Errorf("steps %d, want %d", result.StepsTaken, want)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	for i := 1; i < len(result.Frames); i++ {
		if result.Frames[i].Time <= result.Frames[i-1].Time {
			t.Fatalf("time not monotone at frame %d", i)
		}
	}
	for _, f := range result.Frames {
		if !f.IsValid() {
			t.Fatalf("invalid frame at t=%f", f.Time)
		}
		if f.Live != cfg.Swarm.Count {
			t.Fatalf("live count %d, want %d", f.Live, cfg.Swarm.Count)
		}
	}
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Dt = 0
	if _, err := NewRunner(cfg); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestRunnerContextCancel(t *testing.T) {
	runner, err := NewRunner(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

func TestRunnerMetricsAndObservers(t *testing.T) {
	runner, err := NewRunner(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	m := &countingMetric{}
	c := &frameCollector{}
	runner.AddMetric(m)
	runner.AddObserver(c)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Metrics["frames"]; got != float64(result.StepsTaken) {
		t.Errorf("metric saw %f frames, want %d", got, result.StepsTaken)
	}
	if len(c.frames) != result.StepsTaken {
		t.Errorf("observer saw %d frames, want %d", len(c.frames), result.StepsTaken)
	}
}

func TestRunnerDeterministic(t *testing.T) {
	run := func() *Result {
		runner, err := NewRunner(testConfig())
		if err != nil {
			t.Fatal(err)
		}
		r, err := runner.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	a, b := run(), run()
	if len(a.Frames) != len(b.Frames) {
		t.Fatalf("frame counts differ: %d vs %d", len(a.Frames), len(b.Frames))
	}
	for i := range a.Frames {
		if a.Frames[i] != b.Frames[i] {
			t.Fatalf("frame %d differs between identical runs", i)
		}
	}
}

func TestRunnerUsersPropagated(t *testing.T) {
	cfg := testConfig()
	cfg.Users = 3
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatal(err)
	}
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames[0].Users != 3 {
		t.Errorf("users %d, want 3", result.Frames[0].Users)
	}
}

func TestEnsembleSeedsDiffer(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = 1.0
	ens := NewEnsemble(cfg, 3, 100)
	ens.AddMetric(func() Metric { return &countingMetric{} })

	results, err := ens.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	steps := results[0].StepsTaken
	for i, r := range results {
		if r.StepsTaken != steps {
			t.Errorf("run %d steps %d, want %d", i, r.StepsTaken, steps)
		}
		if r.Metrics["frames"] != float64(steps) {
			t.Errorf("run %d metric not isolated: %f", i, r.Metrics["frames"])
		}
	}

	// Different seeds shuffle spawn masses and noise, so swarms diverge.
	last := len(results[0].Frames) - 1
	if results[0].Frames[last].MeanRadius == results[1].Frames[last].MeanRadius {
		t.Error("distinct seeds produced identical swarms")
	}
}

func TestEnsembleBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = -1
	if _, err := NewEnsemble(cfg, 2, 0).Run(context.Background()); err == nil {
		t.Error("expected error for bad config")
	}
}
