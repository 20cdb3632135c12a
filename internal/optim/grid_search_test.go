package optim

import (
	"context"
	"math"
	"testing"

	"breathe/internal/config"
	"breathe/internal/sim"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Swarm.Count = 16
	cfg.Duration = 2.0
	cfg.Seed = 5
	return cfg
}

func TestGridSearchFindsBestCell(t *testing.T) {
	gs := NewGridSearch(
		[]string{"radius_speed"},
		[][]float64{{0.5, 2.0, 4.0}},
		func(cfg *config.Config, p map[string]float64) {
			cfg.Damping.Radius = p["radius_speed"]
		},
	)

	// Faster radius damping tracks the breath more closely, so the inverse
	// amplitude objective must prefer the largest speed in the grid.
	params, score, err := gs.Search(context.Background(), baseConfig(), HiddenBreathing)
	if err != nil {
		t.Fatal(err)
	}
	if params["radius_speed"] != 4.0 {
		t.Errorf("best speed %f, want 4.0", params["radius_speed"])
	}
	if math.IsInf(score, 1) {
		t.Error("no cell scored")
	}
}

func TestGridSearchMultiDimension(t *testing.T) {
	evals := 0
	gs := NewGridSearch(
		[]string{"a", "b"},
		[][]float64{{1, 2}, {3, 4, 5}},
		func(cfg *config.Config, p map[string]float64) {
			evals++
		},
	)

	objective := func(result *sim.Result) float64 { return 0 }
	if _, _, err := gs.Search(context.Background(), baseConfig(), objective); err != nil {
		t.Fatal(err)
	}
	if evals != 6 {
		t.Errorf("expected 6 grid cells, got %d", evals)
	}
}

func TestGridSearchSkipsInvalidCells(t *testing.T) {
	gs := NewGridSearch(
		[]string{"dt"},
		[][]float64{{-1, 1.0 / 60}},
		func(cfg *config.Config, p map[string]float64) {
			cfg.Dt = p["dt"]
		},
	)

	params, _, err := gs.Search(context.Background(), baseConfig(), HiddenBreathing)
	if err != nil {
		t.Fatal(err)
	}
	if params["dt"] != 1.0/60 {
		t.Errorf("invalid cell won: %v", params)
	}
}

func TestGridSearchContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch(
		[]string{"a"},
		[][]float64{{1}},
		func(cfg *config.Config, p map[string]float64) {},
	)
	if _, _, err := gs.Search(ctx, baseConfig(), HiddenBreathing); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHiddenBreathingDegenerate(t *testing.T) {
	if !math.IsInf(HiddenBreathing(&sim.Result{}), 1) {
		t.Error("empty result should score +Inf")
	}

	flat := &sim.Result{Frames: []sim.Frame{{OrbitRadius: 2}, {OrbitRadius: 2}}}
	if !math.IsInf(HiddenBreathing(flat), 1) {
		t.Error("flat orbit should score +Inf")
	}
}
