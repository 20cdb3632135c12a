package optim

import (
	"context"
	"math"

	"breathe/internal/config"
	"breathe/internal/sim"
)

// Objective scores one finished run; lower is better.
type Objective func(result *sim.Result) float64

// Apply writes one candidate parameter set into a config copy.
type Apply func(cfg *config.Config, params map[string]float64)

// GridSearch exhaustively evaluates the cartesian product of the parameter
// ranges against an objective.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	apply      Apply
}

func NewGridSearch(params []string, ranges [][]float64, apply Apply) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, apply: apply}
}

func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cfg := *base
		g.apply(&cfg, current)

		runner, err := sim.NewRunner(&cfg)
		if err != nil {
			// Invalid points of the grid are skipped, not fatal.
			return nil
		}
		result, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// HiddenBreathing penalizes damping so heavy the swarm stops following the
// breath: the objective is the inverse amplitude of the smoothed orbit
// radius, so wider tracked excursions score better.
func HiddenBreathing(result *sim.Result) float64 {
	if len(result.Frames) == 0 {
		return math.Inf(1)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range result.Frames {
		if f.OrbitRadius < lo {
			lo = f.OrbitRadius
		}
		if f.OrbitRadius > hi {
			hi = f.OrbitRadius
		}
	}
	amplitude := hi - lo
	if amplitude <= 0 {
		return math.Inf(1)
	}
	return 1 / amplitude
}
