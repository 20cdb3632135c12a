package sim

import (
	"context"
	"sync"

	"breathe/internal/config"
)

// MetricFactory builds a fresh metric per run so ensemble members never
// share accumulator state.
type MetricFactory func() Metric

// Ensemble runs the same session across consecutive seeds in parallel.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	factories []MetricFactory
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) AddMetric(f MetricFactory) { e.factories = append(e.factories, f) }

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			runner, err := NewRunner(&cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			for _, f := range e.factories {
				runner.AddMetric(f())
			}
			results[idx], errs[idx] = runner.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
