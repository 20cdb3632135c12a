package sim

import (
	"fmt"
	"math"

	"breathe/internal/breath"
)

// Frame is one captured step of a run: the raw and damped breath values of
// that instant plus a summary of the swarm.
type Frame struct {
	Time            float64
	Phase           breath.Phase
	RawProgress     float64
	EasedProgress   float64
	Crystallization float64
	OrbitRadius     float64
	SphereScale     float64
	MeanRadius      float64
	MinRadius       float64
	MaxSpeed        float64
	Users           int
	Live            int
}

func (f Frame) IsValid() bool {
	for _, v := range []float64{f.OrbitRadius, f.SphereScale, f.MeanRadius, f.MinRadius, f.MaxSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Metric accumulates one scalar over a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer sees every frame as it happens.
type Observer interface {
	OnFrame(f Frame)
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim error at t=%.4f (step %d): %s", e.Time, e.Step, e.Message)
}
