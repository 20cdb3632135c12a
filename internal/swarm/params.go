package swarm

// Params are the force and integration constants of the particle engine.
// They are read-only after swarm creation.
type Params struct {
	Count int     `yaml:"count"`
	Mass  float64 `yaml:"mass"`

	// Stiffness and drag blend between the exhale and inhale constants by
	// the raw (undamped) breath level: tighter and more damped at full
	// inhale, looser on the way out.
	StiffnessInhale float64 `yaml:"stiffness_inhale"`
	StiffnessExhale float64 `yaml:"stiffness_exhale"`
	DragInhale      float64 `yaml:"drag_inhale"`
	DragExhale      float64 `yaml:"drag_exhale"`

	Wind     float64 `yaml:"wind"`
	WindFreq float64 `yaml:"wind_freq"`
	WindTime float64 `yaml:"wind_time"`

	Jitter     float64 `yaml:"jitter"`
	JitterFreq float64 `yaml:"jitter_freq"`

	Buoyancy float64 `yaml:"buoyancy"`

	RepulsionOffset   float64 `yaml:"repulsion_offset"`
	RepulsionStrength float64 `yaml:"repulsion_strength"`
	RepulsionPower    float64 `yaml:"repulsion_power"`

	// CrystalStiffness optionally lets crystallization tighten the orbit
	// spring on top of the phase blend. Zero keeps the couplings separate.
	CrystalStiffness float64 `yaml:"crystal_stiffness"`
}

func DefaultParams() Params {
	return Params{
		Count:             300,
		Mass:              1.0,
		StiffnessInhale:   3.2,
		StiffnessExhale:   1.6,
		DragInhale:        0.90,
		DragExhale:        0.94,
		Wind:              0.55,
		WindFreq:          0.35,
		WindTime:          0.3,
		Jitter:            0.4,
		JitterFreq:        18,
		Buoyancy:          0.12,
		RepulsionOffset:   0.15,
		RepulsionStrength: 6.0,
		RepulsionPower:    2.2,
		CrystalStiffness:  0,
	}
}
