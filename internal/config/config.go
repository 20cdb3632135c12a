package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"breathe/internal/breath"
	"breathe/internal/damp"
	"breathe/internal/swarm"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 60.0
	DefaultUsers    = 0
)

// BreathConfig is the YAML shape of the breath curve. It flattens the
// per-phase arrays of breath.Params into named fields so session files read
// like a breathing pattern.
type BreathConfig struct {
	Curve   string  `yaml:"curve"`
	Inhale  float64 `yaml:"inhale"`
	HoldIn  float64 `yaml:"hold_in"`
	Exhale  float64 `yaml:"exhale"`
	HoldOut float64 `yaml:"hold_out"`

	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	MinScale  float64 `yaml:"min_scale"`
	MaxScale  float64 `yaml:"max_scale"`

	HoldInCrystal  float64 `yaml:"hold_in_crystal"`
	HoldOutCrystal float64 `yaml:"hold_out_crystal"`

	Delta float64 `yaml:"delta"`
}

type Config struct {
	Breath   BreathConfig `yaml:"breath"`
	Damping  damp.Speeds  `yaml:"damping"`
	Swarm    swarm.Params `yaml:"swarm"`
	Users    int          `yaml:"users"`
	Seed     int64        `yaml:"seed"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
}

func DefaultConfig() *Config {
	bp := breath.DefaultParams()
	return &Config{
		Breath: BreathConfig{
			Curve:          string(breath.KindPhases),
			Inhale:         bp.Durations[breath.Inhale],
			HoldIn:         bp.Durations[breath.HoldIn],
			Exhale:         bp.Durations[breath.Exhale],
			HoldOut:        bp.Durations[breath.HoldOut],
			MinRadius:      bp.MinRadius,
			MaxRadius:      bp.MaxRadius,
			MinScale:       bp.MinScale,
			MaxScale:       bp.MaxScale,
			HoldInCrystal:  bp.CrystalBounds[breath.HoldIn][1],
			HoldOutCrystal: bp.CrystalBounds[breath.HoldOut][1],
			Delta:          bp.Delta,
		},
		Damping:  damp.DefaultSpeeds(),
		Swarm:    swarm.DefaultParams(),
		Users:    DefaultUsers,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
	}
}

// Load reads a session file over the defaults, so partial files only
// override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BreathParams reassembles breath.Params from the flattened YAML fields.
func (c *Config) BreathParams() breath.Params {
	return breath.Params{
		Durations: [4]float64{c.Breath.Inhale, c.Breath.HoldIn, c.Breath.Exhale, c.Breath.HoldOut},
		MinRadius: c.Breath.MinRadius,
		MaxRadius: c.Breath.MaxRadius,
		MinScale:  c.Breath.MinScale,
		MaxScale:  c.Breath.MaxScale,
		CrystalBounds: [4][2]float64{
			breath.HoldIn:  {0, c.Breath.HoldInCrystal},
			breath.HoldOut: {0, c.Breath.HoldOutCrystal},
		},
		Delta: c.Breath.Delta,
	}
}

func (c *Config) CurveKind() breath.Kind { return breath.Kind(c.Breath.Curve) }

// Curve builds the configured curve, validating the breath parameters in
// the process.
func (c *Config) Curve() (breath.Curve, error) {
	return breath.New(c.CurveKind(), c.BreathParams())
}

func (c *Config) Validate() error {
	if _, err := c.Curve(); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.Swarm.Count <= 0 {
		return fmt.Errorf("config: swarm count must be positive, got %d", c.Swarm.Count)
	}
	if c.Users < 0 {
		return fmt.Errorf("config: users must be non-negative, got %d", c.Users)
	}
	if c.Users > c.Swarm.Count {
		return fmt.Errorf("config: users %d exceed swarm count %d", c.Users, c.Swarm.Count)
	}
	return nil
}
