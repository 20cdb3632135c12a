package config

import "sort"

// patterns holds the breathing patterns the CLI exposes by name. Each entry
// overrides only the breath section; everything else stays at the defaults.
var patterns = map[string]BreathConfig{
	"relaxing": {
		Inhale: 4, HoldIn: 7, Exhale: 8, HoldOut: 0,
		HoldInCrystal: 1.0,
	},
	"box": {
		Inhale: 4, HoldIn: 4, Exhale: 4, HoldOut: 4,
		HoldInCrystal: 1.0, HoldOutCrystal: 0.7,
	},
	"calm": {
		Inhale: 5, HoldIn: 0, Exhale: 5, HoldOut: 0,
	},
	"deep": {
		Inhale: 6, HoldIn: 2, Exhale: 7, HoldOut: 1,
		HoldInCrystal: 0.8, HoldOutCrystal: 0.5,
	},
}

// GetPreset returns a full config for a named breathing pattern, or nil if
// the name is unknown.
func GetPreset(name string) *Config {
	pat, ok := patterns[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Breath.Inhale = pat.Inhale
	cfg.Breath.HoldIn = pat.HoldIn
	cfg.Breath.Exhale = pat.Exhale
	cfg.Breath.HoldOut = pat.HoldOut
	cfg.Breath.HoldInCrystal = pat.HoldInCrystal
	cfg.Breath.HoldOutCrystal = pat.HoldOutCrystal
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
