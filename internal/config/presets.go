package config

var Presets = map[string]map[string]*Config{
	"one_player_reachability": {
		"default": {
			Problem: "one_player_reachability", Integrator: "rk4",
			Dt: 0.1, Horizon: 2.0, MaxIterations: 50, Tolerance: 1e-2,
		},
		"long": {
			Problem: "one_player_reachability", Integrator: "rk4",
			Dt: 0.1, Horizon: 5.0, MaxIterations: 100, Tolerance: 1e-2,
		},
	},
	"two_player_intersection": {
		"default": {
			Problem: "two_player_intersection", Integrator: "rk4",
			Dt: 0.1, Horizon: 5.0, MaxIterations: 100, Tolerance: 1e-2,
		},
		"cautious": {
			Problem: "two_player_intersection", Integrator: "rk4",
			Dt: 0.05, Horizon: 5.0, MaxIterations: 200, Tolerance: 5e-3,
		},
	},
	"three_player_intersection": {
		"default": {
			Problem: "three_player_intersection", Integrator: "rk4",
			Dt: 0.1, Horizon: 5.0, MaxIterations: 150, Tolerance: 1e-2,
		},
	},
}

func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	merged := *DefaultConfig()
	base := *cfg
	merged.Problem = base.Problem
	merged.Integrator = base.Integrator
	merged.Dt = base.Dt
	merged.Horizon = base.Horizon
	merged.MaxIterations = base.MaxIterations
	merged.Tolerance = base.Tolerance
	return &merged
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	return names
}
