package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/mkrv/lqnash/internal/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Problem == "" {
		t.Error("default config needs a problem name")
	}
	if cfg.Dt != DefaultDt || cfg.Horizon != DefaultHorizon {
		t.Errorf("unexpected defaults: dt=%f horizon=%f", cfg.Dt, cfg.Horizon)
	}
	if cfg.Steps() != 20 {
		t.Errorf("expected 20 steps from defaults, got %d", cfg.Steps())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solve.yaml")

	cfg := DefaultConfig()
	cfg.Problem = "two_player_intersection"
	cfg.Dt = 0.05
	cfg.MaxIterations = 123
	cfg.Acceptance = "per_player"
	cfg.StopOnStall = false

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Problem != cfg.Problem {
		t.Errorf("problem: got %s, want %s", loaded.Problem, cfg.Problem)
	}
	if loaded.Dt != cfg.Dt {
		t.Errorf("dt: got %f, want %f", loaded.Dt, cfg.Dt)
	}
	if loaded.MaxIterations != 123 {
		t.Errorf("max iterations: got %d", loaded.MaxIterations)
	}
	if loaded.Acceptance != "per_player" {
		t.Errorf("acceptance: got %s", loaded.Acceptance)
	}
	if loaded.StopOnStall {
		t.Error("stop_on_stall should round-trip false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSolverParamsMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 77
	cfg.Tolerance = 1e-3
	cfg.InitialStep = 0.8
	cfg.Acceptance = "per_player"

	p := cfg.SolverParams()

	if p.MaxIterations != 77 {
		t.Errorf("max iterations: got %d", p.MaxIterations)
	}
	if math.Abs(p.ConvergenceTolerance-1e-3) > 1e-15 {
		t.Errorf("tolerance: got %g", p.ConvergenceTolerance)
	}
	if p.InitialStepSize != 0.8 {
		t.Errorf("initial step: got %f", p.InitialStepSize)
	}
	if p.Acceptance != solver.AcceptPerPlayer {
		t.Error("acceptance rule not mapped to per-player")
	}

	cfg.Acceptance = "total"
	if cfg.SolverParams().Acceptance != solver.AcceptTotalCost {
		t.Error("acceptance rule not mapped to total")
	}
}

func TestGetPresetMergesDefaults(t *testing.T) {
	cfg := GetPreset("two_player_intersection", "cautious")
	if cfg == nil {
		t.Fatal("expected cautious preset")
	}
	if cfg.Dt != 0.05 {
		t.Errorf("preset dt: got %f", cfg.Dt)
	}
	if cfg.MaxIterations != 200 {
		t.Errorf("preset iterations: got %d", cfg.MaxIterations)
	}
	// Fields the preset does not name come from the defaults.
	if cfg.InitialStep != DefaultInitialStep {
		t.Errorf("preset should inherit default initial step, got %f", cfg.InitialStep)
	}
	if cfg.StepShrink != DefaultStepShrink {
		t.Errorf("preset should inherit default shrink factor, got %f", cfg.StepShrink)
	}

	if GetPreset("two_player_intersection", "no_such") != nil {
		t.Error("expected nil for unknown preset")
	}
	if GetPreset("no_such_problem", "default") != nil {
		t.Error("expected nil for unknown problem")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("one_player_reachability")
	if len(names) != 2 {
		t.Errorf("expected 2 presets, got %v", names)
	}
	if ListPresets("no_such_problem") != nil {
		t.Error("expected nil for unknown problem")
	}
}
