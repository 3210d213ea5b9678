// pkg/config/env_test.go
package config

import (
	"testing"
)

func TestApplyEnvironmentOverrides_Unset(t *testing.T) {
	cfg := DefaultConfig()
	original := *cfg

	if err := ApplyEnvironmentOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides() error: %v", err)
	}
	if *cfg != original {
		t.Errorf("config changed with no environment set: %+v", *cfg)
	}
}

func TestApplyEnvironmentOverrides_Values(t *testing.T) {
	t.Setenv(EnvArenaWidth, "1024")
	t.Setenv(EnvGravity, "490.5")
	t.Setenv(EnvTickRate, "30")
	t.Setenv(EnvMaxBodies, "128")

	cfg := DefaultConfig()
	if err := ApplyEnvironmentOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides() error: %v", err)
	}

	if cfg.Arena.Width != 1024 {
		t.Errorf("Arena.Width = %v, expected 1024", cfg.Arena.Width)
	}
	if cfg.Physics.Gravity != 490.5 {
		t.Errorf("Physics.Gravity = %v, expected 490.5", cfg.Physics.Gravity)
	}
	if cfg.Scheduler.TickRate != 30 {
		t.Errorf("Scheduler.TickRate = %v, expected 30", cfg.Scheduler.TickRate)
	}
	if cfg.Limits.MaxBodies != 128 {
		t.Errorf("Limits.MaxBodies = %v, expected 128", cfg.Limits.MaxBodies)
	}
	// Untouched fields keep their loaded values.
	if cfg.Arena.Height != 600 {
		t.Errorf("Arena.Height = %v, expected untouched 600", cfg.Arena.Height)
	}
}

func TestApplyEnvironmentOverrides_Malformed(t *testing.T) {
	t.Setenv(EnvTickRate, "sixty")

	if err := ApplyEnvironmentOverrides(DefaultConfig()); err == nil {
		t.Error("ApplyEnvironmentOverrides() accepted a non-numeric tick rate")
	}
}

func TestApplyEnvironmentOverrides_InvalidResult(t *testing.T) {
	t.Setenv(EnvArenaWidth, "-100")

	if err := ApplyEnvironmentOverrides(DefaultConfig()); err == nil {
		t.Error("ApplyEnvironmentOverrides() accepted a negative arena width")
	}
}
