// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognized by ApplyEnvironmentOverrides.
const (
	EnvArenaWidth  = "BALLPIT_ARENA_WIDTH"
	EnvArenaHeight = "BALLPIT_ARENA_HEIGHT"
	EnvGravity     = "BALLPIT_GRAVITY"
	EnvTickRate    = "BALLPIT_TICK_RATE"
	EnvMaxBodies   = "BALLPIT_MAX_BODIES"
)

// ApplyEnvironmentOverrides overlays BALLPIT_* environment variables
// onto an already loaded configuration, then re-validates it. Unset
// variables leave the corresponding fields untouched.
func ApplyEnvironmentOverrides(config *SimConfig) error {
	if err := overrideFloat(EnvArenaWidth, &config.Arena.Width); err != nil {
		return err
	}
	if err := overrideFloat(EnvArenaHeight, &config.Arena.Height); err != nil {
		return err
	}
	if err := overrideFloat(EnvGravity, &config.Physics.Gravity); err != nil {
		return err
	}
	if err := overrideInt(EnvTickRate, &config.Scheduler.TickRate); err != nil {
		return err
	}
	if err := overrideInt(EnvMaxBodies, &config.Limits.MaxBodies); err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("environment overrides produced invalid config: %w", err)
	}
	return nil
}

func overrideFloat(key string, target *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = value
	return nil
}

func overrideInt(key string, target *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = value
	return nil
}
