// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig contains configuration for a ball-pit simulation.
type SimConfig struct {
	Arena     ArenaConfig     `json:"arena"`
	DeltaTime DeltaTimeConfig `json:"deltaTime"`
	Physics   PhysicsConfig   `json:"physics"`
	Collision CollisionConfig `json:"collision"`
	Limits    LimitsConfig    `json:"limits"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

// ArenaConfig describes the bounded arena the balls move in.
type ArenaConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DeltaTimeConfig bounds the per-tick elapsed time.
type DeltaTimeConfig struct {
	// Max is the clamp ceiling for dt in seconds; long frame gaps are
	// clamped to it to avoid integration blow-ups.
	Max float64 `json:"max"`
}

// PhysicsConfig contains the physical coefficients.
type PhysicsConfig struct {
	// Gravity is the default vertical acceleration stamped onto newly
	// spawned balls as their gravity scale.
	Gravity float64 `json:"gravity"`
	// Restitution is the fraction of relative normal velocity preserved
	// in ball-ball collisions.
	Restitution float64 `json:"restitution"`
	// WallRestitution is the energy-loss factor applied when reflecting
	// off an arena edge.
	WallRestitution float64 `json:"wallRestitution"`
	// Friction is the tangential friction coefficient for ball-ball
	// collisions.
	Friction float64 `json:"friction"`
}

// CollisionConfig tunes the broad and narrow phases.
type CollisionConfig struct {
	// MaxIterations is the number of detect/resolve passes per tick.
	MaxIterations int `json:"maxIterations"`
	// QuadtreeDepth caps spatial index recursion.
	QuadtreeDepth int `json:"quadtreeDepth"`
	// QuadtreeCapacity is the leaf occupancy before a node splits.
	QuadtreeCapacity int `json:"quadtreeCapacity"`
	// BruteForceThreshold is the body count below which the driver skips
	// the quadtree and compares all pairs directly.
	BruteForceThreshold int `json:"bruteForceThreshold"`
}

// LimitsConfig bounds body properties and population.
type LimitsConfig struct {
	MaxVelocity float64 `json:"maxVelocity"`
	MinSize     float64 `json:"minSize"`
	MaxSize     float64 `json:"maxSize"`
	// MaxBodies caps the registry population; 0 means unbounded.
	MaxBodies int `json:"maxBodies"`
}

// SchedulerConfig tunes the external tick scheduler.
type SchedulerConfig struct {
	// TickRate is the target ticks per second.
	TickRate int `json:"tickRate"`
	// MaxConsecutiveFails is the failed-tick count that trips the
	// scheduler's circuit breaker and halts the run.
	MaxConsecutiveFails int `json:"maxConsecutiveFails"`
}

// LoadConfig loads a configuration from a file.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &config, nil
}

// SaveConfig saves a configuration to a file.
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default simulation configuration.
func DefaultConfig() *SimConfig {
	return &SimConfig{
		Arena: ArenaConfig{
			Width:  800,
			Height: 600,
		},
		DeltaTime: DeltaTimeConfig{
			Max: 0.1,
		},
		Physics: PhysicsConfig{
			Gravity:         980,
			Restitution:     0.8,
			WallRestitution: 0.8,
			Friction:        0.05,
		},
		Collision: CollisionConfig{
			MaxIterations:       1,
			QuadtreeDepth:       6,
			QuadtreeCapacity:    8,
			BruteForceThreshold: 16,
		},
		Limits: LimitsConfig{
			MaxVelocity: 2000,
			MinSize:     5,
			MaxSize:     50,
			MaxBodies:   256,
		},
		Scheduler: SchedulerConfig{
			TickRate:            60,
			MaxConsecutiveFails: 5,
		},
	}
}

// Validate rejects configuration misuse at construction time, before
// any value can reach the physics driver.
func (c *SimConfig) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("arena dimensions must be positive, got %vx%v", c.Arena.Width, c.Arena.Height)
	}
	if c.DeltaTime.Max <= 0 {
		return fmt.Errorf("deltaTime.max must be positive, got %v", c.DeltaTime.Max)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("physics.restitution must be in [0, 1], got %v", c.Physics.Restitution)
	}
	if c.Physics.WallRestitution < 0 || c.Physics.WallRestitution > 1 {
		return fmt.Errorf("physics.wallRestitution must be in [0, 1], got %v", c.Physics.WallRestitution)
	}
	if c.Physics.Friction < 0 {
		return fmt.Errorf("physics.friction must be non-negative, got %v", c.Physics.Friction)
	}
	if c.Collision.MaxIterations < 1 {
		return fmt.Errorf("collision.maxIterations must be at least 1, got %d", c.Collision.MaxIterations)
	}
	if c.Collision.QuadtreeDepth < 1 {
		return fmt.Errorf("collision.quadtreeDepth must be at least 1, got %d", c.Collision.QuadtreeDepth)
	}
	if c.Collision.QuadtreeCapacity < 1 {
		return fmt.Errorf("collision.quadtreeCapacity must be at least 1, got %d", c.Collision.QuadtreeCapacity)
	}
	if c.Collision.BruteForceThreshold < 0 {
		return fmt.Errorf("collision.bruteForceThreshold must be non-negative, got %d", c.Collision.BruteForceThreshold)
	}
	if c.Limits.MaxVelocity <= 0 {
		return fmt.Errorf("limits.maxVelocity must be positive, got %v", c.Limits.MaxVelocity)
	}
	if c.Limits.MinSize <= 0 {
		return fmt.Errorf("limits.minSize must be positive, got %v", c.Limits.MinSize)
	}
	if c.Limits.MaxSize < c.Limits.MinSize {
		return fmt.Errorf("limits.maxSize %v below limits.minSize %v", c.Limits.MaxSize, c.Limits.MinSize)
	}
	if c.Limits.MaxBodies < 0 {
		return fmt.Errorf("limits.maxBodies must be non-negative, got %d", c.Limits.MaxBodies)
	}
	if c.Scheduler.TickRate < 1 {
		return fmt.Errorf("scheduler.tickRate must be at least 1, got %d", c.Scheduler.TickRate)
	}
	if c.Scheduler.MaxConsecutiveFails < 1 {
		return fmt.Errorf("scheduler.maxConsecutiveFails must be at least 1, got %d", c.Scheduler.MaxConsecutiveFails)
	}
	return nil
}
