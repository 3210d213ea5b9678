// cmd/ballpit/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/scheduler"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	ballCount := flag.Int("balls", 64, "Number of balls to spawn")
	duration := flag.Duration("duration", 0, "Run time before exiting (0 runs until interrupted)")
	seed := flag.Uint64("seed", 1, "RNG seed for spawning")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	simConfig := loadConfig(ctx, logger, *configPath)

	if err := config.ApplyEnvironmentOverrides(simConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	registry, err := entity.NewRegistry(
		simConfig.Limits.MinSize,
		simConfig.Limits.MaxSize,
		simConfig.Limits.MaxBodies,
	)
	if err != nil {
		logger.Error(ctx, "Failed to create registry", err)
		os.Exit(1)
	}

	bus := event.NewEventBus()
	sim, err := engine.NewSimulation(simConfig, registry, bus)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(int64(*seed)))
	balls, err := registry.SpawnRandom(*ballCount, sim.Arena(), simConfig.Limits.MaxVelocity/4, rng)
	if err != nil {
		logger.Error(ctx, "Failed to spawn balls", err, "spawned", len(balls))
		os.Exit(1)
	}
	for _, ball := range balls {
		ball.GravityScale = simConfig.Physics.Gravity
	}
	logger.Info(ctx, "Spawned balls", "count", registry.Len())

	var wallBounces atomic.Uint64
	bus.Subscribe(event.WallCollision, func(event.Event) {
		wallBounces.Add(1)
	})

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, *duration)
		defer cancel()
	}

	sched := scheduler.New(sim, simConfig.Scheduler, bus, logger)
	go reportStats(runCtx, logger, sim, registry, &wallBounces)

	logger.Info(ctx, "Simulation running",
		"arena_width", simConfig.Arena.Width,
		"arena_height", simConfig.Arena.Height,
		"tick_rate", simConfig.Scheduler.TickRate,
	)

	err = sched.Run(runCtx)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Info(ctx, "Simulation stopped",
			"ticks", sim.CurrentTick,
			"collisions", sim.TotalCollisions,
			"wall_bounces", wallBounces.Load(),
		)
	case err != nil:
		logger.Error(ctx, "Simulation halted", err, "ticks", sim.CurrentTick)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file, falling back to defaults
// when the file does not exist.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) *config.SimConfig {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig()
	}

	simConfig, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", path,
		)
		os.Exit(1)
	}
	return simConfig
}

// reportStats logs simulation counters once a second until the context
// ends.
func reportStats(ctx context.Context, logger *logging.Logger, sim *engine.Simulation, registry *entity.Registry, wallBounces *atomic.Uint64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info(ctx, "stats",
				"tick", sim.CurrentTick,
				"balls", registry.Len(),
				"collisions", sim.TotalCollisions,
				"wall_bounces", wallBounces.Load(),
			)
		}
	}
}
