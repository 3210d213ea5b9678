// Package scheduler owns the concerns the physics core deliberately
// does not: when ticks run, the pause flag, and what happens when a
// tick fails. The simulation itself stays a pure function of
// (bodies, dt, bounds); this package drives it at a fixed rate and
// wraps every tick in a circuit breaker so a persistently failing body
// set halts the run instead of spamming errors forever.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/logging"
)

// Scheduler drives a simulation at a fixed tick rate.
type Scheduler struct {
	sim     *engine.Simulation
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
	bus     *event.Bus

	interval time.Duration
	paused   atomic.Bool
	lastTick time.Time
}

// New creates a scheduler for the given simulation. The breaker trips
// after scheduler.maxConsecutiveFails consecutive failed ticks.
func New(sim *engine.Simulation, cfg config.SchedulerConfig, bus *event.Bus, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewLogger()
	}

	maxFails := uint32(cfg.MaxConsecutiveFails)
	settings := gobreaker.Settings{
		Name: "ballpit-tick",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "tick breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Scheduler{
		sim:      sim,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
		bus:      bus,
		interval: time.Second / time.Duration(cfg.TickRate),
	}
}

// Pause stops ticks from running until Resume. The current tick, if
// any, completes first; the core never suspends mid-pipeline.
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

// Resume re-enables ticks.
func (s *Scheduler) Resume() {
	s.paused.Store(false)
	// Forget time spent paused so the next dt stays small.
	s.lastTick = time.Now()
}

// Paused reports whether the scheduler is paused.
func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// Step runs a single tick through the circuit breaker, measuring dt
// since the previous tick. An open breaker returns immediately with
// gobreaker.ErrOpenState wrapped.
func (s *Scheduler) Step(ctx context.Context) error {
	now := time.Now()
	dt := now.Sub(s.lastTick).Seconds()
	if s.lastTick.IsZero() {
		dt = 0
	}
	s.lastTick = now

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.sim.Update(dt)
	})
	if err != nil {
		s.logger.Error(ctx, "tick failed", err,
			"tick", s.sim.CurrentTick,
			"breaker_state", s.breaker.State().String(),
		)
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

// Run ticks the simulation at the configured rate until the context is
// cancelled or the breaker opens. Paused intervals skip the tick but
// keep the loop alive.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.bus != nil {
		s.bus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: s})
		defer s.bus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: s})
	}

	s.lastTick = time.Now()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.paused.Load() {
				s.lastTick = time.Now()
				continue
			}
			if err := s.Step(ctx); err != nil {
				// An open breaker means the allowed consecutive
				// failures are spent; stop instead of spinning.
				if errors.Is(err, gobreaker.ErrOpenState) {
					return err
				}
				// Single failed ticks are survivable; the caller is
				// expected to sanitize the body set between ticks.
			}
		}
	}
}
