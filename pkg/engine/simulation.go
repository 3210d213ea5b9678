// pkg/engine/simulation.go
package engine

import (
	"fmt"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Simulation is the per-tick physics driver. Each Update runs the full
// pipeline synchronously: integrate, contain in the arena, rebuild the
// spatial index, detect overlapping pairs, resolve them. It keeps no
// state between ticks other than the tick counter; the body collection
// is owned by the registry and the spatial index is rebuilt from
// scratch every tick.
type Simulation struct {
	Config       *config.SimConfig
	Registry     *entity.Registry
	EventBus     *event.Bus
	SpatialIndex *physics.Quadtree

	CurrentTick     uint64
	TotalCollisions uint64
}

// NewSimulation creates a simulation driver over a validated
// configuration. The event bus is optional; a nil bus disables
// collision notifications.
func NewSimulation(cfg *config.SimConfig, registry *entity.Registry, bus *event.Bus) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if registry == nil {
		return nil, fmt.Errorf("engine: registry is required")
	}
	return &Simulation{
		Config:   cfg,
		Registry: registry,
		EventBus: bus,
	}, nil
}

// Arena returns the arena bounds as a rectangle anchored at the origin.
func (s *Simulation) Arena() physics.Rect {
	return physics.Rect{
		X:      0,
		Y:      0,
		Width:  s.Config.Arena.Width,
		Height: s.Config.Arena.Height,
	}
}

// Update advances the simulation by one tick. dt is the elapsed time in
// seconds, clamped to deltaTime.max. A returned error means the tick
// did not fully complete and the caller must sanitize its input before
// retrying.
func (s *Simulation) Update(dt float64) error {
	if dt < 0 {
		return fmt.Errorf("engine: negative dt %v", dt)
	}
	if dt > s.Config.DeltaTime.Max {
		dt = s.Config.DeltaTime.Max
	}

	balls := s.Registry.Balls()

	s.integrate(balls, dt)
	s.containInArena(balls)

	for i := 0; i < s.Config.Collision.MaxIterations; i++ {
		resolved, err := s.resolveCollisions(balls)
		if err != nil {
			return fmt.Errorf("engine: tick %d: %w", s.CurrentTick, err)
		}
		s.TotalCollisions += uint64(resolved)
		if resolved == 0 {
			break
		}
	}

	s.CurrentTick++
	return nil
}

// integrate advances each non-frozen ball's kinematics. Gravity is
// reapplied into the acceleration every tick rather than accumulated;
// the acceleration is zeroed afterwards so applied forces last exactly
// one tick.
func (s *Simulation) integrate(balls []*entity.Ball, dt float64) {
	maxVelocity := s.Config.Limits.MaxVelocity
	for _, ball := range balls {
		if ball.Frozen {
			continue
		}
		if ball.GravityScale != 0 {
			ball.Acceleration.Y += ball.GravityScale
		}
		ball.Velocity.Add(*ball.Acceleration.Clone().Scale(dt)).Limit(maxVelocity)
		ball.Position.Add(*ball.Velocity.Clone().Scale(dt))
		ball.Acceleration.Set(0, 0)
	}
}

// containInArena clamps penetrating balls back to the arena edges and
// reflects the offending velocity component with the wall restitution
// factor. Axes are checked independently, so a corner hit bounces off
// both edges in the same tick. Frozen balls never move, so they are
// skipped.
func (s *Simulation) containInArena(balls []*entity.Ball) {
	width := s.Config.Arena.Width
	height := s.Config.Arena.Height
	restitution := s.Config.Physics.WallRestitution

	for _, ball := range balls {
		if ball.Frozen {
			continue
		}
		r := ball.Radius

		if ball.Position.X-r < 0 {
			ball.Position.X = r
			s.reflectWall(ball, &ball.Velocity.X, restitution)
		} else if ball.Position.X+r > width {
			ball.Position.X = width - r
			s.reflectWall(ball, &ball.Velocity.X, restitution)
		}

		if ball.Position.Y-r < 0 {
			ball.Position.Y = r
			s.reflectWall(ball, &ball.Velocity.Y, restitution)
		} else if ball.Position.Y+r > height {
			ball.Position.Y = height - r
			s.reflectWall(ball, &ball.Velocity.Y, restitution)
		}
	}
}

// reflectWall reverses one velocity component with energy loss and
// publishes the bounce.
func (s *Simulation) reflectWall(ball *entity.Ball, component *float64, restitution float64) {
	speed := *component
	if speed < 0 {
		speed = -speed
	}
	*component = -*component * restitution
	if s.EventBus != nil {
		s.EventBus.Publish(event.NewWallCollisionEvent(s, ball.ID(), speed))
	}
}

// resolveCollisions runs one broad-phase + narrow-phase + resolution
// pass and returns the number of overlapping pairs resolved. Small
// populations skip the quadtree for a direct all-pairs scan; both paths
// feed the same resolver and consider each unordered pair exactly once.
func (s *Simulation) resolveCollisions(balls []*entity.Ball) (int, error) {
	if len(balls) <= s.Config.Collision.BruteForceThreshold {
		return s.resolveAllPairs(balls)
	}
	return s.resolveWithIndex(balls)
}

// resolveAllPairs is the O(n²) fallback: iterate i<j so each unordered
// pair comes up once.
func (s *Simulation) resolveAllPairs(balls []*entity.Ball) (int, error) {
	resolved := 0
	for i := 0; i < len(balls); i++ {
		for j := i + 1; j < len(balls); j++ {
			hit, err := s.resolveContact(balls[i], balls[j])
			if err != nil {
				return resolved, err
			}
			if hit {
				resolved++
			}
		}
	}
	return resolved, nil
}

// resolveWithIndex rebuilds the quadtree over the arena and queries it
// per ball. The tree is a covering index, so a boundary-straddling ball
// can appear several times in one query; candidates are filtered to
// other.ID() > ball.ID() and deduplicated per probe so no pair is
// resolved twice, which would double-apply impulses.
func (s *Simulation) resolveWithIndex(balls []*entity.Ball) (int, error) {
	s.prepareSpatialIndex()
	for _, ball := range balls {
		s.SpatialIndex.Insert(ball)
	}

	resolved := 0
	scratch := make([]physics.Body, 0, s.Config.Collision.QuadtreeCapacity*2)
	seen := make(map[uint64]struct{})

	for _, ball := range balls {
		scratch = s.SpatialIndex.Query(ball, scratch[:0])
		clear(seen)

		for _, candidate := range scratch {
			other, ok := candidate.(*entity.Ball)
			if !ok || other.ID() <= ball.ID() {
				continue
			}
			if _, dup := seen[other.ID()]; dup {
				continue
			}
			seen[other.ID()] = struct{}{}

			hit, err := s.resolveContact(ball, other)
			if err != nil {
				return resolved, err
			}
			if hit {
				resolved++
			}
		}
	}
	return resolved, nil
}

// prepareSpatialIndex clears the spatial index for the new pass or
// initializes it over the arena bounds.
func (s *Simulation) prepareSpatialIndex() {
	if s.SpatialIndex == nil {
		s.SpatialIndex = physics.NewQuadtree(
			s.Arena(),
			s.Config.Collision.QuadtreeCapacity,
			s.Config.Collision.QuadtreeDepth,
		)
	} else {
		s.SpatialIndex.Clear()
	}
}

// inverseMass returns 1/mass, treating frozen balls as immovable
// (inverse mass zero). A zero mass on a movable ball is the one hard
// failure of the pipeline: it means the minimum-size invariant was
// violated upstream.
func inverseMass(ball *entity.Ball) (float64, error) {
	if ball.Frozen {
		return 0, nil
	}
	mass := ball.Mass()
	if mass == 0 {
		return 0, fmt.Errorf("ball %d has zero mass: %w", ball.ID(), physics.ErrZeroDivision)
	}
	return 1 / mass, nil
}

// resolveContact narrow-phase tests one candidate pair and, on true
// overlap, applies positional correction followed by the normal and
// friction impulses. It reports whether the pair actually overlapped.
func (s *Simulation) resolveContact(a, b *entity.Ball) (bool, error) {
	if a.Frozen && b.Frozen {
		return false, nil
	}

	result := physics.CheckCollision(a.GetCollider(), b.GetCollider())
	if !result.Collided {
		return false, nil
	}

	invA, err := inverseMass(a)
	if err != nil {
		return false, err
	}
	invB, err := inverseMass(b)
	if err != nil {
		return false, err
	}
	invSum := invA + invB

	// De-penetration: split the overlap in inverse proportion to mass,
	// so the heavier ball moves less and a frozen ball not at all.
	a.Position.Add(*result.Normal.Clone().Scale(-result.Penetration * invA / invSum))
	b.Position.Add(*result.Normal.Clone().Scale(result.Penetration * invB / invSum))

	relVel := *b.Velocity.Clone().Sub(a.Velocity)
	velAlongNormal := relVel.Dot(result.Normal)

	s.publishBallCollision(a, b, result, velAlongNormal)

	// Already separating: applying an impulse would add energy and
	// cause resolution jitter.
	if velAlongNormal > 0 {
		return true, nil
	}

	j := -(1 + s.Config.Physics.Restitution) * velAlongNormal / invSum
	impulse := result.Normal.Clone().Scale(j)
	if !a.Frozen {
		a.Velocity.Sub(*impulse.Clone().Scale(invA))
	}
	if !b.Frozen {
		b.Velocity.Add(*impulse.Clone().Scale(invB))
	}

	tangent := result.Normal.Perp()
	jt := -relVel.Dot(tangent) * s.Config.Physics.Friction / invSum
	frictionImpulse := tangent.Clone().Scale(jt)
	if !a.Frozen {
		a.Velocity.Sub(*frictionImpulse.Clone().Scale(invA))
	}
	if !b.Frozen {
		b.Velocity.Add(*frictionImpulse.Clone().Scale(invB))
	}

	return true, nil
}

// publishBallCollision notifies subscribers of a resolved pair. Speed
// is the closing speed along the contact normal, zero for pairs that
// were overlapping but already separating.
func (s *Simulation) publishBallCollision(a, b *entity.Ball, result physics.CollisionResult, velAlongNormal float64) {
	if s.EventBus == nil {
		return
	}
	speed := 0.0
	if velAlongNormal < 0 {
		speed = -velAlongNormal
	}
	s.EventBus.Publish(event.NewBallCollisionEvent(s, a.ID(), b.ID(), result, speed))
}
