// pkg/entity/registry.go
package entity

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Registry is the owning collection of balls. It assigns unique, stable
// IDs at creation, enforces the size invariants before bodies ever reach
// the physics driver, keeps a deterministic iteration order, and evicts
// the oldest ball when the population exceeds its capacity.
type Registry struct {
	balls     map[uint64]*Ball
	order     []uint64
	minSize   float64
	maxSize   float64
	maxBodies int
}

// NewRegistry creates a registry enforcing the given radius bounds.
// maxBodies <= 0 means unbounded.
func NewRegistry(minSize, maxSize float64, maxBodies int) (*Registry, error) {
	if minSize <= 0 {
		return nil, fmt.Errorf("registry: minSize must be positive, got %v", minSize)
	}
	if maxSize < minSize {
		return nil, fmt.Errorf("registry: maxSize %v below minSize %v", maxSize, minSize)
	}
	return &Registry{
		balls:     make(map[uint64]*Ball),
		minSize:   minSize,
		maxSize:   maxSize,
		maxBodies: maxBodies,
	}, nil
}

// NewBall creates a ball at the given position, registers it, and
// returns it. The radius is validated against the configured bounds
// here, at creation time, so a zero-mass body can never reach the
// driver. Velocity, gravity scale and the frozen flag are set by the
// caller on the returned ball.
func (r *Registry) NewBall(position physics.Vector2D, radius float64) (*Ball, error) {
	if radius < r.minSize || radius > r.maxSize {
		return nil, fmt.Errorf("registry: radius %v outside [%v, %v]", radius, r.minSize, r.maxSize)
	}

	if r.maxBodies > 0 && len(r.order) >= r.maxBodies {
		r.evictOldest()
	}

	ball := &Ball{
		BasicEntity: ecs.NewBasic(),
		Position:    position,
		Radius:      radius,
	}
	r.balls[ball.ID()] = ball
	r.order = append(r.order, ball.ID())
	return ball, nil
}

// evictOldest removes the oldest non-frozen ball, falling back to the
// oldest ball outright when everything is frozen.
func (r *Registry) evictOldest() {
	for _, id := range r.order {
		if b, ok := r.balls[id]; ok && !b.Frozen {
			r.Remove(id)
			return
		}
	}
	if len(r.order) > 0 {
		r.Remove(r.order[0])
	}
}

// Get returns the ball with the given ID, if present.
func (r *Registry) Get(id uint64) (*Ball, bool) {
	b, ok := r.balls[id]
	return b, ok
}

// Remove deletes a ball from the registry.
func (r *Registry) Remove(id uint64) {
	if _, ok := r.balls[id]; !ok {
		return
	}
	delete(r.balls, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the current ball count.
func (r *Registry) Len() int {
	return len(r.balls)
}

// Balls returns the balls in insertion order. The slice is a fresh
// snapshot; the balls themselves are shared.
func (r *Registry) Balls() []*Ball {
	out := make([]*Ball, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.balls[id])
	}
	return out
}

// SpawnRandom creates count balls with randomized radius, position and
// velocity inside the arena, inset by each ball's radius so no ball
// starts embedded in a wall.
func (r *Registry) SpawnRandom(count int, arena physics.Rect, maxSpeed float64, rng *rand.Rand) ([]*Ball, error) {
	spawned := make([]*Ball, 0, count)
	for i := 0; i < count; i++ {
		radius := r.minSize + rng.Float64()*(r.maxSize-r.minSize)
		pos := physics.Vector2D{
			X: arena.X + radius + rng.Float64()*(arena.Width-2*radius),
			Y: arena.Y + radius + rng.Float64()*(arena.Height-2*radius),
		}
		ball, err := r.NewBall(pos, radius)
		if err != nil {
			return spawned, fmt.Errorf("spawn ball %d: %w", i, err)
		}
		ball.Velocity = *physics.FromAngle(rng.Float64()*2*math.Pi, rng.Float64()*maxSpeed)
		spawned = append(spawned, ball)
	}
	return spawned, nil
}
