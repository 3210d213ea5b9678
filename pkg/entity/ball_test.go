// pkg/entity/ball_test.go
package entity

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(5, 50, 0)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

func TestBall_MassDerivedFromRadius(t *testing.T) {
	tests := []struct {
		name     string
		radius   float64
		expected float64
	}{
		{name: "radius_20", radius: 20, expected: 400},
		{name: "radius_5", radius: 5, expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			ball, err := r.NewBall(physics.Vector2D{X: 100, Y: 100}, tt.radius)
			if err != nil {
				t.Fatalf("NewBall() error: %v", err)
			}
			if ball.Mass() != tt.expected {
				t.Errorf("Mass() = %v, expected %v", ball.Mass(), tt.expected)
			}
		})
	}
}

func TestBall_GetCollider(t *testing.T) {
	r := newTestRegistry(t)
	ball, err := r.NewBall(physics.Vector2D{X: 30, Y: 40}, 10)
	if err != nil {
		t.Fatalf("NewBall() error: %v", err)
	}

	collider := ball.GetCollider()
	if collider.Center != ball.Position || collider.Radius != 10 {
		t.Errorf("GetCollider() = %+v, expected center %v radius 10", collider, ball.Position)
	}
}

func TestBall_ApplyForce(t *testing.T) {
	r := newTestRegistry(t)
	ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	if err != nil {
		t.Fatalf("NewBall() error: %v", err)
	}

	if err := ball.ApplyForce(physics.Vector2D{X: 200, Y: 0}); err != nil {
		t.Fatalf("ApplyForce() error: %v", err)
	}
	// a = F/m = 200/100
	if math.Abs(ball.Acceleration.X-2) > 1e-9 {
		t.Errorf("Acceleration.X = %v, expected 2", ball.Acceleration.X)
	}
}

func TestBall_ApplyForce_Frozen(t *testing.T) {
	r := newTestRegistry(t)
	ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	if err != nil {
		t.Fatalf("NewBall() error: %v", err)
	}
	ball.Frozen = true

	if err := ball.ApplyForce(physics.Vector2D{X: 200, Y: 0}); err != nil {
		t.Fatalf("ApplyForce() error: %v", err)
	}
	if ball.Acceleration != (physics.Vector2D{}) {
		t.Errorf("frozen ball accumulated acceleration: %v", ball.Acceleration)
	}
}

func TestBall_ApplyForce_ZeroMass(t *testing.T) {
	r := newTestRegistry(t)
	ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	if err != nil {
		t.Fatalf("NewBall() error: %v", err)
	}
	ball.Radius = 0 // violate the invariant deliberately

	err = ball.ApplyForce(physics.Vector2D{X: 1, Y: 0})
	if !errors.Is(err, physics.ErrZeroDivision) {
		t.Errorf("ApplyForce() error = %v, expected ErrZeroDivision", err)
	}
}

func TestRegistry_RadiusValidation(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		wantErr bool
	}{
		{name: "below_min", radius: 4, wantErr: true},
		{name: "at_min", radius: 5},
		{name: "at_max", radius: 50},
		{name: "above_max", radius: 51, wantErr: true},
		{name: "zero", radius: 0, wantErr: true},
		{name: "negative", radius: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			_, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, tt.radius)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBall(radius=%v) error = %v, wantErr %v", tt.radius, err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_UniqueStableIDs(t *testing.T) {
	r := newTestRegistry(t)
	seen := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
		if err != nil {
			t.Fatalf("NewBall() error: %v", err)
		}
		if seen[ball.ID()] {
			t.Fatalf("duplicate ID %d", ball.ID())
		}
		seen[ball.ID()] = true
	}
}

func TestRegistry_BallsInsertionOrder(t *testing.T) {
	r := newTestRegistry(t)
	var ids []uint64
	for i := 0; i < 5; i++ {
		ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
		if err != nil {
			t.Fatalf("NewBall() error: %v", err)
		}
		ids = append(ids, ball.ID())
	}

	balls := r.Balls()
	if len(balls) != 5 {
		t.Fatalf("Balls() returned %d, expected 5", len(balls))
	}
	for i, b := range balls {
		if b.ID() != ids[i] {
			t.Errorf("Balls()[%d].ID() = %d, expected %d", i, b.ID(), ids[i])
		}
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := newTestRegistry(t)
	ball, err := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	if err != nil {
		t.Fatalf("NewBall() error: %v", err)
	}

	r.Remove(ball.ID())
	if _, ok := r.Get(ball.ID()); ok {
		t.Error("ball still present after Remove()")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", r.Len())
	}
}

func TestRegistry_EvictsOldestAtCapacity(t *testing.T) {
	r, err := NewRegistry(5, 50, 3)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	first, _ := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	r.NewBall(physics.Vector2D{X: 1, Y: 0}, 10)
	r.NewBall(physics.Vector2D{X: 2, Y: 0}, 10)
	fourth, _ := r.NewBall(physics.Vector2D{X: 3, Y: 0}, 10)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, expected capacity 3", r.Len())
	}
	if _, ok := r.Get(first.ID()); ok {
		t.Error("oldest ball survived eviction")
	}
	if _, ok := r.Get(fourth.ID()); !ok {
		t.Error("newest ball missing after eviction")
	}
}

func TestRegistry_EvictionSkipsFrozen(t *testing.T) {
	r, err := NewRegistry(5, 50, 2)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	frozen, _ := r.NewBall(physics.Vector2D{X: 0, Y: 0}, 10)
	frozen.Frozen = true
	second, _ := r.NewBall(physics.Vector2D{X: 1, Y: 0}, 10)
	r.NewBall(physics.Vector2D{X: 2, Y: 0}, 10)

	if _, ok := r.Get(frozen.ID()); !ok {
		t.Error("frozen ball was evicted ahead of a movable one")
	}
	if _, ok := r.Get(second.ID()); ok {
		t.Error("expected the oldest non-frozen ball to be evicted")
	}
}

func TestRegistry_SpawnRandom(t *testing.T) {
	r := newTestRegistry(t)
	arena := physics.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	rng := rand.New(rand.NewSource(7))

	balls, err := r.SpawnRandom(20, arena, 100, rng)
	if err != nil {
		t.Fatalf("SpawnRandom() error: %v", err)
	}
	if len(balls) != 20 {
		t.Fatalf("spawned %d balls, expected 20", len(balls))
	}

	for _, b := range balls {
		if b.Radius < 5 || b.Radius > 50 {
			t.Errorf("ball %d radius %v outside [5, 50]", b.ID(), b.Radius)
		}
		if b.Position.X-b.Radius < 0 || b.Position.X+b.Radius > arena.Width ||
			b.Position.Y-b.Radius < 0 || b.Position.Y+b.Radius > arena.Height {
			t.Errorf("ball %d spawned overlapping a wall at %v", b.ID(), b.Position)
		}
		if b.Velocity.Length() > 100+1e-9 {
			t.Errorf("ball %d speed %v exceeds spawn cap", b.ID(), b.Velocity.Length())
		}
	}
}
