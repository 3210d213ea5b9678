// pkg/entity/ball.go
package entity

import (
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Ball is a circular rigid body. Mass is always derived from the radius
// (area-proportional, radius squared) and is never set independently. A
// frozen ball is excluded from integration and never receives velocity
// changes, but still participates as an immovable obstacle during
// de-penetration and broad-phase queries.
type Ball struct {
	ecs.BasicEntity

	Position     physics.Vector2D
	Velocity     physics.Vector2D
	Acceleration physics.Vector2D
	Radius       float64
	GravityScale float64
	Frozen       bool
}

// Mass returns the ball's mass, derived as radius squared.
func (b *Ball) Mass() float64 {
	return b.Radius * b.Radius
}

// GetPosition returns the ball's position.
func (b *Ball) GetPosition() physics.Vector2D {
	return b.Position
}

// GetRadius returns the ball's radius.
func (b *Ball) GetRadius() float64 {
	return b.Radius
}

// GetCollider returns the ball's collision shape.
func (b *Ball) GetCollider() physics.Circle {
	return physics.Circle{
		Center: b.Position,
		Radius: b.Radius,
	}
}

// ApplyForce accumulates a force into the ball's acceleration for the
// next integration step (a += F/m). Frozen balls ignore forces. The only
// error path is a zero mass, which violates the minimum-size invariant.
func (b *Ball) ApplyForce(force physics.Vector2D) error {
	if b.Frozen {
		return nil
	}
	scaled, err := force.Clone().Div(b.Mass())
	if err != nil {
		return fmt.Errorf("apply force to ball %d: %w", b.ID(), err)
	}
	b.Acceleration.Add(*scaled)
	return nil
}
