// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape.
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles overlap. Exact tangency (distance equal
// to the radius sum) does not count as a collision.
func (c Circle) Collides(other Circle) bool {
	sum := c.Radius + other.Radius
	return c.Center.DistanceSquared(other.Center) < sum*sum
}

// CollisionResult contains information about a collision.
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles.
// The normal points from a toward b. When the centers exactly coincide the
// normal degenerates, so a fixed (1,0) normal is substituted to keep
// resolution deterministic.
func CheckCollision(a, b Circle) CollisionResult {
	normal := *b.Center.Clone().Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	penetration := a.Radius + b.Radius - distance

	if distance == 0 {
		normal = Vector2D{X: 1, Y: 0}
	} else {
		normal.Normalize()
	}
	contactPoint := *a.Center.Clone().Add(*normal.Clone().Scale(a.Radius))

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  penetration,
		ContactPoint: contactPoint,
	}
}
