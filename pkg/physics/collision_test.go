// pkg/physics/collision_test.go
package physics

import (
	"math"
	"testing"
)

func TestCircle_Collides(t *testing.T) {
	tests := []struct {
		name     string
		a        Circle
		b        Circle
		expected bool
	}{
		{
			name:     "overlapping",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 10},
			expected: true,
		},
		{
			name:     "separated",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 25, Y: 0}, Radius: 10},
			expected: false,
		},
		{
			name: "exactly_touching",
			// Distance equals the radius sum; tangency is not a collision.
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 20, Y: 0}, Radius: 10},
			expected: false,
		},
		{
			name:     "contained",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 1, Y: 1}, Radius: 2},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(tt.b); got != tt.expected {
				t.Errorf("Collides() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCheckCollision(t *testing.T) {
	a := Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10}
	b := Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 10}

	result := CheckCollision(a, b)
	if !result.Collided {
		t.Fatal("CheckCollision() expected collision")
	}
	if result.Normal != (Vector2D{X: 1, Y: 0}) {
		t.Errorf("Normal = %v, expected (1, 0)", result.Normal)
	}
	if math.Abs(result.Penetration-5) > 1e-9 {
		t.Errorf("Penetration = %v, expected 5", result.Penetration)
	}
	if result.ContactPoint != (Vector2D{X: 10, Y: 0}) {
		t.Errorf("ContactPoint = %v, expected (10, 0)", result.ContactPoint)
	}
}

func TestCheckCollision_NoOverlap(t *testing.T) {
	a := Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5}
	b := Circle{Center: Vector2D{X: 100, Y: 0}, Radius: 5}

	if result := CheckCollision(a, b); result.Collided {
		t.Errorf("CheckCollision() = %+v, expected no collision", result)
	}
}

func TestCheckCollision_ExactTangency(t *testing.T) {
	a := Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10}
	b := Circle{Center: Vector2D{X: 20, Y: 0}, Radius: 10}

	if result := CheckCollision(a, b); result.Collided {
		t.Errorf("CheckCollision() reported tangent circles as colliding: %+v", result)
	}
}

func TestCheckCollision_CoincidentCenters(t *testing.T) {
	a := Circle{Center: Vector2D{X: 5, Y: 5}, Radius: 10}
	b := Circle{Center: Vector2D{X: 5, Y: 5}, Radius: 10}

	result := CheckCollision(a, b)
	if !result.Collided {
		t.Fatal("CheckCollision() expected collision for coincident centers")
	}
	if result.Normal != (Vector2D{X: 1, Y: 0}) {
		t.Errorf("Normal = %v, expected fallback (1, 0)", result.Normal)
	}
	if result.Penetration != 20 {
		t.Errorf("Penetration = %v, expected 20", result.Penetration)
	}
}
