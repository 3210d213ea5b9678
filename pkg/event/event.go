// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Type represents the type of event.
type Type string

// Common event types
const (
	BallCollision     Type = "ball_collision"
	WallCollision     Type = "wall_collision"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
)

// Event is the base interface for all events.
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events.
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type.
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source.
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus manages event subscriptions and dispatching. Publishing is
// synchronous; handlers run on the caller's goroutine.
type Bus struct {
	handlers map[Type][]subscription
	nextID   int
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus.
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers a handler for a specific event type and returns a
// function that removes the subscription.
func (b *Bus) Subscribe(eventType Type, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribed handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// BallCollisionEvent records a resolved ball-ball collision.
type BallCollisionEvent struct {
	BaseEvent
	BallA       uint64
	BallB       uint64
	Normal      physics.Vector2D
	Penetration float64
	Speed       float64 // closing speed along the normal at impact
}

// NewBallCollisionEvent creates a ball collision event.
func NewBallCollisionEvent(source interface{}, ballA, ballB uint64, result physics.CollisionResult, speed float64) *BallCollisionEvent {
	return &BallCollisionEvent{
		BaseEvent: BaseEvent{
			EventType: BallCollision,
			Source:    source,
		},
		BallA:       ballA,
		BallB:       ballB,
		Normal:      result.Normal,
		Penetration: result.Penetration,
		Speed:       speed,
	}
}

// WallCollisionEvent records a ball bouncing off an arena edge.
type WallCollisionEvent struct {
	BaseEvent
	BallID uint64
	Speed  float64 // impact speed along the reflected axis
}

// NewWallCollisionEvent creates a wall collision event.
func NewWallCollisionEvent(source interface{}, ballID uint64, speed float64) *WallCollisionEvent {
	return &WallCollisionEvent{
		BaseEvent: BaseEvent{
			EventType: WallCollision,
			Source:    source,
		},
		BallID: ballID,
		Speed:  speed,
	}
}
