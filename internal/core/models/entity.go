package models

import (
	"fmt"

	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// EntityID is stamped by the registry on insertion. It is not an owning handle;
// it only gives deterministic ordering for tie-breaks and log output.
type EntityID uint64

// Kind tags what an entity is so per-frame dispatch stays a switch, not a type hierarchy.
type Kind uint8

const (
	KindProp Kind = iota
	KindPlayer
	KindEnemy
)

func (k Kind) String() string {
	switch k {
	case KindProp:
		return "prop"
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Entity is the renderable, simulated aggregate. Capabilities are optional:
// a nil Mob means the entity never moves or collides, a nil Brain means nothing
// drives it besides external input.
type Entity struct {
	ID   EntityID
	Kind Kind

	Position physics.Vec3
	Rotation physics.Vec3
	Scale    physics.Vec3
	Color    physics.Vec3
	Active   bool

	Action *Action
	Mob    *Mob
	Brain  Brain
}

// NewEntity returns an active entity with unit scale and white color.
func NewEntity(kind Kind, position physics.Vec3) *Entity {
	return &Entity{
		Kind:     kind,
		Position: position,
		Scale:    physics.V3(1, 1, 1),
		Color:    physics.V3(1, 1, 1),
		Active:   true,
	}
}

// Radius returns the collision radius, or zero for entities without a mob.
func (e *Entity) Radius() float64 {
	if e.Mob == nil {
		return 0
	}
	return e.Mob.Radius
}

// IsObstacle reports whether the entity takes part in collision queries.
func (e *Entity) IsObstacle() bool { return e.Active && e.Mob != nil }

// StartAction begins a timed action, replacing any action in flight.
func (e *Entity) StartAction(name string, duration float64) {
	e.Action = &Action{Name: name, Remaining: duration}
}

// Validate rejects non-finite positions and malformed mobs.
func (e *Entity) Validate() error {
	if !e.Position.IsFinite() {
		return fmt.Errorf("%w: position %v is not finite", ErrInvalidEntity, e.Position)
	}
	if e.Mob != nil {
		if err := e.Mob.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d", e.Kind, e.ID)
}
